package style

// Feature is the per-feature data an evaluator reads. It is opaque to the
// cascade and passed through untouched.
type Feature interface {
	// Property returns the value of a feature attribute.
	Property(name string) (any, bool)
}

// FeatureState is mutable runtime state attached to a feature (hover,
// selection, ...). Evaluators only read it.
type FeatureState map[string]any

// Attributes is a map-backed Feature.
type Attributes map[string]any

// Property implements Feature.
func (a Attributes) Property(name string) (any, bool) {
	v, ok := a[name]
	return v, ok
}

// lookup reads a feature attribute, treating a nil feature as empty.
func lookup(f Feature, name string) (any, bool) {
	if f == nil {
		return nil, false
	}
	return f.Property(name)
}

package style

import "time"

// PropertySet is an immutable mapping from every declared property of one
// section (paint or layout) to its possibly-evaluated value.
type PropertySet struct {
	section string
	names   []string
	values  map[string]PossiblyEvaluated
}

// Get returns the value of a declared property. Reading an undeclared name
// is a contract violation and panics with a *ContractViolation.
func (s *PropertySet) Get(name string) PossiblyEvaluated {
	v, ok := s.values[name]
	if !ok {
		violate(s.section+".Get", name, ErrUnknownProperty)
	}
	return v
}

// Has reports whether the property is declared.
func (s *PropertySet) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Names returns the property names in declaration order.
func (s *PropertySet) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of properties.
func (s *PropertySet) Len() int { return len(s.values) }

// Snapshot is the resolved state of one layer's properties for a
// (zoom, time, generation) triple. It is never mutated after creation and
// may be shared freely between goroutines.
type Snapshot struct {
	layerID    string
	schema     *Schema
	zoom       float64
	time       time.Time
	generation uint64
	paint      PropertySet
	layout     PropertySet
}

// Get returns a paint property. See PropertySet.Get.
func (s *Snapshot) Get(name string) PossiblyEvaluated {
	return s.paint.Get(name)
}

// Evaluate resolves a paint property for one feature.
func (s *Snapshot) Evaluate(name string, feature Feature, state FeatureState) any {
	return s.paint.Get(name).Evaluate(feature, state)
}

// Paint returns the paint properties.
func (s *Snapshot) Paint() *PropertySet { return &s.paint }

// Layout returns the layout properties. Layout properties never transition.
func (s *Snapshot) Layout() *PropertySet { return &s.layout }

// LayerID returns the id of the layer the snapshot belongs to.
func (s *Snapshot) LayerID() string { return s.layerID }

// Schema returns the schema the snapshot was built from.
func (s *Snapshot) Schema() *Schema { return s.schema }

// Zoom returns the zoom the snapshot was resolved at.
func (s *Snapshot) Zoom() float64 { return s.zoom }

// Time returns the time the snapshot was first resolved at. Snapshots with
// no running transition are reused for later times.
func (s *Snapshot) Time() time.Time { return s.time }

// Generation returns the style generation the snapshot reflects.
func (s *Snapshot) Generation() uint64 { return s.generation }

// CheckSchema panics with a *ContractViolation when the snapshot was built
// from a different schema.
func (s *Snapshot) CheckSchema(schema *Schema) {
	if s.schema != schema {
		violate("CheckSchema", "", ErrSchemaMismatch)
	}
}

package style

import (
	"fmt"
	"slices"
)

// PropertySpec declares one style property of a layer type.
type PropertySpec struct {
	// Name is the style-document key, e.g. "circle-radius".
	Name string

	// Type is the value type.
	Type Type

	// Default is the value used when the document does not set the
	// property. Its Go type must match Type.
	Default any

	// Values lists the allowed strings of an enum property.
	Values []string

	// Transition reports whether changes animate over a TransitionSpec.
	Transition bool

	// ZoomDependent reports whether the value may vary with zoom.
	ZoomDependent bool

	// DataDriven reports whether the value may vary per feature.
	DataDriven bool

	// Minimum and Maximum bound a number property when set. Literals,
	// stop outputs and expression results outside the range are invalid.
	Minimum, Maximum *float64
}

// Bound returns a pointer to v for PropertySpec.Minimum and Maximum.
func Bound(v float64) *float64 { return &v }

func (s *PropertySpec) checkRange(n float64) error {
	if s.Minimum != nil && n < *s.Minimum {
		return fmt.Errorf("%w: %s must be >= %g, got %g", ErrInvalidValue, s.Name, *s.Minimum, n)
	}
	if s.Maximum != nil && n > *s.Maximum {
		return fmt.Errorf("%w: %s must be <= %g, got %g", ErrInvalidValue, s.Name, *s.Maximum, n)
	}
	return nil
}

// Schema is the immutable set of layout and paint properties a layer type
// declares. Snapshots are only valid with the schema they were built from.
type Schema struct {
	name        string
	layout      []*PropertySpec
	paint       []*PropertySpec
	layoutIndex map[string]*PropertySpec
	paintIndex  map[string]*PropertySpec
}

// NewSchema builds a schema. Duplicate names or defaults that do not match
// their declared type are programming errors and panic.
func NewSchema(name string, layout, paint []PropertySpec) *Schema {
	s := &Schema{
		name:        name,
		layoutIndex: make(map[string]*PropertySpec, len(layout)),
		paintIndex:  make(map[string]*PropertySpec, len(paint)),
	}
	s.layout = indexSpecs(name, layout, s.layoutIndex)
	s.paint = indexSpecs(name, paint, s.paintIndex)
	return s
}

func indexSpecs(schema string, specs []PropertySpec, index map[string]*PropertySpec) []*PropertySpec {
	out := make([]*PropertySpec, 0, len(specs))
	for i := range specs {
		spec := specs[i]
		spec.Values = slices.Clone(spec.Values)
		if _, dup := index[spec.Name]; dup {
			panic(fmt.Sprintf("style: schema %s declares %q twice", schema, spec.Name))
		}
		def, err := coerce(&spec, spec.Default)
		if err != nil {
			panic(fmt.Sprintf("style: schema %s: default of %q: %v", schema, spec.Name, err))
		}
		spec.Default = def
		index[spec.Name] = &spec
		out = append(out, &spec)
	}
	return out
}

// Name returns the schema (layer type) name.
func (s *Schema) Name() string { return s.name }

// PaintProperty looks up a paint property declaration.
func (s *Schema) PaintProperty(name string) (*PropertySpec, bool) {
	spec, ok := s.paintIndex[name]
	return spec, ok
}

// LayoutProperty looks up a layout property declaration.
func (s *Schema) LayoutProperty(name string) (*PropertySpec, bool) {
	spec, ok := s.layoutIndex[name]
	return spec, ok
}

// PaintNames returns the declared paint property names in declaration order.
func (s *Schema) PaintNames() []string { return specNames(s.paint) }

// LayoutNames returns the declared layout property names in declaration order.
func (s *Schema) LayoutNames() []string { return specNames(s.layout) }

func specNames(specs []*PropertySpec) []string {
	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = spec.Name
	}
	return names
}

package style

import (
	"fmt"
	"math"
	"sort"
)

// functionType selects how a property function maps its input to stops.
type functionType int

const (
	fnExponential functionType = iota
	fnInterval
	fnCategorical
	fnIdentity
)

var functionTypes = map[string]functionType{
	"exponential": fnExponential,
	"interval":    fnInterval,
	"categorical": fnCategorical,
	"identity":    fnIdentity,
}

type stop struct {
	input  float64
	output any
}

// stopFunction is a property function: a curve over zoom (camera), over a
// feature attribute (source), or over both (composite).
type stopFunction struct {
	spec       *PropertySpec
	kind       Kind
	typ        functionType
	property   string
	base       float64
	def        any
	stops      []stop
	categories map[any]any
	levels     []zoomLevel
}

// zoomLevel is one zoom slice of a composite function.
type zoomLevel struct {
	zoom float64
	fn   *stopFunction
}

func parseFunction(spec *PropertySpec, m map[string]any) (*stopFunction, error) {
	fail := func(format string, args ...any) (*stopFunction, error) {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidValue, spec.Name, fmt.Sprintf(format, args...))
	}

	fn := &stopFunction{spec: spec, base: 1}
	for key := range m {
		switch key {
		case "type", "base", "property", "default", "stops":
		default:
			return fail("unknown function key %q", key)
		}
	}
	if p, ok := m["property"]; ok {
		name, ok := p.(string)
		if !ok || name == "" {
			return fail("function property must be a non-empty string")
		}
		fn.property = name
	}
	if b, ok := m["base"]; ok {
		base, ok := toNumber(b)
		if !ok || base <= 0 {
			return fail("function base must be a positive number")
		}
		fn.base = base
	}
	if d, ok := m["default"]; ok {
		c, err := coerce(spec, d)
		if err != nil {
			return nil, err
		}
		fn.def = c
	}

	var rawStops []any
	if s, ok := m["stops"]; ok {
		list, ok := s.([]any)
		if !ok || len(list) == 0 {
			return fail("function stops must be a non-empty array")
		}
		rawStops = list
	}

	composite := false
	if len(rawStops) > 0 {
		first, ok := rawStops[0].([]any)
		if !ok || len(first) != 2 {
			return fail("each stop must be a [input, output] pair")
		}
		_, composite = first[0].(map[string]any)
	}

	switch {
	case fn.property == "":
		fn.kind = KindCamera
	case composite:
		fn.kind = KindComposite
	default:
		fn.kind = KindSource
	}

	typ, err := resolveFunctionType(spec, m["type"], fn.property != "" && !composite, rawStops)
	if err != nil {
		return nil, err
	}
	fn.typ = typ

	switch {
	case typ == fnIdentity && fn.kind != KindSource:
		return fail("identity functions require a property and no zoom stops")
	case typ == fnIdentity:
		return fn, nil
	case len(rawStops) == 0:
		return fail("function requires stops")
	case typ == fnCategorical && fn.kind == KindCamera:
		return fail("categorical functions require a property")
	}

	if composite {
		if err := fn.parseCompositeStops(rawStops); err != nil {
			return nil, err
		}
		return fn, nil
	}
	if err := fn.parseStops(rawStops); err != nil {
		return nil, err
	}
	return fn, nil
}

func resolveFunctionType(spec *PropertySpec, raw any, featureInput bool, stops []any) (functionType, error) {
	if raw != nil {
		name, ok := raw.(string)
		typ, known := functionTypes[name]
		if !ok || !known {
			return 0, fmt.Errorf("%w: %s: unknown function type %v", ErrInvalidValue, spec.Name, raw)
		}
		if typ == fnExponential && !spec.Type.Interpolatable() {
			return 0, fmt.Errorf("%w: %s: exponential functions need an interpolatable type", ErrInvalidValue, spec.Name)
		}
		return typ, nil
	}
	if featureInput && len(stops) > 0 {
		if pair, ok := stops[0].([]any); ok && len(pair) == 2 {
			if _, numeric := toNumber(pair[0]); !numeric {
				return fnCategorical, nil
			}
		}
	}
	if spec.Type.Interpolatable() {
		return fnExponential, nil
	}
	return fnInterval, nil
}

func (f *stopFunction) parseStops(raw []any) error {
	if f.typ == fnCategorical && f.categories == nil {
		f.categories = make(map[any]any, len(raw))
	}
	for i, r := range raw {
		pair, ok := r.([]any)
		if !ok || len(pair) != 2 {
			return fmt.Errorf("%w: %s: stop %d must be a [input, output] pair", ErrInvalidValue, f.spec.Name, i)
		}
		out, err := coerce(f.spec, pair[1])
		if err != nil {
			return err
		}
		if f.typ == fnCategorical {
			key, ok := categoryKey(pair[0])
			if !ok {
				return fmt.Errorf("%w: %s: stop %d has an invalid category %v", ErrInvalidValue, f.spec.Name, i, pair[0])
			}
			f.categories[key] = out
			continue
		}
		in, ok := toNumber(pair[0])
		if !ok {
			return fmt.Errorf("%w: %s: stop %d input must be a number", ErrInvalidValue, f.spec.Name, i)
		}
		if n := len(f.stops); n > 0 && in < f.stops[n-1].input {
			return fmt.Errorf("%w: %s: stop inputs must be in ascending order", ErrInvalidValue, f.spec.Name)
		}
		f.stops = append(f.stops, stop{input: in, output: out})
	}
	return nil
}

// parseCompositeStops groups [{zoom, value}, output] stops into one inner
// source function per zoom level.
func (f *stopFunction) parseCompositeStops(raw []any) error {
	for i, r := range raw {
		pair, ok := r.([]any)
		if !ok || len(pair) != 2 {
			return fmt.Errorf("%w: %s: stop %d must be a [input, output] pair", ErrInvalidValue, f.spec.Name, i)
		}
		in, ok := pair[0].(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %s: composite stop %d input must be {zoom, value}", ErrInvalidValue, f.spec.Name, i)
		}
		zoom, ok := toNumber(in["zoom"])
		if !ok {
			return fmt.Errorf("%w: %s: composite stop %d zoom must be a number", ErrInvalidValue, f.spec.Name, i)
		}
		n := len(f.levels)
		if n > 0 && zoom < f.levels[n-1].zoom {
			return fmt.Errorf("%w: %s: composite zooms must be in ascending order", ErrInvalidValue, f.spec.Name)
		}
		if n == 0 || f.levels[n-1].zoom != zoom {
			f.levels = append(f.levels, zoomLevel{zoom: zoom, fn: &stopFunction{
				spec:     f.spec,
				kind:     KindSource,
				typ:      f.typ,
				property: f.property,
				base:     f.base,
				def:      f.def,
			}})
		}
		inner := f.levels[len(f.levels)-1].fn
		if err := inner.parseStops([]any{[]any{in["value"], pair[1]}}); err != nil {
			return err
		}
	}
	return nil
}

func (f *stopFunction) fallback() any {
	if f.def != nil {
		return f.def
	}
	return f.spec.Default
}

func (f *stopFunction) evaluateZoom(zoom float64) any {
	return f.evaluateInput(zoom)
}

func (f *stopFunction) evaluateFeature(feature Feature) any {
	in, ok := lookup(feature, f.property)
	if !ok {
		return f.fallback()
	}
	return f.evaluateInput(in)
}

func (f *stopFunction) evaluateInput(in any) any {
	switch f.typ {
	case fnIdentity:
		out, err := coerce(f.spec, in)
		if err != nil {
			return f.fallback()
		}
		return out
	case fnCategorical:
		if key, ok := categoryKey(in); ok {
			if out, ok := f.categories[key]; ok {
				return out
			}
		}
		return f.fallback()
	}

	x, ok := toNumber(in)
	if !ok {
		return f.fallback()
	}
	n := len(f.stops)
	if n == 1 || x <= f.stops[0].input {
		return f.stops[0].output
	}
	if x >= f.stops[n-1].input {
		return f.stops[n-1].output
	}
	i := sort.Search(n, func(i int) bool { return f.stops[i].input > x }) - 1
	if f.typ == fnInterval {
		return f.stops[i].output
	}
	t := interpolationFactor(x, f.base, f.stops[i].input, f.stops[i+1].input)
	return interpolate(f.spec.Type, f.stops[i].output, f.stops[i+1].output, t)
}

func (f *stopFunction) evaluateComposite(zoom float64, feature Feature) any {
	levels := f.levels
	n := len(levels)
	if n == 1 || zoom <= levels[0].zoom {
		return levels[0].fn.evaluateFeature(feature)
	}
	if zoom >= levels[n-1].zoom {
		return levels[n-1].fn.evaluateFeature(feature)
	}
	i := sort.Search(n, func(i int) bool { return levels[i].zoom > zoom }) - 1
	lower := levels[i].fn.evaluateFeature(feature)
	if !f.spec.Type.Interpolatable() || f.typ == fnInterval {
		return lower
	}
	upper := levels[i+1].fn.evaluateFeature(feature)
	t := interpolationFactor(zoom, f.base, levels[i].zoom, levels[i+1].zoom)
	return interpolate(f.spec.Type, lower, upper, t)
}

// interpolationFactor returns how far input lies between lower and upper,
// in [0, 1], with exponential easing when base != 1.
func interpolationFactor(input, base, lower, upper float64) float64 {
	diff := upper - lower
	progress := input - lower
	switch {
	case diff == 0:
		return 0
	case base == 1:
		return progress / diff
	default:
		return (math.Pow(base, progress) - 1) / (math.Pow(base, diff) - 1)
	}
}

// categoryKey normalizes a categorical input so that 1 and 1.0 match.
func categoryKey(v any) (any, bool) {
	if n, ok := toNumber(v); ok {
		return n, true
	}
	switch k := v.(type) {
	case string, bool:
		return k, true
	}
	return nil, false
}

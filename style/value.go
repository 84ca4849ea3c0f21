package style

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"github.com/gogpu/mapstyle"
)

// PropertyValue is a raw style value checked against its declaration. It is
// immutable once parsed; the cascade holds one per property the document
// sets.
type PropertyValue struct {
	spec     *PropertySpec
	kind     Kind
	raw      any
	constant any
	fn       *stopFunction
	expr     Expression
}

// ParseValue validates raw against spec. raw may be:
//   - nil, meaning the property default;
//   - a literal of the property's type (numbers, color strings, enum
//     strings, [x, y] offsets, booleans);
//   - a property function object with "stops" (and optionally "type",
//     "base", "property", "default");
//   - an Expression.
//
// Values are rejected here, never at evaluation time.
func ParseValue(spec *PropertySpec, raw any) (*PropertyValue, error) {
	v := &PropertyValue{spec: spec, raw: raw}

	switch r := raw.(type) {
	case nil:
		v.constant = spec.Default
	case Expression:
		v.kind = expressionKind(r)
		if err := checkKind(spec, v.kind); err != nil {
			return nil, err
		}
		v.expr = r
	case map[string]any:
		fn, err := parseFunction(spec, r)
		if err != nil {
			return nil, err
		}
		if err := checkKind(spec, fn.kind); err != nil {
			return nil, err
		}
		v.kind = fn.kind
		v.fn = fn
	default:
		c, err := coerce(spec, raw)
		if err != nil {
			return nil, err
		}
		v.constant = c
	}
	return v, nil
}

// Spec returns the property declaration.
func (v *PropertyValue) Spec() *PropertySpec { return v.spec }

// Kind reports what the value depends on.
func (v *PropertyValue) Kind() Kind { return v.kind }

// Raw returns the value as it appeared in the style document.
func (v *PropertyValue) Raw() any { return v.raw }

// PossiblyEvaluate folds zoom into the value exactly as Cascade.Resolve does
// for the snapshot entry.
func (v *PropertyValue) PossiblyEvaluate(zoom float64) PossiblyEvaluated {
	return v.possiblyEvaluate(zoom)
}

// possiblyEvaluate folds in the zoom. Camera-only values become constants;
// feature-dependent values become deferred evaluators that close over zoom.
func (v *PropertyValue) possiblyEvaluate(zoom float64) PossiblyEvaluated {
	switch {
	case v.fn != nil:
		fn := v.fn
		switch fn.kind {
		case KindCamera:
			return Constant(fn.evaluateZoom(zoom))
		case KindSource:
			return Deferred(func(f Feature, _ FeatureState) any {
				return fn.evaluateFeature(f)
			})
		default:
			return Deferred(func(f Feature, _ FeatureState) any {
				return fn.evaluateComposite(zoom, f)
			})
		}
	case v.expr != nil:
		if !v.expr.FeatureDependent() {
			return Constant(v.evaluateExpression(EvaluationContext{Zoom: zoom}))
		}
		return Deferred(func(f Feature, s FeatureState) any {
			return v.evaluateExpression(EvaluationContext{Zoom: zoom, Feature: f, State: s})
		})
	default:
		return Constant(v.constant)
	}
}

func (v *PropertyValue) evaluateExpression(ctx EvaluationContext) any {
	out, err := v.expr.Evaluate(ctx)
	if err == nil {
		out, err = coerce(v.spec, out)
	}
	if err != nil {
		mapstyle.Logger().Debug("style: expression fell back to default",
			"property", v.spec.Name, "error", err)
		return v.spec.Default
	}
	return out
}

func checkKind(spec *PropertySpec, kind Kind) error {
	if (kind == KindCamera || kind == KindComposite) && !spec.ZoomDependent {
		return fmt.Errorf("%w: %s does not support zoom-dependent values", ErrInvalidValue, spec.Name)
	}
	if kind.FeatureDependent() && !spec.DataDriven {
		return fmt.Errorf("%w: %s does not support data-driven values", ErrInvalidValue, spec.Name)
	}
	return nil
}

// coerce converts a literal to the Go representation of spec.Type.
func coerce(spec *PropertySpec, raw any) (any, error) {
	switch spec.Type {
	case TypeNumber:
		if n, ok := toNumber(raw); ok {
			if err := spec.checkRange(n); err != nil {
				return nil, err
			}
			return n, nil
		}
	case TypeColor:
		switch c := raw.(type) {
		case mapstyle.Color:
			return c, nil
		case string:
			if col, err := mapstyle.ParseColor(c); err == nil {
				return col, nil
			}
		}
	case TypeEnum:
		if s, ok := raw.(string); ok && slices.Contains(spec.Values, s) {
			return s, nil
		}
	case TypeOffset:
		if o, ok := toOffset(raw); ok {
			return o, nil
		}
	case TypeBool:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %s expects %s, got %v (%T)", ErrInvalidValue, spec.Name, spec.Type, raw, raw)
}

// toNumber accepts any finite Go or JSON number.
func toNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toOffset(v any) (mapstyle.Vec2, bool) {
	switch o := v.(type) {
	case mapstyle.Vec2:
		return o, true
	case [2]float64:
		return mapstyle.V2(o[0], o[1]), true
	case []float64:
		if len(o) == 2 {
			return mapstyle.V2(o[0], o[1]), true
		}
	case []any:
		if len(o) == 2 {
			x, okX := toNumber(o[0])
			y, okY := toNumber(o[1])
			if okX && okY {
				return mapstyle.V2(x, y), true
			}
		}
	}
	return mapstyle.Vec2{}, false
}

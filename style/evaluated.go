package style

import (
	"fmt"

	"github.com/gogpu/mapstyle"
)

// Evaluator resolves a property for one feature. It must not modify its
// arguments and must be deterministic for fixed inputs.
type Evaluator func(feature Feature, state FeatureState) any

// PossiblyEvaluated is a property value resolved for one zoom and time.
// It is either a constant or a deferred per-feature evaluator, never both.
// The zero value is the constant nil.
type PossiblyEvaluated struct {
	value    any
	eval     Evaluator
	deferred bool
}

// Constant wraps a fully resolved value.
func Constant(v any) PossiblyEvaluated {
	return PossiblyEvaluated{value: v}
}

// Deferred wraps a per-feature evaluator. A nil evaluator panics.
func Deferred(fn Evaluator) PossiblyEvaluated {
	if fn == nil {
		panic("style: Deferred with nil evaluator")
	}
	return PossiblyEvaluated{eval: fn, deferred: true}
}

// IsConstant reports whether the value is independent of the feature.
func (p PossiblyEvaluated) IsConstant() bool { return !p.deferred }

// ConstantValue returns the constant and true, or nil and false for a
// deferred value.
func (p PossiblyEvaluated) ConstantValue() (any, bool) {
	if p.deferred {
		return nil, false
	}
	return p.value, true
}

// Evaluate returns the value for a feature. Constants ignore both arguments.
func (p PossiblyEvaluated) Evaluate(feature Feature, state FeatureState) any {
	if !p.deferred {
		return p.value
	}
	return p.eval(feature, state)
}

// Number evaluates a number property.
func (p PossiblyEvaluated) Number(feature Feature, state FeatureState) float64 {
	return typed[float64](p, "Number", feature, state)
}

// Color evaluates a color property.
func (p PossiblyEvaluated) Color(feature Feature, state FeatureState) mapstyle.Color {
	return typed[mapstyle.Color](p, "Color", feature, state)
}

// Enum evaluates an enum property.
func (p PossiblyEvaluated) Enum(feature Feature, state FeatureState) string {
	return typed[string](p, "Enum", feature, state)
}

// Offset evaluates an offset property.
func (p PossiblyEvaluated) Offset(feature Feature, state FeatureState) mapstyle.Vec2 {
	return typed[mapstyle.Vec2](p, "Offset", feature, state)
}

// Bool evaluates a boolean property.
func (p PossiblyEvaluated) Bool(feature Feature, state FeatureState) bool {
	return typed[bool](p, "Bool", feature, state)
}

func typed[T any](p PossiblyEvaluated, op string, feature Feature, state FeatureState) T {
	v := p.Evaluate(feature, state)
	out, ok := v.(T)
	if !ok {
		violate(op, "", fmt.Errorf("%w: got %T", ErrTypeMismatch, v))
	}
	return out
}

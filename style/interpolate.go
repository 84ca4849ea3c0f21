package style

import "github.com/gogpu/mapstyle"

// interpolate blends a towards b by t in [0, 1]. Types that cannot be
// blended step from a to b once t reaches 1.
func interpolate(typ Type, a, b any, t float64) any {
	switch typ {
	case TypeNumber:
		x, y := a.(float64), b.(float64)
		return x + (y-x)*t
	case TypeColor:
		return a.(mapstyle.Color).Lerp(b.(mapstyle.Color), t)
	case TypeOffset:
		return a.(mapstyle.Vec2).Lerp(b.(mapstyle.Vec2), t)
	default:
		if t < 1 {
			return a
		}
		return b
	}
}

// interpolateEvaluated blends two possibly-evaluated values. Two constants
// blend to a constant; otherwise the blend is deferred to each feature.
func interpolateEvaluated(typ Type, from, to PossiblyEvaluated, t float64) PossiblyEvaluated {
	a, aConst := from.ConstantValue()
	b, bConst := to.ConstantValue()
	if aConst && bConst {
		return Constant(interpolate(typ, a, b, t))
	}
	return Deferred(func(f Feature, s FeatureState) any {
		return interpolate(typ, from.Evaluate(f, s), to.Evaluate(f, s), t)
	})
}

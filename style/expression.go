package style

// EvaluationContext carries the inputs an Expression may depend on.
type EvaluationContext struct {
	Zoom    float64
	Feature Feature
	State   FeatureState
}

// Expression is the consuming contract of the style expression language.
// Its grammar and parser live outside this package; the cascade only needs
// to evaluate it and to know what it depends on.
//
// Evaluate must be pure: it must not modify the feature or its state and
// must return the same result for the same inputs. A returned error makes
// the evaluator fall back to the property default.
type Expression interface {
	Evaluate(ctx EvaluationContext) (any, error)
	ZoomDependent() bool
	FeatureDependent() bool
}

type funcExpression struct {
	fn      func(EvaluationContext) (any, error)
	zoom    bool
	feature bool
}

func (e funcExpression) Evaluate(ctx EvaluationContext) (any, error) { return e.fn(ctx) }
func (e funcExpression) ZoomDependent() bool                         { return e.zoom }
func (e funcExpression) FeatureDependent() bool                      { return e.feature }

// NewExpression adapts a Go function to the Expression contract.
// Expressions that read feature state must report featureDependent.
func NewExpression(fn func(EvaluationContext) (any, error), zoomDependent, featureDependent bool) Expression {
	return funcExpression{fn: fn, zoom: zoomDependent, feature: featureDependent}
}

func expressionKind(e Expression) Kind {
	switch {
	case e.ZoomDependent() && e.FeatureDependent():
		return KindComposite
	case e.FeatureDependent():
		return KindSource
	case e.ZoomDependent():
		return KindCamera
	default:
		return KindConstant
	}
}

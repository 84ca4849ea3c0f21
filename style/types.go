package style

// Type is the value type of a style property.
type Type int

const (
	// TypeNumber values are float64.
	TypeNumber Type = iota
	// TypeColor values are mapstyle.Color.
	TypeColor
	// TypeEnum values are strings drawn from PropertySpec.Values.
	TypeEnum
	// TypeOffset values are mapstyle.Vec2, written as [x, y] in documents.
	TypeOffset
	// TypeBool values are bool.
	TypeBool
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeColor:
		return "color"
	case TypeEnum:
		return "enum"
	case TypeOffset:
		return "offset"
	case TypeBool:
		return "boolean"
	default:
		return "unknown"
	}
}

// Interpolatable reports whether values of this type can be blended, which
// decides whether they transition smoothly and whether exponential functions
// apply to them.
func (t Type) Interpolatable() bool {
	return t == TypeNumber || t == TypeColor || t == TypeOffset
}

// Kind classifies what a property value depends on.
type Kind int

const (
	// KindConstant values depend on nothing.
	KindConstant Kind = iota
	// KindCamera values depend on zoom only.
	KindCamera
	// KindSource values depend on feature data only.
	KindSource
	// KindComposite values depend on both zoom and feature data.
	KindComposite
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindConstant:
		return "constant"
	case KindCamera:
		return "camera"
	case KindSource:
		return "source"
	case KindComposite:
		return "composite"
	default:
		return "unknown"
	}
}

// FeatureDependent reports whether values of this kind need a feature to
// evaluate.
func (k Kind) FeatureDependent() bool {
	return k == KindSource || k == KindComposite
}

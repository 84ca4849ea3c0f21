package query

import "fmt"

// Alignment selects the frame a layer property is expressed in. It is used
// for translate anchors, pitch alignment and pitch scale.
type Alignment string

const (
	// Map aligns with the map plane (tile space).
	Map Alignment = "map"
	// Viewport aligns with the screen.
	Viewport Alignment = "viewport"
)

// ParseAlignment converts an enum property value to an Alignment.
func ParseAlignment(s string) (Alignment, error) {
	switch a := Alignment(s); a {
	case Map, Viewport:
		return a, nil
	default:
		return "", fmt.Errorf("query: unknown alignment %q", s)
	}
}

// AlignmentOf is like ParseAlignment but treats unknown values as Map.
// Enum properties are validated when parsed, so only a schema mismatch can
// produce an unknown value here.
func AlignmentOf(s string) Alignment {
	if s == string(Viewport) {
		return Viewport
	}
	return Map
}

package style

import (
	"testing"

	"github.com/gogpu/mapstyle"
	"github.com/stretchr/testify/require"
)

func testSchema() *Schema {
	return NewSchema("test",
		[]PropertySpec{
			{Name: "sort-key", Type: TypeNumber, Default: 0.0, ZoomDependent: true, DataDriven: true},
			{Name: "visibility", Type: TypeEnum, Default: "visible", Values: []string{"visible", "none"}},
		},
		[]PropertySpec{
			{Name: "radius", Type: TypeNumber, Default: 5.0, Transition: true, ZoomDependent: true, DataDriven: true, Minimum: Bound(0)},
			{Name: "color", Type: TypeColor, Default: mapstyle.Black, Transition: true, ZoomDependent: true, DataDriven: true},
			{Name: "translate", Type: TypeOffset, Default: mapstyle.Vec2{}, Transition: true, ZoomDependent: true},
			{Name: "anchor", Type: TypeEnum, Default: "map", Values: []string{"map", "viewport"}},
			{Name: "antialias", Type: TypeBool, Default: true},
		},
	)
}

func mustParse(t *testing.T, name string, raw any) *PropertyValue {
	t.Helper()
	s := testSchema()
	spec, ok := s.PaintProperty(name)
	if !ok {
		spec, ok = s.LayoutProperty(name)
	}
	require.True(t, ok, "no property %q", name)
	v, err := ParseValue(spec, raw)
	require.NoError(t, err)
	return v
}

// requireViolation asserts that fn panics with a *ContractViolation that
// wraps want.
func requireViolation(t *testing.T, want error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected a panic")
		cv, ok := r.(*ContractViolation)
		require.True(t, ok, "panic value %T is not *ContractViolation", r)
		require.ErrorIs(t, cv, want)
	}()
	fn()
}

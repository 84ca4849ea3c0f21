package style

import (
	"testing"

	"github.com/gogpu/mapstyle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValueLiterals(t *testing.T) {
	tests := []struct {
		name     string
		property string
		raw      any
		want     any
	}{
		{"nil is default", "radius", nil, 5.0},
		{"float", "radius", 12.5, 12.5},
		{"int from yaml", "radius", 7, 7.0},
		{"hex color", "color", "#ff0000", mapstyle.RGB(1, 0, 0)},
		{"offset array", "translate", []any{1, -2.5}, mapstyle.V2(1, -2.5)},
		{"enum", "anchor", "viewport", "viewport"},
		{"bool", "antialias", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := mustParse(t, tt.property, tt.raw)
			assert.Equal(t, KindConstant, v.Kind())
			got, ok := v.possiblyEvaluate(10).ConstantValue()
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseValueRejects(t *testing.T) {
	s := testSchema()
	tests := []struct {
		name     string
		property string
		raw      any
	}{
		{"string for number", "radius", "big"},
		{"bad color", "color", "#zzz"},
		{"enum outside values", "anchor", "screen"},
		{"offset of three", "translate", []any{1, 2, 3}},
		{"number for bool", "antialias", 1},
		{"camera function on non-zoomable", "anchor", map[string]any{"stops": []any{[]any{0, "map"}}}},
		{"source function on non-data-driven", "translate", map[string]any{"property": "x", "stops": []any{[]any{0, []any{0, 0}}}}},
		{"unknown function key", "radius", map[string]any{"stops": []any{[]any{0, 1}}, "colorSpace": "lab"}},
		{"empty stops", "radius", map[string]any{"stops": []any{}}},
		{"descending stops", "radius", map[string]any{"stops": []any{[]any{10, 1}, []any{5, 2}}}},
		{"exponential enum", "anchor", map[string]any{"type": "exponential", "stops": []any{[]any{0, "map"}}}},
		{"identity without property", "radius", map[string]any{"type": "identity"}},
		{"categorical on zoom", "radius", map[string]any{"type": "categorical", "stops": []any{[]any{1, 1}}}},
		{"bad stop output", "radius", map[string]any{"stops": []any{[]any{0, "x"}}}},
		{"below minimum", "radius", -1},
		{"stop output below minimum", "radius", map[string]any{"stops": []any{[]any{0, 1}, []any{10, -4}}}},
		{"function default below minimum", "radius", map[string]any{"property": "r", "type": "identity", "default": -2}},
		{"feature expression on non-data-driven", "anchor", NewExpression(func(EvaluationContext) (any, error) { return "map", nil }, false, true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, ok := s.PaintProperty(tt.property)
			require.True(t, ok)
			_, err := ParseValue(spec, tt.raw)
			assert.ErrorIs(t, err, ErrInvalidValue)
		})
	}
}

func TestNumberRange(t *testing.T) {
	spec := &PropertySpec{
		Name: "opacity", Type: TypeNumber, Default: 1.0, DataDriven: true,
		Minimum: Bound(0), Maximum: Bound(1),
	}

	for _, ok := range []float64{0, 0.5, 1} {
		_, err := ParseValue(spec, ok)
		assert.NoError(t, err, "%g", ok)
	}
	for _, bad := range []float64{-0.1, 1.5, 7} {
		_, err := ParseValue(spec, bad)
		assert.ErrorIs(t, err, ErrInvalidValue, "%g", bad)
	}

	identity, err := ParseValue(spec, map[string]any{"type": "identity", "property": "o"})
	require.NoError(t, err)
	pe := identity.possiblyEvaluate(0)
	assert.Equal(t, 0.25, pe.Number(Attributes{"o": 0.25}, nil))
	assert.Equal(t, 1.0, pe.Number(Attributes{"o": 7}, nil), "out of range data falls back to the default")

	expr, err := ParseValue(spec, NewExpression(func(EvaluationContext) (any, error) { return -3.0, nil }, false, true))
	require.NoError(t, err)
	assert.Equal(t, 1.0, expr.possiblyEvaluate(0).Number(nil, nil), "out of range result falls back to the default")
}

func TestExpressionKinds(t *testing.T) {
	constant := func(EvaluationContext) (any, error) { return 3.0, nil }
	tests := []struct {
		zoom, feature bool
		want          Kind
	}{
		{false, false, KindConstant},
		{true, false, KindCamera},
		{false, true, KindSource},
		{true, true, KindComposite},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			v := mustParse(t, "radius", NewExpression(constant, tt.zoom, tt.feature))
			assert.Equal(t, tt.want, v.Kind())
			assert.Equal(t, tt.want.FeatureDependent(), !v.possiblyEvaluate(1).IsConstant())
		})
	}
}

func TestExpressionErrorFallsBackToDefault(t *testing.T) {
	failing := NewExpression(func(ctx EvaluationContext) (any, error) {
		v, ok := lookup(ctx.Feature, "size")
		if !ok {
			return nil, assert.AnError
		}
		return v, nil
	}, false, true)
	pe := mustParse(t, "radius", failing).possiblyEvaluate(3)

	assert.Equal(t, 9.0, pe.Number(Attributes{"size": 9}, nil))
	assert.Equal(t, 5.0, pe.Number(Attributes{}, nil), "error must fall back to the default")
	assert.Equal(t, 5.0, pe.Number(Attributes{"size": "nine"}, nil), "wrong type must fall back to the default")
}

func TestExpressionReadsFeatureState(t *testing.T) {
	hover := NewExpression(func(ctx EvaluationContext) (any, error) {
		if ctx.State["hover"] == true {
			return 20.0, nil
		}
		return 10.0, nil
	}, false, true)
	pe := mustParse(t, "radius", hover).possiblyEvaluate(0)

	assert.Equal(t, 10.0, pe.Number(nil, nil))
	assert.Equal(t, 20.0, pe.Number(nil, FeatureState{"hover": true}))
}

package qevolve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExprArithmetic(t *testing.T) {
	tt := Symbol("t")

	assert.True(t, Num(0).Equal(Expr{}))
	assert.True(t, tt.Add(tt).Equal(tt.Scale(2)))
	assert.True(t, tt.Sub(tt).Equal(Num(0)))
	assert.True(t, tt.Mul(Num(3)).Div(3).Equal(tt))
	assert.True(t, Symbol("b").Mul(Symbol("a")).Equal(Symbol("a").Mul(Symbol("b"))))

	v, ok := Num(1.5).Add(Num(2)).Mul(Num(2)).Value()
	require.True(t, ok)
	assert.Equal(t, 7.0, v)

	_, ok = tt.Add(Num(1)).Value()
	assert.False(t, ok)
}

func TestExprDivMatchesFloatDivision(t *testing.T) {
	for _, x := range []float64{0.1, 0.7, 1.3, math.Pi, -2.9} {
		for _, d := range []float64{3, 7, 10} {
			v, ok := Num(x).Div(d).Value()
			require.True(t, ok)
			assert.Equal(t, x/d, v, "%g/%g", x, d)
		}
	}
}

func TestExprSubs(t *testing.T) {
	e := Symbol("a").Mul(Symbol("t")).Scale(3).Add(Num(1))

	partial := e.Subs(map[string]float64{"a": 2})
	assert.True(t, partial.Equal(Symbol("t").Scale(6).Add(Num(1))), "got %s", partial)
	assert.Equal(t, []string{"t"}, partial.Symbols())

	full, ok := e.Subs(map[string]float64{"a": 2, "t": 0.5}).Value()
	require.True(t, ok)
	assert.InDelta(t, 4.0, full, 1e-15)

	// Unrelated bindings leave the expression alone.
	assert.True(t, e.Subs(map[string]float64{"x": 9}).Equal(e))
}

func TestExprString(t *testing.T) {
	tests := []struct {
		expr Expr
		want string
	}{
		{Expr{}, "0"},
		{Num(-0.25), "-0.25"},
		{Symbol("t"), "t"},
		{Symbol("t").Scale(-1), "-t"},
		{Num(0.5).Add(Symbol("t").Scale(-2)), "0.5 - 2*t"},
		{Symbol("a").Mul(Symbol("a")), "a*a"},
		{Symbol("b").Add(Symbol("a").Scale(1.5)), "1.5*a + b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.expr.String())
	}
}

func TestParseExpr(t *testing.T) {
	tests := []struct {
		input string
		want  Expr
	}{
		{"0.5", Num(0.5)},
		{"-pi/2", Num(-math.Pi / 2)},
		{"t", Symbol("t")},
		{"-t", Symbol("t").Scale(-1)},
		{"0.5*theta", Symbol("theta").Scale(0.5)},
		{" pi/4 * t ", Symbol("t").Scale(math.Pi / 4)},
	}
	for _, tt := range tests {
		got, err := ParseExpr(tt.input)
		require.NoError(t, err, tt.input)
		assert.True(t, got.Equal(tt.want), "ParseExpr(%q) = %s, want %s", tt.input, got, tt.want)
	}

	for _, bad := range []string{"", "1x", "2*", "*t", "a b", "abc*t", "2*pi*"} {
		_, err := ParseExpr(bad)
		assert.ErrorIs(t, err, ErrParse, "input %q", bad)
	}
}

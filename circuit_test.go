package qevolve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcatIdentityAndAssociativity(t *testing.T) {
	a := NewCircuit(H(0), CNOT(0, 1))
	b := NewCircuit(RZ(Num(0.3), 1))
	c := NewCircuit(RX(Symbol("t"), 2))
	empty := Circuit{}

	assert.True(t, Concat().Equal(empty))
	assert.True(t, empty.Concat(a).Equal(a))
	assert.True(t, a.Concat(empty).Equal(a))
	assert.True(t, a.Concat(b).Concat(c).Equal(a.Concat(b.Concat(c))))
	assert.True(t, Concat(a, b, c).Equal(a.Concat(b, c)))
	assert.Equal(t, 4, Concat(a, b, c).Len())
}

func TestCircuitImmutability(t *testing.T) {
	base := NewCircuit(H(0))
	grown := base.Append(H(1))
	joined := base.Concat(NewCircuit(H(2)))

	grown.Gates[0].Target = 5
	joined.Gates[0].Target = 6

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 0, base.Gates[0].Target)

	gates := []Gate{H(0)}
	c := NewCircuit(gates...)
	gates[0] = H(3)
	assert.Equal(t, 0, c.Gates[0].Target)
}

func TestCircuitQueries(t *testing.T) {
	c := NewCircuit(H(0), CNOT(0, 3), RZ(Num(1), 3), H(1))

	assert.Equal(t, 4, c.NumQubits())
	assert.Equal(t, []int{1, 2}, c.GatesOnQubit(3))
	assert.Equal(t, []int{0, 1}, c.GatesOnQubit(0))
	assert.Nil(t, c.GatesOnQubit(2))
	assert.Equal(t, map[string]int{"H": 2, "CX": 1, "RZ": 1}, c.CountByType())
	assert.Equal(t, []int{0, 3}, CNOT(0, 3).Qubits())
	assert.Equal(t, 0, Circuit{}.NumQubits())
}

func TestCircuitBind(t *testing.T) {
	c := NewCircuit(RZ(Symbol("a").Mul(Symbol("t")), 0), RX(Symbol("b"), 1), H(0))
	assert.Equal(t, []string{"a", "b", "t"}, c.Symbols())

	_, err := c.Gates[0].NumericParams()
	require.ErrorIs(t, err, ErrUnboundParameter)

	partial := c.Bind(map[string]float64{"a": 2, "t": 0.5})
	assert.Equal(t, []string{"b"}, partial.Symbols())
	params, err := partial.Gates[0].NumericParams()
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, params)

	// The source circuit keeps its symbols.
	assert.Equal(t, []string{"a", "b", "t"}, c.Symbols())

	bound := partial.Bind(map[string]float64{"b": 0.1})
	assert.Empty(t, bound.Symbols())
	params, err = bound.Gates[2].NumericParams()
	require.NoError(t, err)
	assert.Empty(t, params)
}

func TestGateEqual(t *testing.T) {
	assert.True(t, RZ(Num(0.5), 1).Equal(RZ(Num(0.5), 1)))
	assert.False(t, RZ(Num(0.5), 1).Equal(RZ(Num(0.5), 0)))
	assert.False(t, RZ(Num(0.5), 1).Equal(RX(Num(0.5), 1)))
	assert.False(t, RZ(Num(0.5), 1).Equal(RZ(Symbol("t"), 1)))
	assert.False(t, CNOT(0, 1).Equal(CNOT(1, 0)))
}

func TestGateString(t *testing.T) {
	assert.Equal(t, "H q[2]", H(2).String())
	assert.Equal(t, "RX(-pi/2) q[0]", RX(Num(-math.Pi/2), 0).String())
	assert.Equal(t, "RZ(0.5*t) q[1]", RZ(Symbol("t").Scale(0.5), 1).String())
	assert.Equal(t, "CX q[0], q[3]", CNOT(0, 3).String())
}

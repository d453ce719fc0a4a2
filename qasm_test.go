package qevolve

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvolutionQASMRoundTrip(t *testing.T) {
	h, err := ParseQubitOperator("0.5 [Z0 X1] + 0.3 [Y0]")
	require.NoError(t, err)
	c, err := TimeEvolution(h, Num(0.7), MethodTrotter, 2)
	require.NoError(t, err)

	qasm := c.ToQASM()
	assert.True(t, strings.HasPrefix(qasm, "OPENQASM 2.0;\ninclude \"qelib1.inc\";\n\nqreg q[2];\n"))
	assert.Contains(t, qasm, "rx(pi/2) q[0];")
	assert.Contains(t, qasm, "rx(-pi/2) q[0];")
	assert.Contains(t, qasm, "cx q[0], q[1];")

	back, err := ParseQASM(qasm)
	require.NoError(t, err)
	require.Equal(t, c.Len(), back.Len())
	for i, want := range c.Gates {
		got := back.Gates[i]
		assert.Equal(t, want.Type, got.Type, "gate %d", i)
		assert.Equal(t, want.Qubits(), got.Qubits(), "gate %d", i)
		require.Len(t, got.Params, len(want.Params), "gate %d", i)
		for j := range want.Params {
			wv, _ := want.Params[j].Value()
			gv, ok := got.Params[j].Value()
			require.True(t, ok)
			assert.InDelta(t, wv, gv, 1e-12, "gate %d param %d", i, j)
		}
	}
}

func TestPiParamQASMRoundTrip(t *testing.T) {
	c := NewCircuit(
		RX(Num(math.Pi/2), 0),
		Gate{Type: "RY", Target: 1, Control: -1, Params: []Expr{Num(3 * math.Pi / 4)}},
		RZ(Num(-math.Pi), 0),
	)

	qasm := c.ToQASM()
	assert.Contains(t, qasm, "rx(pi/2) q[0];")
	assert.Contains(t, qasm, "ry(3*pi/4) q[1];")
	assert.Contains(t, qasm, "rz(-pi) q[0];")

	back, err := ParseQASM(qasm)
	require.NoError(t, err)
	require.Equal(t, 3, back.Len())
	want := []float64{math.Pi / 2, 3 * math.Pi / 4, -math.Pi}
	for i, w := range want {
		v, ok := back.Gates[i].Params[0].Value()
		require.True(t, ok)
		assert.InDelta(t, w, v, 1e-10)
	}
}

func TestSymbolicQASM(t *testing.T) {
	h := NewQubitOperator(term(0.5, PauliFactor{0, Z}))
	c, err := TimeEvolution(h, Symbol("t"), MethodTrotter, 1)
	require.NoError(t, err)

	qasm := c.ToQASM()
	assert.Contains(t, qasm, "rz(t) q[0];")

	_, err = ParseQASM(qasm)
	require.ErrorIs(t, err, ErrParse)
	assert.Contains(t, err.Error(), "line 6")
}

func TestParseQASMSkipsDeclarations(t *testing.T) {
	qasm := `OPENQASM 2.0;
include "qelib1.inc";
// prepare
qreg q[3];
creg c[3];

h q[1];
barrier q[0], q[1];
cx q[1], q[2];
swap q[0], q[2];`

	c, err := ParseQASM(qasm)
	require.NoError(t, err)
	want := NewCircuit(H(1), CNOT(1, 2), Gate{Type: "SWAP", Target: 2, Control: 0})
	requireGates(t, want, c)
}

func TestParseQASMErrors(t *testing.T) {
	tests := []struct {
		name string
		qasm string
	}{
		{"unknown gate", "qreg q[2];\nu3 q[0];"},
		{"unknown rotation", "qreg q[2];\ncrx(pi) q[0];"},
		{"unknown two-qubit gate", "qreg q[2];\nch q[0], q[1];"},
		{"outside register", "qreg q[1];\ncx q[0], q[1];"},
		{"measure", "qreg q[1];\nmeasure q[0] -> c[0];"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQASM(tt.qasm)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

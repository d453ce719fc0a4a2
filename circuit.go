package qevolve

import (
	"fmt"
	"slices"
	"strings"
)

// Gate represents a quantum gate bound to qubit indices.
type Gate struct {
	Type    string
	Target  int
	Control int    // -1 if not a controlled gate
	Params  []Expr // rotation angles for parameterized gates
}

// H returns a Hadamard gate on qubit q.
func H(q int) Gate {
	return Gate{Type: "H", Target: q, Control: -1}
}

// RX returns an X-axis rotation exp(-i*theta*X/2) on qubit q.
func RX(theta Expr, q int) Gate {
	return Gate{Type: "RX", Target: q, Control: -1, Params: []Expr{theta}}
}

// RZ returns a Z-axis rotation exp(-i*theta*Z/2) on qubit q.
func RZ(theta Expr, q int) Gate {
	return Gate{Type: "RZ", Target: q, Control: -1, Params: []Expr{theta}}
}

// CNOT returns a controlled-NOT gate.
func CNOT(control, target int) Gate {
	return Gate{Type: "CX", Target: target, Control: control}
}

// Qubits returns the qubits the gate acts on, control first.
func (g Gate) Qubits() []int {
	if g.Control >= 0 {
		return []int{g.Control, g.Target}
	}
	return []int{g.Target}
}

// references reports whether the gate acts on the given qubit.
func (g Gate) references(qubit int) bool {
	return g.Target == qubit || g.Control == qubit
}

// Equal reports whether two gates have the same type, qubits and parameters.
func (g Gate) Equal(o Gate) bool {
	return g.Type == o.Type && g.Target == o.Target && g.Control == o.Control &&
		slices.EqualFunc(g.Params, o.Params, Expr.Equal)
}

// Bind substitutes values for symbols in the gate's parameters.
func (g Gate) Bind(bindings map[string]float64) Gate {
	if len(g.Params) == 0 {
		return g
	}
	params := make([]Expr, len(g.Params))
	for i, p := range g.Params {
		params[i] = p.Subs(bindings)
	}
	g.Params = params
	return g
}

// NumericParams returns the gate parameters as numbers, failing on symbolic ones.
func (g Gate) NumericParams() ([]float64, error) {
	vals := make([]float64, len(g.Params))
	for i, p := range g.Params {
		v, ok := p.Value()
		if !ok {
			return nil, fmt.Errorf("%w: %s(%s) on q[%d]", ErrUnboundParameter, g.Type, p, g.Target)
		}
		vals[i] = v
	}
	return vals, nil
}

// String renders the gate in QASM-like form, e.g. "RZ(pi/2) q[1]" or "CX q[0], q[1]".
func (g Gate) String() string {
	var sb strings.Builder
	sb.WriteString(g.Type)
	if len(g.Params) > 0 {
		angles := make([]string, len(g.Params))
		for i, p := range g.Params {
			angles[i] = formatAngle(p)
		}
		fmt.Fprintf(&sb, "(%s)", strings.Join(angles, ","))
	}
	if g.Control >= 0 {
		fmt.Fprintf(&sb, " q[%d], q[%d]", g.Control, g.Target)
	} else {
		fmt.Fprintf(&sb, " q[%d]", g.Target)
	}
	return sb.String()
}

// Circuit is an ordered sequence of gates. Circuits are values: every method
// returns a new circuit and never shares its gate slice with the receiver.
type Circuit struct {
	Gates []Gate
}

// NewCircuit returns a circuit holding the given gates in order.
func NewCircuit(gates ...Gate) Circuit {
	return Circuit{Gates: slices.Clone(gates)}
}

// Append returns c followed by the given gates.
func (c Circuit) Append(gates ...Gate) Circuit {
	out := make([]Gate, 0, len(c.Gates)+len(gates))
	out = append(out, c.Gates...)
	return Circuit{Gates: append(out, gates...)}
}

// Concat returns c followed by each of others in order.
func (c Circuit) Concat(others ...Circuit) Circuit {
	return Concat(append([]Circuit{c}, others...)...)
}

// Concat folds circuit concatenation left to right. The empty circuit is its
// identity, so Concat() is the empty circuit.
func Concat(circuits ...Circuit) Circuit {
	n := 0
	for _, c := range circuits {
		n += len(c.Gates)
	}
	acc := Circuit{Gates: make([]Gate, 0, n)}
	for _, c := range circuits {
		acc.Gates = append(acc.Gates, c.Gates...)
	}
	return acc
}

// Len returns the number of gates.
func (c Circuit) Len() int {
	return len(c.Gates)
}

// NumQubits returns one more than the highest qubit index used.
func (c Circuit) NumQubits() int {
	n := 0
	for _, g := range c.Gates {
		n = max(n, g.Target+1, g.Control+1)
	}
	return n
}

// Equal reports gate-for-gate equality.
func (c Circuit) Equal(o Circuit) bool {
	return slices.EqualFunc(c.Gates, o.Gates, Gate.Equal)
}

// Bind returns c with bound values substituted for symbols.
func (c Circuit) Bind(bindings map[string]float64) Circuit {
	out := make([]Gate, len(c.Gates))
	for i, g := range c.Gates {
		out[i] = g.Bind(bindings)
	}
	return Circuit{Gates: out}
}

// Symbols returns the sorted free symbols across all gate parameters.
func (c Circuit) Symbols() []string {
	var syms []string
	for _, g := range c.Gates {
		for _, p := range g.Params {
			for _, s := range p.Symbols() {
				if !slices.Contains(syms, s) {
					syms = append(syms, s)
				}
			}
		}
	}
	slices.Sort(syms)
	return syms
}

// GatesOnQubit returns the indices of gates acting on the given qubit.
func (c Circuit) GatesOnQubit(qubit int) []int {
	var idx []int
	for i, g := range c.Gates {
		if g.references(qubit) {
			idx = append(idx, i)
		}
	}
	return idx
}

// CountByType returns the number of gates of each type.
func (c Circuit) CountByType() map[string]int {
	counts := make(map[string]int)
	for _, g := range c.Gates {
		counts[g.Type]++
	}
	return counts
}

package qevolve

import (
	"fmt"
	"math"
	"math/cmplx"
)

type Complex = complex128

// StateVector holds 2^n amplitudes; qubit q is bit q of the basis index.
type StateVector struct {
	Amplitudes []Complex
	NumQubits  int
}

func NewStateVector(numQubits int) *StateVector {
	n := 1 << numQubits
	amps := make([]Complex, n)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

func (s *StateVector) Clone() *StateVector {
	amps := make([]Complex, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

// ApplyGate applies one gate in place. Symbolic parameters must be bound first.
func (s *StateVector) ApplyGate(g Gate) error {
	for _, q := range g.Qubits() {
		if q < 0 || q >= s.NumQubits {
			return fmt.Errorf("%w: %s on q[%d] outside %d-qubit register", ErrUnsupportedGate, g.Type, q, s.NumQubits)
		}
	}
	params, err := g.NumericParams()
	if err != nil {
		return err
	}
	theta := 0.0
	if len(params) > 0 {
		theta = params[0]
	}

	switch g.Type {
	case "H":
		s.applyH(g.Target)
	case "X":
		s.applyX(g.Target)
	case "Y":
		s.applyY(g.Target)
	case "Z":
		s.applyZ(g.Target)
	case "RX":
		s.applyRX(g.Target, theta)
	case "RY":
		s.applyRY(g.Target, theta)
	case "RZ":
		s.applyRZ(g.Target, theta)
	case "CX":
		s.applyCX(g.Control, g.Target)
	case "CZ":
		s.applyCZ(g.Control, g.Target)
	case "SWAP":
		s.applySWAP(g.Control, g.Target)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedGate, g.Type)
	}
	return nil
}

// ApplyPauli applies a Pauli string (ignoring its coefficient) in place.
func (s *StateVector) ApplyPauli(t PauliTerm) error {
	for _, f := range t.factors {
		if f.Qubit >= s.NumQubits {
			return fmt.Errorf("%w: %s%d outside %d-qubit register", ErrMalformedTerm, f.Axis, f.Qubit, s.NumQubits)
		}
		switch f.Axis {
		case X:
			s.applyX(f.Qubit)
		case Y:
			s.applyY(f.Qubit)
		case Z:
			s.applyZ(f.Qubit)
		}
	}
	return nil
}

// Inner returns <s|o>.
func (s *StateVector) Inner(o *StateVector) Complex {
	var sum Complex
	for i, a := range s.Amplitudes {
		sum += cmplx.Conj(a) * o.Amplitudes[i]
	}
	return sum
}

// Expectation returns the real part of <s|op|s>. Coefficients must be numeric.
func (s *StateVector) Expectation(op Operator) (float64, error) {
	total := 0.0
	for _, t := range op.Terms() {
		c, err := t.RealCoefficient()
		if err != nil {
			return 0, err
		}
		applied := s.Clone()
		if err := applied.ApplyPauli(t); err != nil {
			return 0, err
		}
		total += c * real(s.Inner(applied))
	}
	return total, nil
}

func (s *StateVector) applyH(q int) {
	hFactor := complex(1.0/math.Sqrt2, 0)
	n := len(s.Amplitudes)
	bit := 1 << q
	newAmps := make([]Complex, n)
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			newAmps[i] = hFactor * (s.Amplitudes[i] + s.Amplitudes[j])
			newAmps[j] = hFactor * (s.Amplitudes[i] - s.Amplitudes[j])
		}
	}
	s.Amplitudes = newAmps
}

func (s *StateVector) applyX(q int) {
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyY(q int) {
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = -1i*s.Amplitudes[j], 1i*s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyZ(q int) {
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit != 0 {
			s.Amplitudes[i] *= -1
		}
	}
}

func (s *StateVector) applyRX(q int, theta float64) {
	n := len(s.Amplitudes)
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	newAmps := make([]Complex, n)
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			newAmps[i] = c*s.Amplitudes[i] + js*s.Amplitudes[j]
			newAmps[j] = js*s.Amplitudes[i] + c*s.Amplitudes[j]
		}
	}
	s.Amplitudes = newAmps
}

func (s *StateVector) applyRY(q int, theta float64) {
	n := len(s.Amplitudes)
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	s_ := complex(math.Sin(theta/2), 0)
	newAmps := make([]Complex, n)
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			newAmps[i] = c*s.Amplitudes[i] - s_*s.Amplitudes[j]
			newAmps[j] = s_*s.Amplitudes[i] + c*s.Amplitudes[j]
		}
	}
	s.Amplitudes = newAmps
}

func (s *StateVector) applyRZ(q int, theta float64) {
	n := len(s.Amplitudes)
	bit := 1 << q
	phase := cmplx.Exp(complex(0, theta/2))
	for i := 0; i < n; i++ {
		if i&bit != 0 {
			s.Amplitudes[i] *= phase
		} else {
			s.Amplitudes[i] *= cmplx.Conj(phase)
		}
	}
}

func (s *StateVector) applyCX(control, target int) {
	n := len(s.Amplitudes)
	cBit := 1 << control
	tBit := 1 << target
	for i := 0; i < n; i++ {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyCZ(control, target int) {
	n := len(s.Amplitudes)
	cBit := 1 << control
	tBit := 1 << target
	for i := 0; i < n; i++ {
		if i&cBit != 0 && i&tBit != 0 {
			s.Amplitudes[i] *= -1
		}
	}
}

func (s *StateVector) applySWAP(q1, q2 int) {
	n := len(s.Amplitudes)
	bit1 := 1 << q1
	bit2 := 1 << q2
	for i := 0; i < n; i++ {
		if i&bit1 != 0 && i&bit2 == 0 {
			j := (i & ^bit1) | bit2
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

func (s *StateVector) GetQubitProbabilities() []QubitProbability {
	probs := make([]QubitProbability, s.NumQubits)
	n := len(s.Amplitudes)

	for i := 0; i < n; i++ {
		prob := real(s.Amplitudes[i] * cmplx.Conj(s.Amplitudes[i]))
		for q := 0; q < s.NumQubits; q++ {
			if i&(1<<q) != 0 {
				probs[q].Prob1 += prob
			} else {
				probs[q].Prob0 += prob
			}
		}
	}

	return probs
}

// Simulate runs the circuit on |0...0> over numQubits qubits. numQubits is raised
// to the circuit's own width when smaller.
func Simulate(c Circuit, numQubits int) (*StateVector, error) {
	state := NewStateVector(max(numQubits, c.NumQubits(), 1))
	if err := state.Run(c); err != nil {
		return nil, err
	}
	return state, nil
}

// Run applies every gate of c in order.
func (s *StateVector) Run(c Circuit) error {
	for i, g := range c.Gates {
		if err := s.ApplyGate(g); err != nil {
			return fmt.Errorf("gate %d: %w", i, err)
		}
	}
	return nil
}

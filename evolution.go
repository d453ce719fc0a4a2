package qevolve

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
)

// MethodTrotter selects the repeated first-order product formula. It is the only
// supported time evolution method.
const MethodTrotter = "Trotter"

var (
	halfPi    = Num(math.Pi / 2)
	negHalfPi = Num(-math.Pi / 2)
)

// DerivativeEntry pairs a derivative circuit with its multiplicative factor.
// Summing Factor * <Circuit> over all entries gives d<evolution>/dt.
type DerivativeEntry struct {
	Circuit Circuit
	Factor  float64
}

// TimeEvolution returns a circuit approximating exp(-i * time * hamiltonian) by
// repeating the product of per-term exponentials trotterOrder times, each at time
// time/trotterOrder. Terms are taken in the operator's iteration order.
func TimeEvolution(hamiltonian Operator, time Expr, method string, trotterOrder int) (Circuit, error) {
	if err := checkMethod(method, trotterOrder); err != nil {
		return Circuit{}, err
	}
	terms := hamiltonian.Terms()
	step := time.Div(float64(trotterOrder))

	parts := make([]Circuit, 0, trotterOrder*len(terms))
	for i := 0; i < trotterOrder; i++ {
		for _, term := range terms {
			c, err := TermEvolution(term, step)
			if err != nil {
				return Circuit{}, err
			}
			parts = append(parts, c)
		}
	}
	return Concat(parts...), nil
}

// TermEvolution returns the exact circuit for exp(-i * time * term) where term is
// a single Pauli string with its coefficient. The rotation is an RZ of angle
// 2*time*coefficient on the term's last qubit, wrapped in a CNOT staircase and
// per-qubit basis changes. The identity term yields the empty circuit.
//
// Based on section 4 of https://arxiv.org/abs/1001.3855.
func TermEvolution(term Operator, time Expr) (Circuit, error) {
	terms := term.Terms()
	if len(terms) != 1 {
		return Circuit{}, fmt.Errorf("%w: got %d terms", ErrMalformedTerm, len(terms))
	}
	t := terms[0]
	factors := t.factors
	if len(factors) == 0 {
		return Circuit{}, nil
	}

	var baseChanges, baseReversals, cnots []Gate
	var central Gate
	for i, f := range factors {
		switch f.Axis {
		case X:
			baseChanges = append(baseChanges, H(f.Qubit))
			baseReversals = append(baseReversals, H(f.Qubit))
		case Y:
			baseChanges = append(baseChanges, RX(halfPi, f.Qubit))
			baseReversals = append(baseReversals, RX(negHalfPi, f.Qubit))
		}
		if i == len(factors)-1 {
			central = RZ(Num(2).Mul(time).Mul(t.Coefficient), f.Qubit)
		} else {
			cnots = append(cnots, CNOT(f.Qubit, factors[i+1].Qubit))
		}
	}

	gates := make([]Gate, 0, len(baseChanges)+2*len(cnots)+1+len(baseReversals))
	gates = append(gates, baseChanges...)
	gates = append(gates, cnots...)
	gates = append(gates, central)
	for i := len(cnots) - 1; i >= 0; i-- {
		gates = append(gates, cnots[i])
	}
	gates = append(gates, baseReversals...)
	return Circuit{Gates: gates}, nil
}

// TimeEvolutionDerivatives returns circuits and matching factors such that
// sum(factors[k] * <circuits[k]>) is the derivative with respect to time of the
// expectation value of TimeEvolution(hamiltonian, time, method, trotterOrder).
//
// Each term is shifted in both directions using the parameter-shift rule. For
// trotterOrder > 1 every shifted single step is spliced into each repetition slot
// of the unshifted evolution. Coefficients must be numeric and non-zero.
func TimeEvolutionDerivatives(hamiltonian Operator, time float64, method string, trotterOrder int) ([]Circuit, []float64, error) {
	if err := checkMethod(method, trotterOrder); err != nil {
		return nil, nil, err
	}
	terms := hamiltonian.Terms()
	order := float64(trotterOrder)

	shifted := make([]Circuit, 0, 2*len(terms))
	factors := make([]float64, 0, 2*len(terms))
	for i, term := range terms {
		c, err := term.RealCoefficient()
		if err != nil {
			return nil, nil, err
		}
		if c == 0 {
			return nil, nil, fmt.Errorf("%w: offending term %s", ErrZeroCoefficient, term)
		}
		r := c / order
		for _, sign := range [2]float64{1, -1} {
			shift := sign * (math.Pi / (4 * r))
			parts := make([]Circuit, 0, len(terms))
			for j, other := range terms {
				t := time / order
				if i == j {
					t = (time + shift) / order
				}
				part, err := TermEvolution(other, Num(t))
				if err != nil {
					return nil, nil, err
				}
				parts = append(parts, part)
			}
			shifted = append(shifted, Concat(parts...))
			factors = append(factors, r*sign)
		}
	}

	if trotterOrder == 1 {
		log.Debug().Int("terms", len(terms)).Int("circuits", len(shifted)).Msg("built derivative circuits")
		return shifted, factors, nil
	}

	// One unshifted repetition, identical to each slot of the full evolution.
	repeated, err := TimeEvolution(hamiltonian, Num(time/order), MethodTrotter, 1)
	if err != nil {
		return nil, nil, err
	}
	circuits := make([]Circuit, 0, trotterOrder*len(shifted))
	finalFactors := make([]float64, 0, trotterOrder*len(shifted))
	for position := 0; position < trotterOrder; position++ {
		for k, different := range shifted {
			c, err := CircuitSequence(repeated, different, trotterOrder, position)
			if err != nil {
				return nil, nil, err
			}
			circuits = append(circuits, c)
			finalFactors = append(finalFactors, factors[k])
		}
	}
	log.Debug().Int("terms", len(terms)).Int("trotter_order", trotterOrder).
		Int("circuits", len(circuits)).Msg("built derivative circuits")
	return circuits, finalFactors, nil
}

// DerivativeEntries is TimeEvolutionDerivatives with circuits and factors paired.
func DerivativeEntries(hamiltonian Operator, time float64, method string, trotterOrder int) ([]DerivativeEntry, error) {
	circuits, factors, err := TimeEvolutionDerivatives(hamiltonian, time, method, trotterOrder)
	if err != nil {
		return nil, err
	}
	entries := make([]DerivativeEntry, len(circuits))
	for i := range circuits {
		entries[i] = DerivativeEntry{Circuit: circuits[i], Factor: factors[i]}
	}
	return entries, nil
}

// CircuitSequence joins length copies of repeated, with the copy at position
// replaced by different.
func CircuitSequence(repeated, different Circuit, length, position int) (Circuit, error) {
	if position < 0 || position >= length {
		return Circuit{}, fmt.Errorf("%w: position %d should be < %d", ErrPositionOutOfRange, position, length)
	}
	parts := make([]Circuit, length)
	for i := range parts {
		if i == position {
			parts[i] = different
		} else {
			parts[i] = repeated
		}
	}
	return Concat(parts...), nil
}

func checkMethod(method string, trotterOrder int) error {
	if method != MethodTrotter {
		return fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}
	if trotterOrder < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidTrotterOrder, trotterOrder)
	}
	return nil
}

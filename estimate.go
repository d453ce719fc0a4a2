package qevolve

import (
	"gonum.org/v1/gonum/diff/fd"
)

// DefaultDerivativeStep is the central-difference step used by
// FiniteDifferenceDerivative when step <= 0.
const DefaultDerivativeStep = 1e-4

// Estimator evaluates observables on states prepared by Prep followed by an
// evolution circuit, using the state-vector simulator.
type Estimator struct {
	Prep         Circuit
	Hamiltonian  Operator
	Observable   Operator
	TrotterOrder int
}

func (e Estimator) numQubits() int {
	return max(e.Prep.NumQubits(), operatorQubits(e.Hamiltonian), operatorQubits(e.Observable), 1)
}

func (e Estimator) expectation(c Circuit) (float64, error) {
	state, err := Simulate(e.Prep.Concat(c), e.numQubits())
	if err != nil {
		return 0, err
	}
	return state.Expectation(e.Observable)
}

// Evolution returns <Observable> after evolving for time.
func (e Estimator) Evolution(time float64) (float64, error) {
	c, err := TimeEvolution(e.Hamiltonian, Num(time), MethodTrotter, e.TrotterOrder)
	if err != nil {
		return 0, err
	}
	return e.expectation(c)
}

// Derivative returns the analytic time derivative of Evolution, summing
// factor * <Observable> over the derivative circuits.
func (e Estimator) Derivative(time float64) (float64, error) {
	entries, err := DerivativeEntries(e.Hamiltonian, time, MethodTrotter, e.TrotterOrder)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, entry := range entries {
		v, err := e.expectation(entry.Circuit)
		if err != nil {
			return 0, err
		}
		total += entry.Factor * v
	}
	return total, nil
}

// FiniteDifferenceDerivative approximates the time derivative of Evolution with
// a central difference of the given step.
func (e Estimator) FiniteDifferenceDerivative(time, step float64) (float64, error) {
	if step <= 0 {
		step = DefaultDerivativeStep
	}
	var evalErr error
	f := func(t float64) float64 {
		v, err := e.Evolution(t)
		if err != nil && evalErr == nil {
			evalErr = err
		}
		return v
	}
	d := fd.Derivative(f, time, &fd.Settings{Formula: fd.Central, Step: step})
	if evalErr != nil {
		return 0, evalErr
	}
	return d, nil
}

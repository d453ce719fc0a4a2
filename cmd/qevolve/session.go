package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"qevolve"
	"qevolve/internal/config"
)

// circuitEntry is one browsable circuit: the evolution itself or one of the
// derivative circuits with its factor. Circuits include the preparation.
type circuitEntry struct {
	name       string
	circuit    qevolve.Circuit
	factor     float64
	derivative bool
}

// session holds everything built from one run definition.
type session struct {
	hamiltonian qevolve.QubitOperator
	observable  qevolve.QubitOperator
	prep        qevolve.Circuit
	time        float64
	order       int
	entries     []circuitEntry
	estimator   qevolve.Estimator
}

func newSession(cfg *config.Config) (*session, error) {
	h, err := qevolve.ParseQubitOperator(cfg.Hamiltonian)
	if err != nil {
		return nil, fmt.Errorf("hamiltonian: %w", err)
	}
	obs, err := qevolve.ParseQubitOperator(cfg.Observable)
	if err != nil {
		return nil, fmt.Errorf("observable: %w", err)
	}
	prep, err := loadPrep(cfg.PrepPath)
	if err != nil {
		return nil, err
	}

	s := &session{
		hamiltonian: h,
		observable:  obs,
		prep:        prep,
		time:        cfg.Time,
		order:       cfg.TrotterOrder,
		estimator: qevolve.Estimator{
			Prep:         prep,
			Hamiltonian:  h,
			Observable:   obs,
			TrotterOrder: cfg.TrotterOrder,
		},
	}

	evolution, err := qevolve.TimeEvolution(h, qevolve.Num(cfg.Time), cfg.Method, cfg.TrotterOrder)
	if err != nil {
		return nil, err
	}
	s.entries = append(s.entries, circuitEntry{
		name:    fmt.Sprintf("U(t=%g)", cfg.Time),
		circuit: prep.Concat(evolution),
		factor:  1,
	})

	// Derivatives need numeric coefficients; a symbolic Hamiltonian still gets
	// its evolution circuit.
	derivatives, err := qevolve.DerivativeEntries(h, cfg.Time, cfg.Method, cfg.TrotterOrder)
	if err != nil {
		log.Warn().Err(err).Msg("Skipping derivative circuits")
	}
	for k, d := range derivatives {
		s.entries = append(s.entries, circuitEntry{
			name:       derivativeName(k, h.Len(), cfg.TrotterOrder),
			circuit:    prep.Concat(d.Circuit),
			factor:     d.Factor,
			derivative: true,
		})
	}

	log.Info().
		Int("terms", h.Len()).
		Int("trotter_order", cfg.TrotterOrder).
		Int("circuits", len(s.entries)).
		Msg("Session ready")

	return s, nil
}

// derivativeName labels the k-th derivative circuit. Circuits are ordered by
// repetition slot, then term, then shift sign.
func derivativeName(k, numTerms, order int) string {
	sign := "+"
	if k%2 == 1 {
		sign = "-"
	}
	term := (k / 2) % numTerms
	if order == 1 {
		return fmt.Sprintf("d/dt term %d %s", term, sign)
	}
	slot := k / (2 * numTerms)
	return fmt.Sprintf("d/dt slot %d term %d %s", slot, term, sign)
}

func loadPrep(path string) (qevolve.Circuit, error) {
	if path == "" {
		return qevolve.Circuit{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return qevolve.Circuit{}, fmt.Errorf("prep: %w", err)
	}
	c, err := qevolve.ParseQASM(string(data))
	if err != nil {
		return qevolve.Circuit{}, fmt.Errorf("prep %s: %w", path, err)
	}
	return c, nil
}

// numQubits is the register size shared by every entry.
func (s *session) numQubits() int {
	n := max(s.hamiltonian.NumQubits(), s.observable.NumQubits(), 1)
	for _, e := range s.entries {
		n = max(n, e.circuit.NumQubits())
	}
	return n
}

// expectation simulates entry i and returns its state and <observable>.
func (s *session) expectation(i int) (*qevolve.StateVector, float64, error) {
	state, err := qevolve.Simulate(s.entries[i].circuit, s.numQubits())
	if err != nil {
		return nil, 0, err
	}
	v, err := state.Expectation(s.observable)
	if err != nil {
		return state, 0, err
	}
	return state, v, nil
}

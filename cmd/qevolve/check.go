package main

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gonum.org/v1/gonum/floats/scalar"
)

// checkTolerance is the largest accepted gap between the analytic and the
// finite-difference derivative.
const checkTolerance = 1e-6

// runCheck prints the evolved expectation value and both derivative estimates.
// It reports an error when they disagree.
func runCheck(w io.Writer, s *session, step float64) error {
	value, err := s.estimator.Evolution(s.time)
	if err != nil {
		return err
	}
	analytic, err := s.estimator.Derivative(s.time)
	if err != nil {
		return err
	}
	numeric, err := s.estimator.FiniteDifferenceDerivative(s.time, step)
	if err != nil {
		return err
	}

	gap := math.Abs(analytic - numeric)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("quantity", "value").
		Row("<observable>", formatValue(value)).
		Row("d/dt analytic", formatValue(analytic)).
		Row("d/dt finite difference", formatValue(numeric)).
		Row("|difference|", formatValue(gap)).
		Row("derivative circuits", strconv.Itoa(len(s.entries)-1))
	fmt.Fprintln(w, t.Render())

	if !scalar.EqualWithinAbs(analytic, numeric, checkTolerance) {
		return fmt.Errorf("derivatives differ by %g (tolerance %g)", gap, checkTolerance)
	}
	return nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"qevolve/internal/config"
	"qevolve/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	hamiltonian := flag.String("hamiltonian", cfg.Hamiltonian, `Hamiltonian as a sum of Pauli terms, e.g. "0.5 [Z0 X1] + 0.3 [Y0]"`)
	observable := flag.String("observable", cfg.Observable, "Observable measured after the evolution")
	prep := flag.String("prep", cfg.PrepPath, "OpenQASM file applied before the evolution")
	evolutionTime := flag.Float64("time", cfg.Time, "Evolution time")
	order := flag.Int("order", cfg.TrotterOrder, "Trotter order (number of repetitions)")
	method := flag.String("method", cfg.Method, "Time evolution method")
	output := flag.String("output", cfg.OutputPath, "File written by the save key")
	printQASM := flag.Bool("qasm", false, "Print the evolution circuit as OpenQASM and exit")
	check := flag.Bool("check", false, "Compare the analytic derivative with finite differences and exit")
	flag.Parse()

	cfg.Hamiltonian = *hamiltonian
	cfg.Observable = *observable
	cfg.PrepPath = *prep
	cfg.Time = *evolutionTime
	cfg.TrotterOrder = *order
	cfg.Method = *method
	cfg.OutputPath = *output
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The TUI owns the terminal; its logs go to QEVOLVE_LOG_FILE or nowhere.
	interactive := !*printQASM && !*check
	var logOutput io.Writer = os.Stderr
	if interactive {
		logOutput = io.Discard
		if path := os.Getenv("QEVOLVE_LOG_FILE"); path != "" {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return err
			}
			defer f.Close()
			logOutput = f
		}
	}
	logger.SetGlobalLogger(logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty && !interactive,
		Output: logOutput,
	}))

	s, err := newSession(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Invalid run definition")
		return err
	}

	switch {
	case *printQASM:
		fmt.Print(s.entries[0].circuit.ToQASM())
		return nil
	case *check:
		return runCheck(os.Stdout, s, cfg.DerivativeStep)
	}

	p := tea.NewProgram(initialModel(s, cfg.OutputPath), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

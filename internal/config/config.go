package config

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"qevolve"
	"qevolve/internal/logger"
)

// Defaults for a run with no environment, profile or flags.
const (
	DefaultHamiltonian = "0.5 [Z0 X1] + 0.3 [Y0]"
	DefaultObservable  = "[Z0]"
	DefaultOutputPath  = "circuit.qasm"
)

// Config holds application configuration
type Config struct {
	// Run definition
	Hamiltonian  string
	Observable   string
	PrepPath     string // QASM file applied before the evolution, optional
	Time         float64
	TrotterOrder int
	Method       string

	// Finite-difference step for the derivative check
	DerivativeStep float64

	OutputPath  string
	ProfilePath string
	LogLevel    string
	LogPretty   bool
}

// Load reads configuration from environment variables. A profile named by
// QEVOLVE_PROFILE is applied first; environment variables override it.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Hamiltonian:    DefaultHamiltonian,
		Observable:     DefaultObservable,
		Time:           1.0,
		TrotterOrder:   1,
		Method:         qevolve.MethodTrotter,
		DerivativeStep: qevolve.DefaultDerivativeStep,
		OutputPath:     DefaultOutputPath,
		ProfilePath:    getEnv("QEVOLVE_PROFILE", ""),
	}

	if cfg.ProfilePath != "" {
		profile, err := NewLoader(log.Logger).LoadFromFile(cfg.ProfilePath)
		if err != nil {
			return nil, err
		}
		profile.apply(cfg)
	}

	cfg.Hamiltonian = getEnv("QEVOLVE_HAMILTONIAN", cfg.Hamiltonian)
	cfg.Observable = getEnv("QEVOLVE_OBSERVABLE", cfg.Observable)
	cfg.PrepPath = getEnv("QEVOLVE_PREP", cfg.PrepPath)
	cfg.Time = getEnvAsFloat("QEVOLVE_TIME", cfg.Time)
	cfg.TrotterOrder = getEnvAsInt("QEVOLVE_TROTTER_ORDER", cfg.TrotterOrder)
	cfg.Method = getEnv("QEVOLVE_METHOD", cfg.Method)
	cfg.DerivativeStep = getEnvAsFloat("QEVOLVE_DERIVATIVE_STEP", cfg.DerivativeStep)
	cfg.OutputPath = getEnv("QEVOLVE_OUTPUT", cfg.OutputPath)
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogPretty = getEnvAsBool("LOG_PRETTY", true)

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the run definition is usable. The method itself is checked by
// the circuit constructors so unsupported names surface their own error.
func (c *Config) Validate() error {
	if c.Hamiltonian == "" {
		return fmt.Errorf("QEVOLVE_HAMILTONIAN is required")
	}
	if c.Observable == "" {
		return fmt.Errorf("QEVOLVE_OBSERVABLE is required")
	}
	if c.TrotterOrder < 1 {
		return fmt.Errorf("trotter order must be >= 1, got %d", c.TrotterOrder)
	}
	if math.IsNaN(c.Time) || math.IsInf(c.Time, 0) {
		return fmt.Errorf("time must be finite, got %g", c.Time)
	}
	if c.DerivativeStep <= 0 {
		return fmt.Errorf("derivative step must be positive, got %g", c.DerivativeStep)
	}
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("unknown LOG_LEVEL %q", c.LogLevel)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

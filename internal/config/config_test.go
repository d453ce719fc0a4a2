package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qevolve"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultHamiltonian, cfg.Hamiltonian)
	assert.Equal(t, DefaultObservable, cfg.Observable)
	assert.Equal(t, 1.0, cfg.Time)
	assert.Equal(t, 1, cfg.TrotterOrder)
	assert.Equal(t, qevolve.MethodTrotter, cfg.Method)
	assert.Equal(t, qevolve.DefaultDerivativeStep, cfg.DerivativeStep)
	assert.Equal(t, DefaultOutputPath, cfg.OutputPath)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("QEVOLVE_HAMILTONIAN", "1.5 [X0]")
	t.Setenv("QEVOLVE_TIME", "0.25")
	t.Setenv("QEVOLVE_TROTTER_ORDER", "3")
	t.Setenv("QEVOLVE_METHOD", "Suzuki")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "1.5 [X0]", cfg.Hamiltonian)
	assert.Equal(t, 0.25, cfg.Time)
	assert.Equal(t, 3, cfg.TrotterOrder)
	assert.Equal(t, "Suzuki", cfg.Method)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.LogPretty)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("QEVOLVE_TIME", "soon")
	t.Setenv("QEVOLVE_TROTTER_ORDER", "two")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1.0, cfg.Time)
	assert.Equal(t, 1, cfg.TrotterOrder)
}

func TestLoadYAMLProfile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ising.yaml", `
name: ising
hamiltonian: "0.5 [Z0 Z1] + 0.2 [X0] + 0.2 [X1]"
observable: "[Z1]"
prep: prep.qasm
time: 0
trotter_order: 4
`)
	t.Setenv("QEVOLVE_PROFILE", path)
	t.Setenv("QEVOLVE_OBSERVABLE", "[X1]")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.5 [Z0 Z1] + 0.2 [X0] + 0.2 [X1]", cfg.Hamiltonian)
	assert.Equal(t, "[X1]", cfg.Observable, "environment overrides the profile")
	assert.Equal(t, filepath.Join(dir, "prep.qasm"), cfg.PrepPath)
	assert.Equal(t, 0.0, cfg.Time)
	assert.Equal(t, 4, cfg.TrotterOrder)
	assert.Equal(t, qevolve.MethodTrotter, cfg.Method)
}

func TestLoadTOMLProfile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "run.toml", `
name = "heisenberg"
hamiltonian = "[X0 X1] + [Y0 Y1] + [Z0 Z1]"
time = 0.5
trotter_order = 2
derivative_step = 0.001
output = "/tmp/out.qasm"
`)
	t.Setenv("QEVOLVE_PROFILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "[X0 X1] + [Y0 Y1] + [Z0 Z1]", cfg.Hamiltonian)
	assert.Equal(t, 0.5, cfg.Time)
	assert.Equal(t, 2, cfg.TrotterOrder)
	assert.Equal(t, 0.001, cfg.DerivativeStep)
	assert.Equal(t, "/tmp/out.qasm", cfg.OutputPath)
}

func TestLoaderRejectsBadProfiles(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(zerolog.Nop())

	tests := []struct {
		name    string
		content string
	}{
		{"unknown.yaml", "hamiltonian: \"[Z0]\"\ncolour: blue\n"},
		{"unknown.toml", "hamiltonian = \"[Z0]\"\ncolour = \"blue\"\n"},
		{"broken.yaml", "hamiltonian: [unterminated\n"},
		{"profile.json", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.LoadFromFile(writeFile(t, dir, tt.name, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := l.LoadFromFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Hamiltonian:    "[Z0]",
			Observable:     "[Z0]",
			TrotterOrder:   1,
			Method:         qevolve.MethodTrotter,
			DerivativeStep: 1e-4,
			LogLevel:       "info",
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty hamiltonian", func(c *Config) { c.Hamiltonian = "" }},
		{"empty observable", func(c *Config) { c.Observable = "" }},
		{"zero order", func(c *Config) { c.TrotterOrder = 0 }},
		{"step", func(c *Config) { c.DerivativeStep = 0 }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Profile is a saved run definition. Unset fields keep their previous value.
type Profile struct {
	Name         string   `yaml:"name" toml:"name"`
	Hamiltonian  string   `yaml:"hamiltonian" toml:"hamiltonian"`
	Observable   string   `yaml:"observable" toml:"observable"`
	Prep         string   `yaml:"prep" toml:"prep"`
	Time         *float64 `yaml:"time" toml:"time"`
	TrotterOrder int      `yaml:"trotter_order" toml:"trotter_order"`
	Method       string   `yaml:"method" toml:"method"`
	Step         float64  `yaml:"derivative_step" toml:"derivative_step"`
	Output       string   `yaml:"output" toml:"output"`
}

func (p *Profile) apply(cfg *Config) {
	if p.Hamiltonian != "" {
		cfg.Hamiltonian = p.Hamiltonian
	}
	if p.Observable != "" {
		cfg.Observable = p.Observable
	}
	if p.Prep != "" {
		cfg.PrepPath = p.Prep
	}
	if p.Time != nil {
		cfg.Time = *p.Time
	}
	if p.TrotterOrder != 0 {
		cfg.TrotterOrder = p.TrotterOrder
	}
	if p.Method != "" {
		cfg.Method = p.Method
	}
	if p.Step != 0 {
		cfg.DerivativeStep = p.Step
	}
	if p.Output != "" {
		cfg.OutputPath = p.Output
	}
}

// Loader handles loading run profiles from YAML or TOML files.
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a new profile loader.
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{
		log: log.With().Str("component", "profile_loader").Logger(),
	}
}

// LoadFromFile loads a profile, choosing the format from the file extension.
// A relative prep path is resolved against the profile's directory.
func (l *Loader) LoadFromFile(path string) (*Profile, error) {
	l.log.Debug().Str("path", path).Msg("Loading run profile")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile *Profile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		profile, err = l.LoadYAML(data)
	case ".toml":
		profile, err = l.LoadTOML(string(data))
	default:
		return nil, fmt.Errorf("unsupported profile format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if profile.Prep != "" && !filepath.IsAbs(profile.Prep) {
		profile.Prep = filepath.Join(filepath.Dir(path), profile.Prep)
	}

	l.log.Info().
		Str("name", profile.Name).
		Str("path", path).
		Msg("Profile loaded")

	return profile, nil
}

// LoadYAML decodes a YAML profile. Unknown keys are rejected.
func (l *Loader) LoadYAML(data []byte) (*Profile, error) {
	var profile Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML profile: %w", err)
	}
	return &profile, nil
}

// LoadTOML decodes a TOML profile. Unknown keys are rejected.
func (l *Loader) LoadTOML(data string) (*Profile, error) {
	var profile Profile
	md, err := toml.Decode(data, &profile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML profile: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown profile keys: %v", undecoded)
	}
	return &profile, nil
}

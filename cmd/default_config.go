package cmd

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/montesim/montesim/sim/randgen"
	"github.com/montesim/montesim/sim/scenario"
)

// GeneratorDefaults holds the default parameters of the generate commands.
type GeneratorDefaults struct {
	LCG       randgen.LCGParams       `yaml:"lcg"`
	MidSquare randgen.MidSquareParams `yaml:"midsquare"`
}

// Config represents the full defaults.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Version    string                       `yaml:"version"`
	Generators GeneratorDefaults            `yaml:"generators"`
	Presets    map[string]scenario.Scenario `yaml:"presets"`
}

// loadDefaultsConfig parses defaults.yaml into a Config struct.
// Uses strict field checking: typos must cause errors.
func loadDefaultsConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading defaults file: %w", err)
	}
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing defaults YAML: %w", err)
	}
	return &cfg, nil
}

// PresetNames returns the preset keys in sorted order.
func (c *Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPreset returns a validated copy of the named preset.
func GetPreset(name, defaultsFilePath string) (*scenario.Scenario, error) {
	cfg, err := loadDefaultsConfig(defaultsFilePath)
	if err != nil {
		return nil, err
	}
	sc, ok := cfg.Presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q; available: %v", name, cfg.PresetNames())
	}
	if sc.Name == "" {
		sc.Name = name
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("preset %q: %w", name, err)
	}
	return &sc, nil
}

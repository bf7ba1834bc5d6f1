package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Tex6298/levimage-sim/internal/levi"
)

const (
	DefaultDuration = 30.0
	DefaultDataDir  = ".levimag"
)

// Config is a full run description: the parameter set plus run options.
// Parameter presets are plain key-value records of the same fields, so a
// preset file and a config file share the params block.
type Config struct {
	Name     string      `yaml:"name"`
	Duration float64     `yaml:"duration"`
	Params   levi.Params `yaml:"params"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:     "default",
		Duration: DefaultDuration,
		Params:   levi.DefaultParams(),
	}
}

// Load reads a YAML config file. Missing fields keep their defaults;
// the loaded parameter set is validated before being returned.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a config as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

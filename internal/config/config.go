package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const DefaultMaxSteps = 5000

var validate = validator.New()

// Config is one run: a chapter, its parameter values keyed by parameter
// key and the stepping overrides.
type Config struct {
	Chapter    string             `yaml:"chapter" validate:"required"`
	Integrator string             `yaml:"integrator,omitempty" validate:"omitempty,oneof=midpoint cauchy heun euler rk4"`
	MaxSteps   int                `yaml:"max_steps,omitempty" validate:"gte=0,lte=1000000"`
	NoPause    bool               `yaml:"no_pause,omitempty"`
	Params     map[string]float64 `yaml:"params"`
}

func DefaultConfig() *Config {
	return &Config{
		MaxSteps: DefaultMaxSteps,
		Params:   map[string]float64{},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: field %s fails %q (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return err
	}
	return nil
}

// Values returns the parameters in keys order. missing lists the keys
// that have no value.
func (c *Config) Values(keys []string) (values []float64, missing []string) {
	values = make([]float64, len(keys))
	for i, k := range keys {
		v, ok := c.Params[k]
		if !ok {
			missing = append(missing, k)
			continue
		}
		values[i] = v
	}
	return values, missing
}

// Merge fills the parameters, integrator and step cap missing from c with
// those of base.
func (c *Config) Merge(base *Config) {
	if base == nil {
		return
	}
	if c.Params == nil {
		c.Params = map[string]float64{}
	}
	for k, v := range base.Params {
		if _, ok := c.Params[k]; !ok {
			c.Params[k] = v
		}
	}
	if c.Integrator == "" {
		c.Integrator = base.Integrator
	}
	if c.MaxSteps == 0 {
		c.MaxSteps = base.MaxSteps
	}
}

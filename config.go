// ============================================
// TAGLOG - Configuration
// ============================================

package taglog

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// Config is the declarative configuration of a Registry. It is loaded
// from YAML/JSON/env by contrib/config and applied with Apply.
type Config struct {
	// Threshold is the minimum dispatched severity: verbose, info,
	// warning or error.
	Threshold string `yaml:"threshold" mapstructure:"threshold" validate:"omitempty,oneof=verbose debug info warn warning error"`

	// Console configures the built-in writer sink.
	Console ConsoleConfig `yaml:"console" mapstructure:"console"`
}

// ConsoleConfig configures the built-in writer sink.
type ConsoleConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Format  string `yaml:"format" mapstructure:"format" validate:"omitempty,oneof=text json"`
	Output  string `yaml:"output" mapstructure:"output" validate:"omitempty,oneof=stdout stderr"`
}

// DefaultConfig mirrors the state of a freshly constructed Registry.
func DefaultConfig() *Config {
	return &Config{
		Threshold: "error",
		Console: ConsoleConfig{
			Enabled: true,
			Format:  "text",
			Output:  "stderr",
		},
	}
}

var validate = validator.New()

// Validate checks the configuration against its struct rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid taglog config: %w", err)
	}
	return nil
}

// Apply validates c and reconfigures r: the threshold is replaced and,
// when the console section is enabled, a writer sink built from it is
// registered.
func (c *Config) Apply(r *Registry) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.Threshold != "" {
		sev, err := ParseSeverity(c.Threshold)
		if err != nil {
			return err
		}
		r.SetThreshold(sev)
	}

	if c.Console.Enabled {
		format := FormatText
		if c.Console.Format == "json" {
			format = FormatJSON
		}
		w := os.Stderr
		if c.Console.Output == "stdout" {
			w = os.Stdout
		}
		r.Register(NewWriterSink(w, format))
	}
	return nil
}

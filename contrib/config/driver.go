// Package config provides Viper-backed loading of taglog configuration.
//
// Supports:
//   - Multiple config sources (files, env vars)
//   - Multiple formats (JSON, YAML, TOML, ENV)
//   - Hot reload of the severity threshold on file changes
//
// Usage:
//
//	import (
//	    "github.com/madcok-co/taglog"
//	    "github.com/madcok-co/taglog/contrib/config"
//	)
//
//	loader, _ := config.NewDriver(&config.Config{
//	    ConfigFile: "./taglog.yaml",
//	})
//	loader.Apply(taglog.Default())
package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/madcok-co/taglog"
	"github.com/spf13/viper"
)

// Driver loads taglog configuration through Viper.
type Driver struct {
	viper  *viper.Viper
	config *Config

	mu       sync.RWMutex
	onChange []func(*taglog.Config)
}

// Config for the configuration driver.
type Config struct {
	// Config file settings
	ConfigName string // Config file name (without extension)
	ConfigPath string // Config file path
	ConfigType string // Config file type (yaml, json, toml, etc.)
	ConfigFile string // Full path to config file (alternative to name+path)

	// Additional config paths to search
	ConfigPaths []string

	// Environment variables
	EnvPrefix    string // Prefix for environment variables (e.g., "APP")
	AutomaticEnv bool   // Automatically read env vars

	// WatchConfig re-reads the file on change and notifies callbacks.
	WatchConfig bool

	// Default values
	Defaults map[string]any
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ConfigName:   "taglog",
		ConfigPath:   ".",
		ConfigType:   "yaml",
		AutomaticEnv: true,
		EnvPrefix:    "TAGLOG",
	}
}

// NewDriver creates a new configuration driver and reads the source.
func NewDriver(cfg *Config) (*Driver, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	v := viper.New()

	if cfg.ConfigFile != "" {
		v.SetConfigFile(cfg.ConfigFile)
	} else {
		v.SetConfigName(cfg.ConfigName)
		v.SetConfigType(cfg.ConfigType)
		v.AddConfigPath(cfg.ConfigPath)
		for _, path := range cfg.ConfigPaths {
			v.AddConfigPath(path)
		}
	}

	if cfg.AutomaticEnv {
		v.AutomaticEnv()
		if cfg.EnvPrefix != "" {
			v.SetEnvPrefix(cfg.EnvPrefix)
		}
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	}

	for key, value := range cfg.Defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not required if using env vars or defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	driver := &Driver{
		viper:  v,
		config: cfg,
	}

	if cfg.WatchConfig {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			loaded, err := driver.Load()
			if err != nil {
				return
			}

			driver.mu.RLock()
			callbacks := driver.onChange
			driver.mu.RUnlock()

			for _, callback := range callbacks {
				callback(loaded)
			}
		})
	}

	return driver, nil
}

// Load unmarshals and validates the current configuration.
func (d *Driver) Load() (*taglog.Config, error) {
	cfg := taglog.DefaultConfig()
	if err := d.viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply loads the configuration and applies it to the registry. When
// watching is enabled, later file changes keep adjusting the registry's
// threshold (sinks are not rebuilt on reload).
func (d *Driver) Apply(r *taglog.Registry) error {
	cfg, err := d.Load()
	if err != nil {
		return err
	}
	if err := cfg.Apply(r); err != nil {
		return err
	}

	if d.config.WatchConfig {
		d.OnChange(func(updated *taglog.Config) {
			if updated.Threshold == "" {
				return
			}
			if sev, err := taglog.ParseSeverity(updated.Threshold); err == nil {
				r.SetThreshold(sev)
			}
		})
	}
	return nil
}

// OnChange registers a callback invoked with the freshly loaded
// configuration whenever the watched source changes.
func (d *Driver) OnChange(callback func(*taglog.Config)) {
	d.mu.Lock()
	d.onChange = append(d.onChange, callback)
	d.mu.Unlock()
}

// Viper returns the underlying Viper instance.
func (d *Driver) Viper() *viper.Viper {
	return d.viper
}

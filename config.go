package threadpool

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk representation of pool options, loadable
// from YAML or JSON. Durations are strings in time.ParseDuration
// syntax.
type FileConfig struct {
	Pool PoolConfig `yaml:"pool" json:"pool"`
}

type PoolConfig struct {
	Workers    int    `yaml:"workers" json:"workers"`
	NamePrefix string `yaml:"name_prefix" json:"name_prefix"`
	PinWorkers bool   `yaml:"pin_workers" json:"pin_workers"`

	RetryInitial string `yaml:"retry_initial" json:"retry_initial"`
	RetryMax     string `yaml:"retry_max" json:"retry_max"`
}

// LoadFile reads a pool configuration file, dispatching on the file
// extension.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config FileConfig
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}

	return &config, nil
}

// ToOptions converts the file configuration into Options, filling
// unset fields with defaults.
func (f *FileConfig) ToOptions() (Options, error) {
	opts := Options{
		Workers:    f.Pool.Workers,
		NamePrefix: f.Pool.NamePrefix,
		PinWorkers: f.Pool.PinWorkers,
	}

	if f.Pool.RetryInitial != "" {
		d, err := time.ParseDuration(f.Pool.RetryInitial)
		if err != nil {
			return opts, fmt.Errorf("invalid retry_initial: %w", err)
		}
		opts.Retry.Initial = d
	}
	if f.Pool.RetryMax != "" {
		d, err := time.ParseDuration(f.Pool.RetryMax)
		if err != nil {
			return opts, fmt.Errorf("invalid retry_max: %w", err)
		}
		opts.Retry.Max = d
	}

	opts.FillDefaults()
	return opts, nil
}

// Validate checks the file configuration for values that FillDefaults
// would mask rather than reject.
func (f *FileConfig) Validate() error {
	if f.Pool.Workers < 0 {
		return fmt.Errorf("pool.workers must be non-negative")
	}
	if f.Pool.RetryInitial != "" {
		if _, err := time.ParseDuration(f.Pool.RetryInitial); err != nil {
			return fmt.Errorf("invalid retry_initial: %w", err)
		}
	}
	if f.Pool.RetryMax != "" {
		if _, err := time.ParseDuration(f.Pool.RetryMax); err != nil {
			return fmt.Errorf("invalid retry_max: %w", err)
		}
	}
	return nil
}

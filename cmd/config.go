package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/evalsched/sim"
	"github.com/inference-sim/evalsched/sim/cluster"
)

const (
	DefaultRandomSeed   = 42
	DefaultNodeNumber   = 1
	DefaultNodeCapacity = 100

	defaultConfigPath = "config.json"
)

// NodesConfig describes the node set.
type NodesConfig struct {
	Number              int     `yaml:"number"`
	Capacity            int     `yaml:"capacity"`
	UpdatePeriodSeconds float64 `yaml:"update_period_seconds"` // 0 = reconcile right after each mutation
}

// Config is the cluster definition document. It is written as JSON; since
// JSON is a subset of YAML the yaml.v3 decoder reads it, and YAML works too.
// All fields must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	RandomSeed      int64       `yaml:"random_seed"`
	DurationSeconds *float64    `yaml:"duration_seconds"` // nil = not set
	Nodes           NodesConfig `yaml:"nodes"`
}

// DefaultConfig returns the built-in configuration. Duration has no default.
func DefaultConfig() *Config {
	return &Config{
		RandomSeed: DefaultRandomSeed,
		Nodes: NodesConfig{
			Number:   DefaultNodeNumber,
			Capacity: DefaultNodeCapacity,
		},
	}
}

// ParseConfig decodes a document on top of the defaults, so omitted keys keep
// their default values. An empty document yields the defaults.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	// Parse with strict field checking: typos must cause errors
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads the configuration from path, or from stdin when path is "-".
// When path is the default path and does not exist, the defaults are used.
func LoadConfig(path string, stdin io.Reader) (*Config, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) && path == defaultConfigPath {
			logrus.Warnf("configuration file %s not found, using defaults", path)
			return DefaultConfig(), nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("reading configuration %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports values that cannot describe a run.
func (c *Config) Validate() error {
	if c.DurationSeconds == nil {
		return errors.New("missing simulation duration time value")
	}
	if err := checkSeconds("simulation duration", *c.DurationSeconds); err != nil {
		return err
	}
	if *c.DurationSeconds <= 0 {
		return fmt.Errorf("simulation duration must be > 0, got %v", *c.DurationSeconds)
	}
	if err := checkSeconds("nodes.update_period_seconds", c.Nodes.UpdatePeriodSeconds); err != nil {
		return err
	}
	if c.Nodes.UpdatePeriodSeconds < 0 {
		return fmt.Errorf("nodes.update_period_seconds must be >= 0, got %v", c.Nodes.UpdatePeriodSeconds)
	}
	return c.ClusterConfig().Validate()
}

// checkSeconds rejects values that have no tick representation.
func checkSeconds(key string, seconds float64) error {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return fmt.Errorf("%s must be a finite number, got %v", key, seconds)
	}
	if math.Abs(math.Round(seconds*sim.TicksPerSecond)) >= math.MaxInt64 {
		return fmt.Errorf("%s of %v seconds exceeds the virtual clock range", key, seconds)
	}
	return nil
}

// DurationTicks returns the stop time of the run. Call after Validate.
func (c *Config) DurationTicks() int64 {
	return sim.SecondsToTicks(*c.DurationSeconds)
}

// ClusterConfig converts the node section to ticks.
func (c *Config) ClusterConfig() cluster.Config {
	return cluster.Config{
		Nodes:        c.Nodes.Number,
		Capacity:     c.Nodes.Capacity,
		UpdatePeriod: sim.SecondsToTicks(c.Nodes.UpdatePeriodSeconds),
	}
}

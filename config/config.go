// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the configuration of the evaluation of expressions.
package config

import (
	"io"
	"os"

	"github.com/gx-org/spectral/future"
	"github.com/gx-org/spectral/metrics"
	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// ErrVersion is returned when the version of a configuration is not supported.
var ErrVersion = errors.New("unsupported configuration version")

// Version of the configuration format.
const Version = "v1.0.0"

// LogLevelEnv is the environment variable overriding the log level.
const LogLevelEnv = "SPECTRAL_LOG_LEVEL"

type (
	// Config of the evaluation.
	Config struct {
		Version    string     `yaml:"version"`
		Evaluation Evaluation `yaml:"evaluation"`
		Log        Log        `yaml:"log"`
		Metrics    Metrics    `yaml:"metrics"`
	}

	// Evaluation configures the nodes.
	Evaluation struct {
		// Scale at which arguments are sampled. Ignored if Dealias is true.
		Scale float64 `yaml:"scale"`
		// Dealias sets the scale of nodes to the dealias scale of their domain.
		// Enabled by default.
		Dealias bool `yaml:"dealias"`
		// StoreLast enables the cache of the last output of every node.
		StoreLast bool `yaml:"store_last"`
	}

	// Log configures the logger.
	Log struct {
		Level string `yaml:"level"`
		Name  string `yaml:"name"`
		JSON  bool   `yaml:"json"`
	}

	// Metrics configures the counters.
	Metrics struct {
		Enabled bool `yaml:"enabled"`
	}
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version:    Version,
		Evaluation: Evaluation{Scale: 1, Dealias: true},
		Log:        Log{Level: "info", Name: "spectral"},
	}
}

// Parse a YAML configuration. Missing values are set to their defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "cannot parse configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load a YAML configuration from a file.
// The log level can be overridden by the SPECTRAL_LOG_LEVEL environment variable.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read configuration")
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid configuration %s", path)
	}
	if level := os.Getenv(LogLevelEnv); level != "" {
		cfg.Log.Level = level
	}
	return cfg, nil
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	if !semver.IsValid(c.Version) {
		return errors.Wrapf(ErrVersion, "%q is not a semantic version", c.Version)
	}
	if semver.Major(c.Version) != semver.Major(Version) || semver.Compare(c.Version, Version) > 0 {
		return errors.Wrapf(ErrVersion, "got %s but the latest supported version is %s", c.Version, Version)
	}
	if !c.Evaluation.Dealias && c.Evaluation.Scale <= 0 {
		return errors.Errorf("scale must be positive, got %v", c.Evaluation.Scale)
	}
	if hclog.LevelFromString(c.Log.Level) == hclog.NoLevel {
		return errors.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

// Logger returns a logger writing to w.
func (c *Config) Logger(w io.Writer) (hclog.Logger, error) {
	level := hclog.LevelFromString(c.Log.Level)
	if level == hclog.NoLevel {
		return nil, errors.Errorf("unknown log level %q", c.Log.Level)
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       c.Log.Name,
		Level:      level,
		Output:     w,
		JSONFormat: c.Log.JSON,
	}), nil
}

// NewMetrics returns the counters registered in reg, or nil if metrics are disabled.
func (c *Config) NewMetrics(reg prometheus.Registerer) (*metrics.Metrics, error) {
	if !c.Metrics.Enabled {
		return nil, nil
	}
	return metrics.New(reg)
}

// NodeOptions returns the options to build nodes given the configuration.
func (c *Config) NodeOptions(logger hclog.Logger, m *metrics.Metrics) []future.Option {
	opts := []future.Option{future.WithDealias()}
	if !c.Evaluation.Dealias {
		opts = []future.Option{future.WithScale(c.Evaluation.Scale)}
	}
	if c.Evaluation.StoreLast {
		opts = append(opts, future.WithStoreLast())
	}
	if logger != nil {
		opts = append(opts, future.WithLogger(logger))
	}
	if m != nil {
		opts = append(opts, future.WithMetrics(m))
	}
	return opts
}

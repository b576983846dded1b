// Package config loads scan profiles from YAML and maps them onto runtime
// options. A profile file carries everything the CLI flags can set, so
// recurring scans are reproducible.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vantascan/vantascan/pkg/defaults"
	"github.com/vantascan/vantascan/pkg/duration"
	"github.com/vantascan/vantascan/pkg/oracle"
)

// Duration parses YAML durations written as strings ("3s", "500ms") or
// raw nanosecond integers.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, perr := time.ParseDuration(s)
		if perr != nil {
			return fmt.Errorf("parse duration %q: %w", s, perr)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("duration must be a string or integer: %w", err)
	}
	*d = Duration(n)
	return nil
}

// Std returns the standard library representation.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is one scan profile.
type Config struct {
	Target     string   `yaml:"target"`
	Params     []string `yaml:"params"`
	Method     string   `yaml:"method"`
	Categories []string `yaml:"categories"`

	Workers    int     `yaml:"workers"`
	RateLimit  float64 `yaml:"rate_limit"`
	Aggressive bool    `yaml:"aggressive"`

	Timeout  Duration `yaml:"timeout"`
	Insecure bool     `yaml:"insecure"`
	Proxy    string   `yaml:"proxy"`

	Thresholds Thresholds `yaml:"thresholds"`

	Output  Output  `yaml:"output"`
	Metrics Metrics `yaml:"metrics"`
	Tracing Tracing `yaml:"tracing"`
}

// Thresholds mirrors the oracle cutoffs in profile-friendly form. Zero
// fields fall back to the calibrated defaults.
type Thresholds struct {
	BooleanDivergence   float64  `yaml:"boolean_divergence"`
	BaselineAffinity    float64  `yaml:"baseline_affinity"`
	UnionDivergence     float64  `yaml:"union_divergence"`
	ReflectDivergence   float64  `yaml:"reflect_divergence"`
	PollutionDivergence float64  `yaml:"pollution_divergence"`
	Delay               Duration `yaml:"delay"`
}

// Output selects the report format and destination.
type Output struct {
	// Format is "json", "html" or "pdf".
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
}

// Metrics configures the Prometheus endpoint.
type Metrics struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Tracing configures the OTLP exporter.
type Tracing struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	Insecure bool   `yaml:"insecure"`
}

// Default returns the baseline profile.
func Default() Config {
	return Config{
		Method:    "GET",
		Workers:   defaults.WorkersStandard,
		RateLimit: defaults.RateLimitDefault,
		Timeout:   Duration(duration.HTTPScanning),
		Insecure:  true,
		Output:    Output{Format: "json"},
	}
}

// Load reads a YAML profile, layered over Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return cfg, nil
}

// OracleThresholds maps the profile cutoffs onto the oracle's, filling
// unset fields with the defaults.
func (c Config) OracleThresholds() oracle.Thresholds {
	t := oracle.DefaultThresholds()
	if c.Thresholds.BooleanDivergence > 0 {
		t.BooleanDivergence = c.Thresholds.BooleanDivergence
	}
	if c.Thresholds.BaselineAffinity > 0 {
		t.BaselineAffinity = c.Thresholds.BaselineAffinity
	}
	if c.Thresholds.UnionDivergence > 0 {
		t.UnionDivergence = c.Thresholds.UnionDivergence
	}
	if c.Thresholds.ReflectDivergence > 0 {
		t.ReflectDivergence = c.Thresholds.ReflectDivergence
	}
	if c.Thresholds.PollutionDivergence > 0 {
		t.PollutionDivergence = c.Thresholds.PollutionDivergence
	}
	if c.Thresholds.Delay > 0 {
		t.Delay = c.Thresholds.Delay.Std()
	}
	return t
}

// Validate rejects profiles the scanner cannot run.
func (c Config) Validate() error {
	if c.Target == "" {
		return fmt.Errorf("profile: target is required")
	}
	switch c.Output.Format {
	case "", "json", "html", "pdf":
	default:
		return fmt.Errorf("profile: unknown output format %q", c.Output.Format)
	}
	return nil
}

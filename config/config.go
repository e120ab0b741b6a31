// Package config handles signalboard.yaml configuration and environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"signalboard/aggregate"
)

// FileName is the default config file name.
const FileName = "signalboard.yaml"

// Probe modes for the data loader.
const (
	ProbeSequential = "sequential"
	ProbeConcurrent = "concurrent"
)

// DefaultCandidates are the export locations tried in order.
var DefaultCandidates = []string{
	"data/signals_by_theme.json",
	"../signals/signals_by_theme.json",
}

// Config represents the contents of a signalboard.yaml file.
type Config struct {
	Port           int           `yaml:"port,omitempty"`
	Data           []string      `yaml:"data,omitempty"`
	Probe          string        `yaml:"probe,omitempty"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout,omitempty"`
	PriorityPolicy string        `yaml:"priority_policy,omitempty"`
	DatabaseDSN    string        `yaml:"database_dsn,omitempty"`
	LogLevel       string        `yaml:"log_level,omitempty"`
	Regions        Regions       `yaml:"regions,omitempty"`
}

// Regions toggles the dashboard regions. Nil means enabled.
type Regions struct {
	Summary *bool `yaml:"summary,omitempty"`
	Charts  *bool `yaml:"charts,omitempty"`
	Table   *bool `yaml:"table,omitempty"`
}

// Layout is the resolved set of enabled regions.
type Layout struct {
	Summary bool
	Charts  bool
	Table   bool
}

// FullLayout enables every region.
var FullLayout = Layout{Summary: true, Charts: true, Table: true}

// Layout resolves the region toggles.
func (r Regions) Layout() Layout {
	on := func(b *bool) bool { return b == nil || *b }
	return Layout{Summary: on(r.Summary), Charts: on(r.Charts), Table: on(r.Table)}
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:           8090,
		Data:           append([]string(nil), DefaultCandidates...),
		Probe:          ProbeSequential,
		PriorityPolicy: string(aggregate.PolicyOther),
		DatabaseDSN:    "file:signalboard?mode=memory&cache=shared",
		LogLevel:       "info",
	}
}

// Load reads the config file at path over the defaults. A missing file
// yields the defaults and nil error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays environment overrides using getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("SIGNALBOARD_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Port = n
		}
	}
	if v := getenv("SIGNALBOARD_DATA"); v != "" {
		c.Data = splitList(v)
	}
	if v := getenv("SIGNALBOARD_PROBE"); v != "" {
		c.Probe = v
	}
	if v := getenv("SIGNALBOARD_FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.FetchTimeout = d
		}
	}
	if v := getenv("SIGNALBOARD_PRIORITY_POLICY"); v != "" {
		c.PriorityPolicy = v
	}
	if v := getenv("SIGNALBOARD_DB"); v != "" {
		c.DatabaseDSN = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Policy returns the parsed priority policy.
func (c *Config) Policy() aggregate.Policy {
	p, err := aggregate.ParsePolicy(c.PriorityPolicy)
	if err != nil {
		return aggregate.PolicyOther
	}
	return p
}

// Validate checks the config for invalid values.
func Validate(c *Config) error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if len(c.Data) == 0 {
		errs = append(errs, errors.New("data: at least one candidate is required"))
	}
	for i, d := range c.Data {
		if strings.TrimSpace(d) == "" {
			errs = append(errs, fmt.Errorf("data[%d]: empty candidate", i))
		}
	}
	switch c.Probe {
	case "", ProbeSequential, ProbeConcurrent:
	default:
		errs = append(errs, fmt.Errorf("probe: unknown mode %q (want %s or %s)", c.Probe, ProbeSequential, ProbeConcurrent))
	}
	if c.FetchTimeout < 0 {
		errs = append(errs, fmt.Errorf("fetch_timeout: must not be negative"))
	}
	if _, err := aggregate.ParsePolicy(c.PriorityPolicy); err != nil {
		errs = append(errs, fmt.Errorf("priority_policy: %w", err))
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level: unknown level %q", c.LogLevel))
	}
	return errors.Join(errs...)
}

// Write marshals the config to YAML and writes it to w.
func Write(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close() //nolint:errcheck // best-effort close
	enc.SetIndent(2)
	return enc.Encode(cfg)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

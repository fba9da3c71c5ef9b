// Package config loads the YAML configuration of the sigbridge binary.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	SourceCounter   = "counter"
	SourceCron      = "cron"
	SourceWebSocket = "websocket"
)

var (
	ErrUnknownSource = errors.New("config: unknown source kind")
	ErrInvalid       = errors.New("config: invalid value")
)

type Config struct {
	LogLevel string  `yaml:"log_level"`
	Metrics  Metrics `yaml:"metrics"`
	Source   Source  `yaml:"source"`
}

type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Path    string `yaml:"path"`
}

// Source selects what feeds the bridged cell.
type Source struct {
	Kind string `yaml:"kind"`

	// counter: emit 1..Count, one every Interval
	Interval Duration `yaml:"interval"`
	Count    int      `yaml:"count"`

	// cron: emit the tick number on each activation of the schedule
	Cron string `yaml:"cron"`

	// websocket: emit every JSON number read from URL
	URL string `yaml:"url"`

	// value of the cell before the first item arrives
	Initial int `yaml:"initial"`
}

// Duration is a time.Duration written as a Go duration string ("250ms", "5s").
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}

	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func Default() Config {
	return Config{
		LogLevel: "info",
		Metrics: Metrics{
			Addr: "127.0.0.1:9464",
			Path: "/metrics",
		},
		Source: Source{
			Kind:     SourceCounter,
			Interval: Duration(200 * time.Millisecond),
			Count:    10,
			Cron:     "@every 1s",
		},
	}
}

// Load reads the file at path over the defaults.
// An empty path, or a missing file, yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceCounter:
		if c.Source.Interval <= 0 {
			return fmt.Errorf("%w: source.interval must be positive", ErrInvalid)
		}
		if c.Source.Count < 0 {
			return fmt.Errorf("%w: source.count must not be negative", ErrInvalid)
		}
	case SourceCron:
		if c.Source.Cron == "" {
			return fmt.Errorf("%w: source.cron is required", ErrInvalid)
		}
	case SourceWebSocket:
		if c.Source.URL == "" {
			return fmt.Errorf("%w: source.url is required", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSource, c.Source.Kind)
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("%w: metrics.addr is required", ErrInvalid)
	}

	return nil
}

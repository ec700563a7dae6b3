// Package config loads the service configuration from a YAML or JSON file
// with SP_ prefixed environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/smartpark/core/learning"
	"github.com/kilianp07/smartpark/core/metrics"
	"github.com/kilianp07/smartpark/core/runlog"
	"github.com/kilianp07/smartpark/infra/mqtt"
	"github.com/kilianp07/smartpark/simulator"
)

// EnvPrefix marks environment overrides. SP_LEARNING__EPSILON=0.2 sets
// learning.epsilon.
const EnvPrefix = "SP_"

type Config struct {
	Learning   learning.Config  `json:"learning"`
	Simulation SimulationConfig `json:"simulation"`
	HTTP       HTTPConfig       `json:"http"`
	Metrics    metrics.Config   `json:"metrics"`
	MQTT       mqtt.Config      `json:"mqtt"`
	RunLog     runlog.Config    `json:"runlog"`
	Logging    LoggingConfig    `json:"logging"`
	Sentry     SentryConfig     `json:"sentry"`
}

// HTTPConfig configures the prediction API listener.
type HTTPConfig struct {
	Address string `json:"address"`
}

// SimulationConfig configures the historical data generator.
type SimulationConfig struct {
	Days int `json:"days"`
	// StartDate is formatted YYYY-MM-DD.
	StartDate  string  `json:"start_date"`
	TotalSpots int     `json:"total_spots"`
	Rate       float64 `json:"rate"`
	Seed       uint64  `json:"seed"`
}

// Simulator converts the section to generator parameters.
func (c SimulationConfig) Simulator() (simulator.Config, error) {
	start, err := time.Parse(time.DateOnly, c.StartDate)
	if err != nil {
		return simulator.Config{}, fmt.Errorf("simulation.start_date: %w", err)
	}
	return simulator.Config{
		Days:       c.Days,
		StartDate:  start,
		TotalSpots: c.TotalSpots,
		Rate:       c.Rate,
		Seed:       c.Seed,
	}, nil
}

// Default returns the configuration used for keys absent from every source.
func Default() Config {
	sim := simulator.DefaultConfig()
	cfg := Config{
		Learning: learning.DefaultConfig(),
		Simulation: SimulationConfig{
			Days:       sim.Days,
			StartDate:  sim.StartDate.Format(time.DateOnly),
			TotalSpots: sim.TotalSpots,
			Rate:       sim.Rate,
		},
		HTTP: HTTPConfig{Address: ":8080"},
		MQTT: mqtt.Config{Topic: mqtt.DefaultTopic, MaxRetries: 2, BackoffMS: 100},
	}
	cfg.RunLog.SetDefaults()
	return cfg
}

// Load reads path, applies environment overrides and validates the result.
// An empty path loads defaults and environment only. Defaults are set before
// decoding so explicit zero values such as epsilon: 0 are kept.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}
	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.RunLog.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Learning.Validate(); err != nil {
		return fmt.Errorf("learning: %w", err)
	}
	sim, err := c.Simulation.Simulator()
	if err != nil {
		return err
	}
	if err := sim.Validate(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if c.HTTP.Address == "" {
		return fmt.Errorf("http.address is required")
	}
	if err := c.MQTT.Validate(); err != nil {
		return err
	}
	if err := c.RunLog.Validate(); err != nil {
		return err
	}
	return c.Logging.Validate()
}

// Exists reports whether path names a regular file.
func Exists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}

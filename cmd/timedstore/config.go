package main

import (
	"fmt"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// demoConfig drives the load-generation demo.
type demoConfig struct {
	TimeoutMS         int     `koanf:"timeout_ms"`
	SweepIntervalMS   int     `koanf:"sweep_interval_ms"`
	SampleProbability float64 `koanf:"sample_probability"`
	ExpiredKeysRatio  float64 `koanf:"expired_keys_ratio"`
	Writers           int     `koanf:"writers"`
	WritesPerWriter   int     `koanf:"writes_per_writer"`
	ReadProbability   float64 `koanf:"read_probability"`
}

func defaultConfig() demoConfig {
	return demoConfig{
		TimeoutMS:         2000,
		SweepIntervalMS:   500,
		SampleProbability: 0.25,
		ExpiredKeysRatio:  0.25,
		Writers:           4,
		WritesPerWriter:   50,
		ReadProbability:   0.1,
	}
}

// loadConfig merges an optional YAML file over the defaults.
func loadConfig(path string) (demoConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(raw), yaml.Parser()); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func (c demoConfig) timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

func (c demoConfig) sweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMS) * time.Millisecond
}

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tradesentinel/screening-engine/internal/screening"
)

// Config holds the tunable parts of the screening engine: score weights,
// matcher thresholds, and fan-out limits. Everything has a sane default; the
// file only needs to mention what it changes.
type Config struct {
	Engine  EngineConfig          `yaml:"engine"`
	Matcher screening.MatchConfig `yaml:"matcher"`
	Weights screening.Weights     `yaml:"weights"`
}

// EngineConfig tunes the aggregation orchestrator.
type EngineConfig struct {
	ProviderTimeoutSeconds int `yaml:"providerTimeoutSeconds"`
	MaxConcurrent          int `yaml:"maxConcurrent"`
}

// Load reads configuration from a YAML file. A missing file yields the
// default config and no error, so deployments without overrides need no
// config file at all.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			ProviderTimeoutSeconds: 8,
			MaxConcurrent:          16,
		},
		Matcher: screening.DefaultMatchConfig(),
		Weights: screening.DefaultWeights(),
	}
}

// Validate checks the loaded config for unusable values.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if cfg.Engine.ProviderTimeoutSeconds <= 0 {
		return errors.New("engine.providerTimeoutSeconds must be positive")
	}
	if cfg.Engine.MaxConcurrent <= 0 {
		return errors.New("engine.maxConcurrent must be positive")
	}
	if cfg.Matcher.BaselineThreshold <= 0 || cfg.Matcher.BaselineThreshold > 1 {
		return errors.New("matcher.baselineThreshold must be in (0,1]")
	}
	if cfg.Matcher.AuthoritativeThreshold <= 0 || cfg.Matcher.AuthoritativeThreshold > cfg.Matcher.BaselineThreshold {
		return errors.New("matcher.authoritativeThreshold must be in (0, baselineThreshold]")
	}
	if cfg.Matcher.MaxEditDistance < 1 {
		return errors.New("matcher.maxEditDistance must be at least 1")
	}
	if cfg.Weights.Sanctions <= 0 {
		return errors.New("weights.sanctions must be positive")
	}
	return nil
}

// Options converts the file config into engine options.
func (c *Config) Options() screening.Options {
	return screening.Options{
		ProviderTimeout: time.Duration(c.Engine.ProviderTimeoutSeconds) * time.Second,
		MaxConcurrent:   c.Engine.MaxConcurrent,
		Match:           c.Matcher,
		Weights:         c.Weights,
	}
}

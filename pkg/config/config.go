package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all WareCost configuration.
type Config struct {
	Listen      string             `yaml:"listen"`
	CreditPrice float64            `yaml:"credit_price"`
	ZThreshold  float64            `yaml:"z_threshold"`
	HistoryDB   string             `yaml:"history_db"`
	Budgets     map[string]float64 `yaml:"budgets"`
	Logging     LoggingConfig      `yaml:"logging"`
}

// LoggingConfig controls server log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Listen:      ":8080",
		CreditPrice: 3.0,
		ZThreshold:  2.0,
		HistoryDB:   "warecost.db",
		Budgets:     map[string]float64{},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

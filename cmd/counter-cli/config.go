package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/govm-net/counter/vm"
)

// Config is the optional yaml file passed with --config
type Config struct {
	DBPath        string    `yaml:"db_path"`
	CodeDir       string    `yaml:"code_dir"`
	ChainID       string    `yaml:"chain_id"`
	AddressPrefix string    `yaml:"address_prefix"`
	GasLimit      uint64    `yaml:"gas_limit"`
	Log           LogConfig `yaml:"log"`
}

// LogConfig controls where and how much the CLI logs
type LogConfig struct {
	File       string `yaml:"file"`
	Level      string `yaml:"level"`
	MaxSize    int    `yaml:"max_size"`    // megabytes
	MaxBackups int    `yaml:"max_backups"` // files
	MaxAge     int    `yaml:"max_age"`     // days
	Compress   bool   `yaml:"compress"`
}

func defaultConfig() *Config {
	return &Config{
		DBPath:        "./counter.db",
		CodeDir:       "./.code",
		ChainID:       "govm-local",
		AddressPrefix: "govm",
		GasLimit:      10_000_000,
		Log: LogConfig{
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// loadConfig reads path on top of the defaults. An empty path yields the defaults.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()
	if path == "" {
		return config, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return config, nil
}

// engineConfig converts the CLI config into the engine config
func (c *Config) engineConfig() *vm.Config {
	config := vm.DefaultConfig()
	config.ContextType = "db"
	config.ContextParams = map[string]any{"db_path": c.DBPath}
	config.CodeDir = c.CodeDir
	config.ChainID = c.ChainID
	config.AddressPrefix = c.AddressPrefix
	config.GasLimit = c.GasLimit
	return config
}

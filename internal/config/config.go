// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package config loads ctrl-scout settings from defaults, config.yaml,
// CTRL_SCOUT_* environment variables and command-line flags, in increasing
// precedence.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/confighub/ctrl-scout/internal/logging"
	"github.com/confighub/ctrl-scout/pkg/queries"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "CTRL_SCOUT"

type Config struct {
	LogLevel           string        `mapstructure:"log_level"`
	LogDir             string        `mapstructure:"log_dir"` // "" disables session logs
	QueryLatency       time.Duration `mapstructure:"query_latency"`
	QueryTimeout       time.Duration `mapstructure:"query_timeout"`
	EnvironmentsFile   string        `mapstructure:"environments_file"` // "" uses the built-in environments
	QueriesFile        string        `mapstructure:"queries_file"`      // "" uses ~/.ctrl-scout/queries.yaml
	DefaultEnvironment string        `mapstructure:"default_environment"`
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"log-level":    "log_level",
	"environments": "environments_file",
	"queries":      "queries_file",
	"env":          "default_environment",
}

// Load reads the configuration. An empty file searches $HOME/.ctrl-scout and
// the working directory for config.yaml; a missing file is not an error.
// Flags that were set on the command line override everything else.
func Load(file string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("log_dir", logging.DefaultDir)
	v.SetDefault("query_latency", queries.DefaultLatency)
	v.SetDefault("query_timeout", 30*time.Second)
	v.SetDefault("environments_file", "")
	v.SetDefault("queries_file", "")
	v.SetDefault("default_environment", "")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.ctrl-scout")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.QueryLatency < 0 {
		return fmt.Errorf("query_latency must not be negative, got %s", c.QueryLatency)
	}
	if c.QueryTimeout <= 0 {
		return fmt.Errorf("query_timeout must be positive, got %s", c.QueryTimeout)
	}
	return nil
}

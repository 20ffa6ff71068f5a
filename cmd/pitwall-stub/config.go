package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultAddr    = "127.0.0.1:8000"
	defaultLatency = 400 * time.Millisecond
	defaultJitter  = 800 * time.Millisecond
	defaultSeed    = 2026
)

// stubConfig is the stub backend's runtime configuration.
type stubConfig struct {
	Addr       string        `mapstructure:"addr"`
	Latency    time.Duration `mapstructure:"latency"`
	Jitter     time.Duration `mapstructure:"jitter"`
	Seed       uint64        `mapstructure:"seed"`
	LogLevel   string        `mapstructure:"log-level"`
	ConfigPath string        `mapstructure:"-"`
}

func loadConfig(configPath string) (stubConfig, error) {
	var cfg stubConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("PITWALL_STUB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("addr", defaultAddr)
	v.SetDefault("latency", defaultLatency)
	v.SetDefault("jitter", defaultJitter)
	v.SetDefault("seed", defaultSeed)
	v.SetDefault("log-level", "info")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "pitwall", "stub.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	} else {
		cfg.ConfigPath = v.ConfigFileUsed()
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

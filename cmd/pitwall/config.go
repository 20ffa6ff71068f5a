package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tinytelemetry/pitwall/internal/logging"
	"github.com/tinytelemetry/pitwall/internal/model"
)

// cliConfig holds the dashboard configuration.
type cliConfig struct {
	APIURL                 string        `mapstructure:"api-url"`
	RequestTimeout         time.Duration `mapstructure:"request-timeout"`
	RaceIterations         int           `mapstructure:"race-iterations"`
	ChampionshipIterations int           `mapstructure:"championship-iterations"`
	BacktestIterations     int           `mapstructure:"backtest-iterations"`
	SkipBoot               bool          `mapstructure:"skip-boot"`
	LogFile                string        `mapstructure:"log-file"`
	LogLevel               string        `mapstructure:"log-level"`
}

func loadCLIConfig(configPath string) (cliConfig, error) {
	var cfg cliConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("PITWALL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("api-url", model.DefaultAPIURL)
	v.SetDefault("request-timeout", model.DefaultRequestTimeout)
	v.SetDefault("race-iterations", model.RaceIterations.Default)
	v.SetDefault("championship-iterations", model.ChampionshipIterations.Default)
	v.SetDefault("backtest-iterations", model.BacktestIterations.Default)
	v.SetDefault("skip-boot", false)
	v.SetDefault("log-file", logging.DefaultFile())
	v.SetDefault("log-level", "info")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "pitwall", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

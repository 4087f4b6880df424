package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tinytelemetry/ftscope/internal/model"

	"github.com/spf13/viper"
)

const (
	defaultBackendURL     = model.DefaultBackendURL
	defaultPollInterval   = model.DefaultPollInterval
	defaultRequestTimeout = model.DefaultRequestTimeout
	defaultWindow         = model.DefaultWindowCapacity
	defaultSimAddr        = model.DefaultSimAddr
	defaultLogLevel       = "info"
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	BackendURL      string        `mapstructure:"backend-url"`
	PollInterval    time.Duration `mapstructure:"poll-interval"`
	RequestTimeout  time.Duration `mapstructure:"request-timeout"`
	WindowCapacity  int           `mapstructure:"window-capacity"`
	SeriesRetention int           `mapstructure:"series-retention"`
	LogLevel        string        `mapstructure:"log-level"`
	LogFile         string        `mapstructure:"log-file"`
	SimAddr         string        `mapstructure:"sim-addr"`
	SimDataDir      string        `mapstructure:"sim-data-dir"`
	SimSeed         uint64        `mapstructure:"sim-seed"`
	ConfigPath      string        `mapstructure:"-"` // not from config file
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("FTSCOPE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("backend-url", defaultBackendURL)
	v.SetDefault("poll-interval", defaultPollInterval)
	v.SetDefault("request-timeout", defaultRequestTimeout)
	v.SetDefault("window-capacity", defaultWindow)
	v.SetDefault("series-retention", 0)
	v.SetDefault("log-level", defaultLogLevel)
	v.SetDefault("log-file", filepath.Join(home, ".local", "state", "ftscope", "ftscope.log"))
	v.SetDefault("sim-addr", defaultSimAddr)
	v.SetDefault("sim-data-dir", filepath.Join(home, ".local", "share", "ftscope"))
	v.SetDefault("sim-seed", 1)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "ftscope", "config.yml"))
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
	cfg.ConfigPath = v.ConfigFileUsed()
	if _, err := os.Stat(cfg.ConfigPath); err != nil {
		cfg.ConfigPath = ""
	}

	cfg.LogFile = expandHome(home, cfg.LogFile)
	cfg.SimDataDir = expandHome(home, cfg.SimDataDir)
	if cfg.SeriesRetention == 0 {
		cfg.SeriesRetention = cfg.WindowCapacity
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c appConfig) validate() error {
	if c.WindowCapacity <= 0 {
		return fmt.Errorf("invalid window-capacity: %d", c.WindowCapacity)
	}
	if c.SeriesRetention < c.WindowCapacity {
		return fmt.Errorf("invalid series-retention: %d is below window-capacity %d", c.SeriesRetention, c.WindowCapacity)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("invalid poll-interval: %s", c.PollInterval)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("invalid request-timeout: %s", c.RequestTimeout)
	}
	u, err := url.Parse(c.BackendURL)
	if err != nil {
		return fmt.Errorf("invalid backend-url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend-url: %q", c.BackendURL)
	}
	return nil
}

// expandHome expands a leading ~/ in path.
func expandHome(home, path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

// controlTimeout bounds one-off control requests. A zero request-timeout
// only disables the bound on sample fetches.
func (c appConfig) controlTimeout() time.Duration {
	if c.RequestTimeout > 0 {
		return c.RequestTimeout
	}
	return defaultRequestTimeout
}

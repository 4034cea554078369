// Package config loads demodeck settings from defaults, an optional TOML file
// and DEMODECK_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API       APIConfig
	Progress  ProgressConfig
	Server    ServerConfig
	Log       LogConfig
	Telemetry TelemetryConfig
}

// APIConfig points the client at the /api/vercel proxy.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ProgressConfig tunes the transfer simulators.
type ProgressConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	MinStep  float64       `mapstructure:"min_step"`
	MaxStep  float64       `mapstructure:"max_step"`
}

// ServerConfig is used by `demodeck serve`.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig selects the log destination and level.
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// TelemetryConfig enables OTLP trace export when Endpoint is set.
type TelemetryConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

// Path returns the config file location: DEMODECK_CONFIG if set, otherwise
// ~/.config/demodeck/config.toml.
func Path() string {
	if p := os.Getenv("DEMODECK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "demodeck", "config.toml")
}

// Load reads configuration from Path() and env.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile reads configuration from path and env. Env var overrides use
// prefix DEMODECK_. A missing config file is not an error; a malformed one
// is.
func LoadFile(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("api.base_url", "http://127.0.0.1:3000")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("progress.interval", 200*time.Millisecond)
	v.SetDefault("progress.min_step", 5.0)
	v.SetDefault("progress.max_step", 15.0)
	v.SetDefault("server.addr", "127.0.0.1:3000")
	v.SetDefault("log.file", "demodeck.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("telemetry.endpoint", "")
	v.SetDefault("telemetry.service_name", "demodeck")

	v.SetConfigType("toml")
	v.SetConfigFile(path)

	v.SetEnvPrefix("DEMODECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the simulators or client cannot run with.
func (c Config) Validate() error {
	if c.Progress.Interval <= 0 {
		return fmt.Errorf("progress.interval must be positive, got %s", c.Progress.Interval)
	}
	if c.Progress.MinStep <= 0 || c.Progress.MaxStep < c.Progress.MinStep {
		return fmt.Errorf("progress step range [%g, %g] is invalid", c.Progress.MinStep, c.Progress.MaxStep)
	}
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	return nil
}

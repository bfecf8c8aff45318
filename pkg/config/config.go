// Package config loads and validates the static configuration of the
// filesystem service from file, environment, and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/janwilmake/cloudflare-fs/internal/bytesize"
	"github.com/janwilmake/cloudflare-fs/internal/telemetry"
	"github.com/janwilmake/cloudflare-fs/pkg/api"
	"github.com/janwilmake/cloudflare-fs/pkg/vfs/store"
)

// Config is the static service configuration: logging, telemetry, the
// shard database connection, metrics, and the REST API server.
//
// Sources in order of precedence: CLI flags, environment variables
// (CFS_*), the YAML config file, then built-in defaults.
type Config struct {
	// Logging controls log output behavior.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Telemetry controls distributed tracing and continuous profiling.
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`

	// ShutdownTimeout is the maximum wait for graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0" yaml:"shutdown_timeout"`

	// Database configures the per-shard databases (SQLite or PostgreSQL).
	// Every shard's entry table lives in the store this section describes.
	Database store.Config `mapstructure:"database" yaml:"database"`

	// Metrics toggles Prometheus metrics collection.
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// API configures the REST API server.
	API api.APIConfig `mapstructure:"api" yaml:"api"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum level to emit: DEBUG, INFO, WARN or ERROR
	// (case-insensitive).
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format selects "text" or "json" records.
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output is "stdout", "stderr", or a file path.
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// TelemetryConfig controls OpenTelemetry tracing. Spans are exported to
// an OTLP collector (Jaeger, Tempo, or any OTLP receiver).
type TelemetryConfig struct {
	// Enabled turns tracing on; off by default.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector address (host:port).
	// Default: "localhost:4317".
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// Insecure disables TLS toward the collector. Default: true, which
	// suits local collectors.
	Insecure bool `mapstructure:"insecure" yaml:"insecure"`

	// SampleRate is the fraction of traces to keep, 0.0 to 1.0.
	// Default: 1.0.
	SampleRate float64 `mapstructure:"sample_rate" validate:"omitempty,gte=0,lte=1" yaml:"sample_rate"`

	// Profiling configures Pyroscope continuous profiling.
	Profiling telemetry.ProfilingConfig `mapstructure:"profiling" yaml:"profiling"`
}

// TracingConfig converts the section into the telemetry package's
// tracing configuration.
func (c *TelemetryConfig) TracingConfig(version string) telemetry.Config {
	return telemetry.Config{
		Enabled:        c.Enabled,
		ServiceName:    "cfs",
		ServiceVersion: version,
		Endpoint:       c.Endpoint,
		Insecure:       c.Insecure,
		SampleRate:     c.SampleRate,
	}
}

// ProfilingConfig returns the profiling section with the service identity
// filled in.
func (c *TelemetryConfig) ProfilingConfig(version string) telemetry.ProfilingConfig {
	cfg := c.Profiling
	if cfg.ServiceName == "" {
		cfg.ServiceName = "cfs"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = version
	}
	return cfg
}

// MetricsConfig configures Prometheus metrics collection. Disabled means
// no collectors are registered at all.
type MetricsConfig struct {
	// Enabled turns metrics collection on.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// Load reads configuration from file, environment, and defaults, in that
// order of increasing precedence for overlapping keys (environment wins
// over file, file over defaults).
//
// An empty configPath uses the default location
// ($XDG_CONFIG_HOME/cfs/config.yaml); a missing file is not an error and
// yields the default configuration.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// CFS_LOGGING_LEVEL=DEBUG overrides logging.level, and so on.
	v.SetEnvPrefix("CFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			return GetDefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// MustLoad is Load with friendlier errors for interactive use: a missing
// config file produces instructions for creating one instead of silently
// falling back to defaults.
func MustLoad(configPath string) (*Config, error) {
	if configPath == "" {
		if !DefaultConfigExists() {
			return nil, fmt.Errorf("no configuration file found at default location: %s\n\n"+
				"Please initialize a configuration file first:\n"+
				"  cfs init\n\n"+
				"Or specify a custom config file:\n"+
				"  cfs <command> --config /path/to/config.yaml",
				GetDefaultConfigPath())
		}
		configPath = GetDefaultConfigPath()
	} else if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s\n\n"+
			"Please create the configuration file:\n"+
			"  cfs init --config %s",
			configPath, configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path as YAML, creating parent directories as
// needed. The file is written 0600 since it may hold database passwords.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// decodeHooks parses the custom config value types: human-readable byte
// sizes ("16MB", "1Gi") and Go duration strings ("30s", "5m"). Plain
// numbers stay valid for both; a raw integer duration is nanoseconds.
func decodeHooks() mapstructure.DecodeHookFunc {
	byteSizeType := reflect.TypeOf(bytesize.ByteSize(0))
	durationType := reflect.TypeOf(time.Duration(0))

	return mapstructure.ComposeDecodeHookFunc(
		func(from, to reflect.Type, data interface{}) (interface{}, error) {
			if to != byteSizeType {
				return data, nil
			}
			switch v := data.(type) {
			case string:
				return bytesize.ParseByteSize(v)
			case int:
				return bytesize.ByteSize(v), nil
			case int64:
				return bytesize.ByteSize(v), nil
			case uint64:
				return bytesize.ByteSize(v), nil
			case float64:
				// YAML numbers often arrive as float64
				return bytesize.ByteSize(v), nil
			default:
				return data, nil
			}
		},
		func(from, to reflect.Type, data interface{}) (interface{}, error) {
			if to != durationType {
				return data, nil
			}
			switch v := data.(type) {
			case string:
				return time.ParseDuration(v)
			case int:
				return time.Duration(v), nil
			case int64:
				return time.Duration(v), nil
			case float64:
				return time.Duration(v), nil
			default:
				return data, nil
			}
		},
	)
}

// getConfigDir resolves the config directory: $XDG_CONFIG_HOME/cfs when
// set, otherwise ~/.config/cfs, or "." when no home is available.
func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cfs")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "cfs")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists reports whether a config file exists at the
// default location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// GetConfigDir returns the configuration directory path (exposed for the
// init command).
func GetConfigDir() string {
	return getConfigDir()
}

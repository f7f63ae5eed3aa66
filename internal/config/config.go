// Package config loads service configuration from an optional config
// file and REVLINE_-prefixed environment variables. Environment lookup
// for the matching toggles lives here and only here; the matching
// service receives resolved values.
package config

import (
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(Load),
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Matching MatchingConfig `mapstructure:"matching"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DatabaseConfig struct {
	// Driver is one of postgres, mysql, sqlite.
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type TracingConfig struct {
	// OTLPEndpoint enables the OTLP gRPC trace exporter when non-empty.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

type MatchingConfig struct {
	HierarchicalEnabled bool `mapstructure:"hierarchical_enabled"`
	DebugLogging        bool `mapstructure:"debug_logging"`
}

func Load() (Config, error) {
	// .env is a local development convenience; absence is not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("revline")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/revline")

	v.SetEnvPrefix("REVLINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Short-form aliases kept for operator familiarity.
	_ = v.BindEnv("matching.hierarchical_enabled", "REVLINE_MATCHING_HIERARCHICAL_ENABLED", "REVLINE_HIERARCHICAL_MATCHING")
	_ = v.BindEnv("matching.debug_logging", "REVLINE_MATCHING_DEBUG_LOGGING", "REVLINE_MATCH_DEBUG")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "file:revline.db?cache=shared")
	v.SetDefault("log.level", "info")
	v.SetDefault("tracing.otlp_endpoint", "")
	v.SetDefault("matching.hierarchical_enabled", false)
	v.SetDefault("matching.debug_logging", false)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	} else {
		v.WatchConfig()
		v.OnConfigChange(func(fsnotify.Event) {})
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	// The matching toggles historically accept "true"/"1" only, so they
	// bypass viper's permissive bool coercion.
	if raw := v.GetString("matching.hierarchical_enabled"); raw != "" {
		cfg.Matching.HierarchicalEnabled = parseFlag(raw)
	}
	if raw := v.GetString("matching.debug_logging"); raw != "" {
		cfg.Matching.DebugLogging = parseFlag(raw)
	}

	return cfg, nil
}

// parseFlag accepts "true" or "1", case-insensitive. Anything else is off.
func parseFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1":
		return true
	default:
		return false
	}
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ngmaloney/weather-now/internal/forecast"
	"github.com/ngmaloney/weather-now/internal/geocoding"
)

// EnvPrefix is prepended to every environment override, e.g.
// WEATHER_NOW_HTTP_TIMEOUT for http.timeout.
const EnvPrefix = "WEATHER_NOW"

var validate = validator.New()

type Config struct {
	Geocoding GeocodingConfig `mapstructure:"geocoding"`
	Forecast  ForecastConfig  `mapstructure:"forecast"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Journal   JournalConfig   `mapstructure:"journal"`
	Log       LogConfig       `mapstructure:"log"`
}

type GeocodingConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

type ForecastConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

type HTTPConfig struct {
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
	UserAgent string        `mapstructure:"user_agent" validate:"required"`
}

type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// Load reads configuration from defaults, an optional YAML file, a .env
// file and WEATHER_NOW_* environment variables, in increasing priority.
// An explicit configPath must exist; the implicit ./weather-now.yaml may not.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("weather-now")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Set defaults
	v.SetDefault("geocoding.url", geocoding.DefaultURL)
	v.SetDefault("forecast.url", forecast.DefaultURL)
	v.SetDefault("http.timeout", "10s")
	v.SetDefault("http.user_agent", forecast.DefaultUserAgent)
	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.path", "data/weather-now.db")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SlogLevel maps Log.Level onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

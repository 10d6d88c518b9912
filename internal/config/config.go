package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "freeswitch-admin-console/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all configuration for the console binaries
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT" validate:"oneof=development production test"`
	Port        string `mapstructure:"PORT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Remote FreeSWITCH management API
	APIBaseURL        string `mapstructure:"API_BASE_URL" validate:"required,url"`
	RequestTimeoutSec int    `mapstructure:"REQUEST_TIMEOUT_SEC" validate:"min=1"`

	// Web console cookies
	CookieSecure    bool `mapstructure:"COOKIE_SECURE"`
	CookieMaxAgeSec int  `mapstructure:"COOKIE_MAX_AGE_SEC" validate:"min=0"`

	// Terminal console state
	StateFile string `mapstructure:"STATE_FILE"`

	MetricsEnabled bool `mapstructure:"METRICS_ENABLED"`
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Set default values
	setDefaults(v)

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Override with environment variables
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.StateFile == "" {
		config.StateFile = defaultStateFile()
	}
	config.APIBaseURL = strings.TrimRight(config.APIBaseURL, "/")

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("PORT", "7010")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("API_BASE_URL", "")
	v.SetDefault("REQUEST_TIMEOUT_SEC", 10)

	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("COOKIE_MAX_AGE_SEC", 30*24*60*60)

	v.SetDefault("STATE_FILE", "")
	v.SetDefault("METRICS_ENABLED", true)
}

func defaultStateFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".pbx-console", "state.yaml")
	}
	return filepath.Join(home, ".pbx-console", "state.yaml")
}

func validate(config *Config) error {
	if config.APIBaseURL == "" {
		return apperrors.ErrAPIBaseURLMissing
	}
	if err := validator.New().Struct(config); err != nil {
		return err
	}
	if config.IsProduction() && !config.CookieSecure {
		return apperrors.NewConfigurationError("COOKIE_SECURE must be enabled in production")
	}
	return nil
}

// RequestTimeout is the fixed overall timeout applied to every remote call
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

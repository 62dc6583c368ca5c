// internal/config/config.go
//
// Process configuration. Sources, lowest precedence first:
//   - built-in defaults (SetDefault below)
//   - optional YAML file named by CONFIG_FILE
//   - .env in the working directory (development)
//   - process environment
//
// Keys are flat and spelled like their environment variables, so the same
// name works in YAML (`database_driver: sqlite`) and env (`DATABASE_DRIVER`).

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gookit/validate"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port           int           `mapstructure:"port" validate:"required|min:1|max:65535"`
	ClientOrigin   string        `mapstructure:"client_origin" validate:"required"`
	LogLevel       string        `mapstructure:"log_level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	LogPretty      bool          `mapstructure:"log_pretty"`
	Production     bool          `mapstructure:"production"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"required"`

	DatabaseDriver string `mapstructure:"database_driver" validate:"required|in:memory,sqlite,postgres"`
	DatabaseDSN    string `mapstructure:"database_dsn"`

	JWTSecret      string `mapstructure:"jwt_secret" validate:"required|minLen:8"`
	JWTExpiresDays int    `mapstructure:"jwt_expires_days" validate:"required|min:1"`
	CookieName     string `mapstructure:"cookie_name" validate:"required"`

	Epoch          string `mapstructure:"wheelword_epoch" validate:"required"`
	Strategy       string `mapstructure:"wheelword_strategy" validate:"required|in:sequential,hmac"`
	Salt           string `mapstructure:"wheelword_salt"`
	BankFile       string `mapstructure:"wheelword_bank_file"`
	DictionaryFile string `mapstructure:"wheelword_dictionary_file"`
	ShareURL       string `mapstructure:"wheelword_share_url"`

	CacheSizeMB    int  `mapstructure:"cache_size_mb" validate:"min:0"`
	MetricsEnabled bool `mapstructure:"metrics_enabled"`
}

var defaults = map[string]any{
	"port":                      5175,
	"client_origin":             "http://localhost:5173",
	"log_level":                 "info",
	"log_pretty":                false,
	"production":                false,
	"request_timeout":           "10s",
	"database_driver":           "sqlite",
	"database_dsn":              "data/wheelword.db",
	"jwt_secret":                "dev_secret_change_me",
	"jwt_expires_days":          14,
	"cookie_name":               "wheelword_token",
	"wheelword_epoch":           "2025-01-01",
	"wheelword_strategy":        "sequential",
	"wheelword_salt":            "",
	"wheelword_bank_file":       "",
	"wheelword_dictionary_file": "",
	"wheelword_share_url":       "",
	"cache_size_mb":             8,
	"metrics_enabled":           true,
}

// Load reads .env, the optional CONFIG_FILE and the environment, then
// validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate applies the struct rules plus the cross-field ones.
func (c *Config) Validate() error {
	v := validate.Struct(c)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.One())
	}
	if c.DatabaseDriver != "memory" && c.DatabaseDSN == "" {
		return fmt.Errorf("invalid config: database_dsn is required for driver %s", c.DatabaseDriver)
	}
	if c.Strategy == "hmac" && c.Salt == "" {
		return errors.New("invalid config: wheelword_salt is required for the hmac strategy")
	}
	if _, err := c.EpochTime(); err != nil {
		return fmt.Errorf("invalid config: wheelword_epoch: %w", err)
	}
	return nil
}

// EpochTime parses Epoch as a UTC calendar date.
func (c *Config) EpochTime() (time.Time, error) {
	return time.Parse("2006-01-02", c.Epoch)
}

// Addr is the listen address for Port.
func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

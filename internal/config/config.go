// Package config loads service settings through viper. Settings come from
// command-line flags, then environment variables, then an optional YAML
// file, then defaults. Keys use dashes; the matching environment variable
// is the upper-cased key with dashes replaced by underscores.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultAddress      = ":8080"
	DefaultHelloAddress = ":8081"
	DefaultHelloName    = "World"
)

// Config holds everything the binaries need at startup
type Config struct {
	Address         string        `mapstructure:"address"`
	Port            string        `mapstructure:"port"`
	Debug           bool          `mapstructure:"debug"`
	ReadTimeout     time.Duration `mapstructure:"read-timeout"`
	WriteTimeout    time.Duration `mapstructure:"write-timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
	MaxUploadBytes  int64         `mapstructure:"max-upload-bytes"`

	DatabaseURL      string `mapstructure:"database-url"`
	DatabaseMaxConns int32  `mapstructure:"database-max-conns"`
	AutoMigrate      bool   `mapstructure:"auto-migrate"`

	LLMAPIKey  string        `mapstructure:"llm-api-key"`
	LLMBaseURL string        `mapstructure:"llm-base-url"`
	LLMModel   string        `mapstructure:"llm-model"`
	LLMTimeout time.Duration `mapstructure:"llm-timeout"`

	VendorsBaseURL string `mapstructure:"vendors-base-url"`

	HelloAddress string `mapstructure:"hello-address"`
	HelloName    string `mapstructure:"hello-name"`
}

// New returns a viper instance with defaults and environment lookup set up
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("address", DefaultAddress)
	v.SetDefault("port", "")
	v.SetDefault("debug", false)
	v.SetDefault("read-timeout", 30*time.Second)
	v.SetDefault("write-timeout", 5*time.Minute)
	v.SetDefault("shutdown-timeout", 30*time.Second)
	v.SetDefault("max-upload-bytes", int64(32<<20))
	v.SetDefault("database-url", "")
	v.SetDefault("database-max-conns", int32(10))
	v.SetDefault("auto-migrate", false)
	v.SetDefault("llm-api-key", "")
	v.SetDefault("llm-base-url", "")
	v.SetDefault("llm-model", "")
	v.SetDefault("llm-timeout", 2*time.Minute)
	v.SetDefault("vendors-base-url", "")
	v.SetDefault("hello-address", DefaultHelloAddress)
	v.SetDefault("hello-name", DefaultHelloName)

	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// ReadFile merges a YAML config file into v
func ReadFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// Load decodes and validates the settings held by v
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Port != "" {
		cfg.Address = ":" + cfg.Port
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Address == "" {
		errs = append(errs, errors.New("address must not be empty"))
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.ShutdownTimeout < 0 || c.LLMTimeout < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}
	if c.MaxUploadBytes < 0 {
		errs = append(errs, fmt.Errorf("max-upload-bytes must not be negative, got %d", c.MaxUploadBytes))
	}
	if c.DatabaseMaxConns < 0 {
		errs = append(errs, fmt.Errorf("database-max-conns must not be negative, got %d", c.DatabaseMaxConns))
	}
	if c.AutoMigrate && c.DatabaseURL == "" {
		errs = append(errs, errors.New("auto-migrate requires database-url"))
	}
	return errors.Join(errs...)
}

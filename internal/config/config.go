// Package config loads runtime settings for the gateway tools.
//
// Sources, strongest first: FINOPS_* environment variables, a gateway.yaml
// file, a .env file, built-in defaults. The commands pass FINOPS_CONFIG as
// the explicit file path when it is set.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dvloznov/finops-gateway/internal/logger"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "FINOPS"

// Config is the resolved configuration.
type Config struct {
	GatewayURL     string        `mapstructure:"gateway_url"`
	GatewayTimeout time.Duration `mapstructure:"gateway_timeout"`
	GatewayToken   string        `mapstructure:"gateway_token"`
	GRPCAddr       string        `mapstructure:"grpc_addr"`
	LogLevel       string        `mapstructure:"log_level"`
	GCSBucket      string        `mapstructure:"gcs_bucket"`
	BQProject      string        `mapstructure:"bq_project"`
	BQDataset      string        `mapstructure:"bq_dataset"`
	FakerSeed      uint64        `mapstructure:"faker_seed"`
	StubPort       int           `mapstructure:"stub_port"`
}

var defaults = map[string]any{
	"gateway_url":     "http://localhost:8080",
	"gateway_timeout": 10 * time.Second,
	"gateway_token":   "",
	"grpc_addr":       "localhost:9090",
	"log_level":       "info",
	"gcs_bucket":      "",
	"bq_project":      "",
	"bq_dataset":      "finops",
	"faker_seed":      0,
	"stub_port":       8080,
}

// Load resolves the configuration. An explicit path must exist; otherwise
// ./gateway.yaml and ./.env are read when present.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	if err := loadDotEnv(v, ".env"); err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("Load: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName("gateway")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("Load: read gateway.yaml: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("Load: unmarshal: %w", err)
	}
	return &cfg, nil
}

// loadDotEnv layers FINOPS_* entries of a .env file over the defaults.
func loadDotEnv(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	env := viper.New()
	env.SetConfigFile(path)
	env.SetConfigType("env")
	if err := env.ReadInConfig(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	prefix := strings.ToLower(EnvPrefix) + "_"
	for _, key := range env.AllKeys() {
		if name, ok := strings.CutPrefix(key, prefix); ok {
			v.SetDefault(name, env.Get(key))
		}
	}
	return nil
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.GatewayURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("gateway_url %q is not an http(s) URL", c.GatewayURL))
	}
	if c.GatewayTimeout <= 0 {
		errs = append(errs, fmt.Errorf("gateway_timeout must be positive, got %s", c.GatewayTimeout))
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.StubPort <= 0 || c.StubPort > 65535 {
		errs = append(errs, fmt.Errorf("stub_port %d out of range", c.StubPort))
	}

	if len(errs) > 0 {
		return fmt.Errorf("Validate: %w", errors.Join(errs...))
	}
	return nil
}

// RequireExport checks the BigQuery settings.
func (c *Config) RequireExport() error {
	if c.BQProject == "" || c.BQDataset == "" {
		return fmt.Errorf("RequireExport: %s_BQ_PROJECT and %s_BQ_DATASET must be set", EnvPrefix, EnvPrefix)
	}
	return nil
}

// RequireArchive checks the Cloud Storage settings.
func (c *Config) RequireArchive() error {
	if c.GCSBucket == "" {
		return fmt.Errorf("RequireArchive: %s_GCS_BUCKET must be set", EnvPrefix)
	}
	return nil
}

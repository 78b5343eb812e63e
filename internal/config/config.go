// Package config loads process configuration from the environment with an
// optional YAML overlay file. Runtime-mutable settings live in the
// system_settings table instead and are not loaded here.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds process-level settings fixed at startup.
type Config struct {
	Env      string `yaml:"env"`
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	DBDriver string `yaml:"db_driver"`
	DBDSN    string `yaml:"db_dsn"`

	JWTSecret string `yaml:"jwt_secret"`
	JWTTTL    string `yaml:"jwt_ttl"`

	// AuthExchangeSecret authenticates the OAuth callback component that is
	// allowed to mint session tokens through /api/auth/signin.
	AuthExchangeSecret string `yaml:"auth_exchange_secret"`

	StorageURL    string `yaml:"storage_url"`
	StorageAPIKey string `yaml:"storage_api_key"`
}

// Load reads configuration from a YAML file named by PROMPTDESK_CONFIG when
// set, then lets environment variables override each field. Either source
// alone is enough.
func Load() (*Config, error) {
	cfg := &Config{
		Env:      "development",
		Port:     8080,
		LogLevel: "info",
		DBDriver: "postgres",
	}

	if path := os.Getenv("PROMPTDESK_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	overlayString(&cfg.Env, "APP_ENV")
	overlayString(&cfg.LogLevel, "LOG_LEVEL")
	overlayString(&cfg.DBDriver, "DB_DRIVER")
	overlayString(&cfg.DBDSN, "DB_DSN")
	overlayString(&cfg.JWTSecret, "JWT_SECRET")
	overlayString(&cfg.JWTTTL, "JWT_TTL")
	overlayString(&cfg.AuthExchangeSecret, "AUTH_EXCHANGE_SECRET")
	overlayString(&cfg.StorageURL, "STORAGE_URL")
	overlayString(&cfg.StorageAPIKey, "STORAGE_API_KEY")

	if raw := os.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", raw, err)
		}
		cfg.Port = port
	}

	if cfg.Env == "production" && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}
	if cfg.Env == "production" && cfg.AuthExchangeSecret == "" {
		return nil, fmt.Errorf("AUTH_EXCHANGE_SECRET is required in production")
	}

	return cfg, nil
}

// Apply exports the resolved values back into the environment for subsystems
// that read their configuration lazily (database pool, JWT manager, storage
// client). Environment variables already override the file in Load, so this
// never changes a value the operator set directly.
func (c *Config) Apply() {
	setEnv("APP_ENV", c.Env)
	setEnv("LOG_LEVEL", c.LogLevel)
	setEnv("DB_DRIVER", c.DBDriver)
	setEnv("DB_DSN", c.DBDSN)
	setEnv("JWT_SECRET", c.JWTSecret)
	setEnv("JWT_TTL", c.JWTTTL)
	setEnv("AUTH_EXCHANGE_SECRET", c.AuthExchangeSecret)
	setEnv("STORAGE_URL", c.StorageURL)
	setEnv("STORAGE_API_KEY", c.StorageAPIKey)
}

func setEnv(key, value string) {
	if value != "" {
		os.Setenv(key, value)
	}
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func overlayString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

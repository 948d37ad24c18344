package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// CORSOrigin is sent as Access-Control-Allow-Origin. Empty means "*".
	CORSOrigin string `yaml:"cors_origin"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	// Seed loads the stock exercises and templates at start-up.
	Seed bool `yaml:"seed"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type RateLimitConfig struct {
	// LoginPerMinute is the sustained login rate allowed per client IP.
	LoginPerMinute float64 `yaml:"login_per_minute"`
	Burst          int     `yaml:"burst"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// LoadEnvFile loads KEY=VALUE pairs from a .env file into the environment.
// Variables already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix WORKOUTBUDDY_ and underscore-separated paths:
//
//	WORKOUTBUDDY_SERVER_HOST, WORKOUTBUDDY_SERVER_PORT,
//	WORKOUTBUDDY_DB_HOST, WORKOUTBUDDY_DB_PORT, WORKOUTBUDDY_DB_NAME,
//	WORKOUTBUDDY_DB_USER, WORKOUTBUDDY_DB_PASSWORD, WORKOUTBUDDY_DB_SSLMODE,
//	WORKOUTBUDDY_JWT_SECRET, WORKOUTBUDDY_TOKEN_TTL,
//	WORKOUTBUDDY_TAILSCALE_ENABLED
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{Port: 5000},
		Auth:   AuthConfig{TokenTTL: 7 * 24 * time.Hour},
		RateLimit: RateLimitConfig{
			LoginPerMinute: 10,
			Burst:          5,
		},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WORKOUTBUDDY_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("WORKOUTBUDDY_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("WORKOUTBUDDY_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("WORKOUTBUDDY_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("WORKOUTBUDDY_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("WORKOUTBUDDY_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("WORKOUTBUDDY_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("WORKOUTBUDDY_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("WORKOUTBUDDY_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("WORKOUTBUDDY_TOKEN_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil {
			cfg.Auth.TokenTTL = ttl
		}
	}
	if v := os.Getenv("WORKOUTBUDDY_TAILSCALE_ENABLED"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = on
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if c.RateLimit.LoginPerMinute <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate_limit.login_per_minute and rate_limit.burst must be positive")
	}
	return nil
}

package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const devJWTSecret = "dev-secret-cambiar-en-produccion"

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Port     int    `mapstructure:"PORT"`
	Env      string `mapstructure:"APP_ENV"` // development | production
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Database: a postgres:// URL or a SQLite file path
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBDebug     bool   `mapstructure:"DB_DEBUG"`
	Migrations  bool   `mapstructure:"MIGRATIONS"`

	// Redis (optional; empty disables the price list cache)
	RedisURL        string `mapstructure:"REDIS_URL"`
	CacheTTLMinutes int    `mapstructure:"CACHE_TTL_MINUTES"`

	// Auth
	JWTSecret string `mapstructure:"JWT_SECRET"`

	// HTTP
	CORSOrigins        string `mapstructure:"CORS_ORIGINS"`
	RateLimitPerMinute int    `mapstructure:"RATE_LIMIT_PER_MINUTE"`

	// Business
	SeedDir       string `mapstructure:"SEED_DIR"`
	EmpresaNombre string `mapstructure:"EMPRESA_NOMBRE"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Sensible defaults for development
	viper.SetDefault("PORT", 8001)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "costeo.db")
	viper.SetDefault("DB_DEBUG", false)
	viper.SetDefault("MIGRATIONS", true)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("CACHE_TTL_MINUTES", 10)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:8001,http://127.0.0.1:8001")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 300)
	viper.SetDefault("SEED_DIR", ".")
	viper.SetDefault("EMPRESA_NOMBRE", "DCM")

	// Optional .env file for local development; does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SECRET es obligatorio en produccion")
		}
		cfg.JWTSecret = devJWTSecret
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

// Origenes splits CORS_ORIGINS on commas. "*" allows any origin.
func (c *Config) Origenes() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

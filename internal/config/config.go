package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	DriverMongo  = "mongo"
	DriverMySQL  = "mysql"
	DriverMemory = "memory"

	DefaultJWTSecret = "default-secret-key-change-in-production"
)

var ErrDefaultSecret = errors.New("JWT_SECRET must be set in production")

type Config struct {
	Port             string
	Env              string
	StoreDriver      string
	DBUrl            string
	DBName           string
	JWTSecret        string
	JWTExpire        time.Duration
	CookieExpireDays int
	RateLimit        float64
	RateBurst        int
	StaticDir        string
	LogLevel         string
	TrustedOrigins   []string
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// LoadConfig reads the environment, falling back to a .env file when present.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, using environment and defaults")
	}

	env := getEnv("APP_ENV", getEnv("NODE_ENV", "development"))
	defaultLevel := "info"
	if env == "development" {
		defaultLevel = "debug"
	}

	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		Env:            env,
		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
		DBUrl:          os.Getenv("DB_URL"),
		DBName:         getEnv("DB_NAME", "ecommerce"),
		JWTSecret:      getEnv("JWT_SECRET", DefaultJWTSecret),
		StaticDir:      getEnv("STATIC_DIR", "public"),
		LogLevel:       getEnv("LOG_LEVEL", defaultLevel),
		TrustedOrigins: splitList(getEnv("TRUSTED_ORIGINS", "*")),
	}

	var err error
	if cfg.JWTExpire, err = ParseDuration(getEnv("JWT_EXPIRE", "30d")); err != nil {
		return Config{}, fmt.Errorf("invalid JWT_EXPIRE: %w", err)
	}
	if cfg.CookieExpireDays, err = strconv.Atoi(getEnv("JWT_COOKIE_EXPIRE", "30")); err != nil {
		return Config{}, fmt.Errorf("invalid JWT_COOKIE_EXPIRE: %w", err)
	}
	if cfg.RateLimit, err = strconv.ParseFloat(getEnv("RATE_LIMIT", "10"), 64); err != nil {
		return Config{}, fmt.Errorf("invalid RATE_LIMIT: %w", err)
	}
	if cfg.RateBurst, err = strconv.Atoi(getEnv("RATE_BURST", "20")); err != nil {
		return Config{}, fmt.Errorf("invalid RATE_BURST: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo, DriverMySQL:
		if c.DBUrl == "" {
			return fmt.Errorf("DB_URL is required for the %s store", c.StoreDriver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.IsProduction() && c.JWTSecret == DefaultJWTSecret {
		return ErrDefaultSecret
	}
	if c.JWTExpire <= 0 {
		return errors.New("JWT_EXPIRE must be positive")
	}
	return nil
}

// ParseDuration accepts Go durations ("12h") and whole days ("30d").
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid day count %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Package config reads process configuration from the environment, after
// loading an optional .env file from the working directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devSecret = "dev-only-secret"

type Config struct {
	Port string

	MongoURI          string
	MongoDB           string
	MongoTransactions bool

	JWTSecret    string
	TokenTTL     time.Duration
	CookieMaxAge time.Duration
	CookieSecure bool

	// RedisAddr empty disables the response cache and the quota.
	RedisAddr  string
	CacheTTL   time.Duration
	QuotaLimit int

	CORSOrigin string
	LogLevel   string
	LogPretty  bool
	GinMode    string
}

// Load builds a Config from defaults overlaid by the environment. envFiles
// defaults to ".env"; a missing file is not an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	p := &parser{}
	cfg := &Config{
		Port:              getenv("PORT", "4000"),
		MongoURI:          getenv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDB:           getenv("MONGO_DB", "eventmanagement"),
		MongoTransactions: p.bool("MONGO_TRANSACTIONS", false),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		TokenTTL:          p.duration("TOKEN_TTL", 7*24*time.Hour),
		CookieMaxAge:      p.duration("COOKIE_MAX_AGE", 24*time.Hour),
		CookieSecure:      p.bool("COOKIE_SECURE", false),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		CacheTTL:          p.duration("CACHE_TTL", 30*time.Second),
		QuotaLimit:        p.int("QUOTA_LIMIT", 2000),
		CORSOrigin:        getenv("CORS_ORIGIN", "*"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		LogPretty:         p.bool("LOG_PRETTY", false),
		GinMode:           os.Getenv("GIN_MODE"),
	}
	if p.err != nil {
		return nil, p.err
	}

	if cfg.JWTSecret == "" {
		if cfg.GinMode == "release" {
			return nil, errors.New("JWT_SECRET must be set in release mode")
		}
		cfg.JWTSecret = devSecret
	}
	return cfg, nil
}

// UsingDevSecret reports whether the built-in development secret is in use.
func (c *Config) UsingDevSecret() bool { return c.JWTSecret == devSecret }

func (c *Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// parser keeps the first conversion error so Load can report it once.
type parser struct{ err error }

func (p *parser) fail(k, v string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s=%q: %w", k, v, err)
	}
}

func (p *parser) duration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(k, v, err)
		return def
	}
	return d
}

func (p *parser) int(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(k, v, err)
		return def
	}
	return n
}

func (p *parser) bool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(k, v, err)
		return def
	}
	return b
}

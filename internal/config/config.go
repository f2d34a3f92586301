package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int
	// DBURL is empty when no database is configured; the in-memory store is used then.
	DBURL  string
	Secret string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	CORSAllowedOrigins []string
	MaxBodyBytes       int64

	MetricsEnabled bool
	OTLPEndpoint   string

	RootUsername string
	RootPassword string
	RootName     string
}

// Load reads the process configuration once. A .env file in the working
// directory is honoured but never required.
func Load() Config {
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "dev")

	return Config{
		Env:                env,
		Port:               getEnvInt("PORT", 3003),
		DBURL:              dbURLFor(env),
		Secret:             getEnv("SECRET", ""),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		CacheTTL:           time.Duration(getEnvInt("CACHE_TTL_SECONDS", 30)) * time.Second,
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
		MetricsEnabled:     getEnvBool("METRICS_ENABLED", true),
		OTLPEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		RootUsername:       getEnv("ROOT_USERNAME", ""),
		RootPassword:       getEnv("ROOT_PASSWORD", ""),
		RootName:           getEnv("ROOT_NAME", ""),
	}
}

// Validate reports configuration that would make the server unusable.
func (c Config) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("config: SECRET must be set")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid PORT %d", c.Port)
	}
	return nil
}

// tests run against their own database
func dbURLFor(env string) string {
	if env == "test" {
		return getEnv("TEST_DATABASE_URL", "")
	}
	return getEnv("DATABASE_URL", "")
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %s=%q is not an integer, using %d\n", key, v, fallback)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return b
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	out := make([]string, 0)
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

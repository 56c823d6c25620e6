package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseDriver  string
	DatabaseURL     string
	RedisURL        string
	PageCacheTTL    time.Duration
	OpenAIKey       string
	OpenAIModel     string
	MetricsPort     string
	HTTPAddr        string
	FetchTimeout    time.Duration
	RequestDelay    time.Duration
	RequestJitter   time.Duration
	BotBlockBackoff time.Duration
	UserAgent       string
	LogLevel        string
	LogFormat       string
}

func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		DatabaseDriver:  getEnv("DATABASE_DRIVER", "sqlite"),
		DatabaseURL:     getEnv("DATABASE_URL", "catalogsync.db"),
		RedisURL:        os.Getenv("REDIS_URL"),
		PageCacheTTL:    getDuration("PAGE_CACHE_TTL", 6*time.Hour),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		MetricsPort:     os.Getenv("METRICS_PORT"), // empty: no metrics listener
		HTTPAddr:        getEnv("HTTP_ADDR", ":3001"),
		FetchTimeout:    getDuration("FETCH_TIMEOUT", 30*time.Second),
		RequestDelay:    getDuration("REQUEST_DELAY", time.Second),
		RequestJitter:   getDuration("REQUEST_JITTER", 500*time.Millisecond),
		BotBlockBackoff: getDuration("BOT_BLOCK_BACKOFF", 30*time.Second),
		UserAgent:       os.Getenv("USER_AGENT"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       strings.ToLower(getEnv("LOG_FORMAT", "console")),
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// getDuration reads a Go duration ("2s", "1m30s"); a malformed value
// falls back to d.
func getDuration(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	parsed, err := time.ParseDuration(v)
	if err != nil || parsed < 0 {
		return d
	}
	return parsed
}

package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"polymer-kinetics-api/internal/upstream"
)

type Config struct {
	Addr            string
	UpstreamBaseURL string
	UpstreamTimeout time.Duration
	RequestTimeout  time.Duration
	UserAgent       string
	StaticDir       string
	LogLevel        string
}

func Load() *Config {
	// a missing .env is fine, the environment alone is enough
	_ = godotenv.Load()
	return &Config{
		Addr:            getEnv("ADDR", ":8080"),
		UpstreamBaseURL: getEnv("UPSTREAM_BASE_URL", upstream.DefaultBaseURL),
		UpstreamTimeout: getDuration("UPSTREAM_TIMEOUT", 30*time.Second),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 120*time.Second),
		UserAgent:       getEnv("USER_AGENT", "polymer-kinetics-api/1.0"),
		StaticDir:       getEnv("STATIC_DIR", "static"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

// UpstreamOptions returns the client options derived from c.
func (c *Config) UpstreamOptions() upstream.Options {
	return upstream.Options{
		BaseURL:   c.UpstreamBaseURL,
		Timeout:   c.UpstreamTimeout,
		UserAgent: c.UserAgent,
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getDuration(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	parsed, err := time.ParseDuration(v)
	if err != nil || parsed <= 0 {
		return d
	}
	return parsed
}

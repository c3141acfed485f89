package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds gateway listener, proxy, cache and upstream timeout settings.
// Load from env; call LoadEnvFile(".env") before Load() to use a .env file.
type Config struct {
	// Listen is the local address the gateway binds to, e.g. ":8080".
	Listen string

	// DefaultProxyURL is the base URL prepended to /image-proxy and
	// /stream-proxy rewrites when the request doesn't carry proxy_url.
	// Empty means "use the request's own origin".
	DefaultProxyURL string

	// DNSServers are optional resolver addresses ("1.1.1.1", "8.8.8.8:53")
	// used instead of the system resolver for upstream lookups.
	DNSServers []string

	// Fetch cache
	CacheSize int           // bounded in-memory entries; 0 disables caching
	RedisURL  string        // optional second cache tier; "" = disabled
	RedisTTL  time.Duration // TTL for Redis entries (Redis outlives the process)

	// Upstream timeouts. Category lists are small; stream/series lists on big
	// providers run to tens of MB, hence the much longer budgets.
	AuthTimeout     time.Duration
	CategoryTimeout time.Duration
	StreamTimeout   time.Duration
	GuideTimeout    time.Duration

	// Relay
	RelayTimeout   time.Duration // connect + response-header budget per relay call
	RelayChunkSize int           // copy buffer for relayed bodies

	// Orchestrator worker pool (independent of endpoint count).
	FetchConcurrency int

	// Per-client rate limit on catalog endpoints. RPS <= 0 disables limiting.
	RateLimitRPS   float64
	RateLimitBurst int

	// LogLevel is a logrus level name ("debug", "info", "warn", ...).
	LogLevel string
}

// Load reads config from environment with defaults that match the service's
// documented behavior.
func Load() *Config {
	c := &Config{
		Listen:           getEnv("GATEWAY_LISTEN", ":8080"),
		DefaultProxyURL:  strings.TrimSuffix(os.Getenv("GATEWAY_PROXY_URL"), "/"),
		DNSServers:       splitList(os.Getenv("GATEWAY_DNS_SERVERS")),
		CacheSize:        getEnvInt("GATEWAY_CACHE_SIZE", 128),
		RedisURL:         os.Getenv("GATEWAY_REDIS_URL"),
		RedisTTL:         getEnvDuration("GATEWAY_REDIS_TTL", time.Hour),
		AuthTimeout:      getEnvDuration("GATEWAY_AUTH_TIMEOUT", 10*time.Second),
		CategoryTimeout:  getEnvDuration("GATEWAY_CATEGORY_TIMEOUT", 60*time.Second),
		StreamTimeout:    getEnvDuration("GATEWAY_STREAM_TIMEOUT", 240*time.Second),
		GuideTimeout:     getEnvDuration("GATEWAY_GUIDE_TIMEOUT", 20*time.Second),
		RelayTimeout:     getEnvDuration("GATEWAY_RELAY_TIMEOUT", 10*time.Second),
		RelayChunkSize:   getEnvInt("GATEWAY_RELAY_CHUNK", 64*1024),
		FetchConcurrency: getEnvInt("GATEWAY_FETCH_CONCURRENCY", 10),
		RateLimitRPS:     getEnvFloat("GATEWAY_RATE_LIMIT_RPS", 0),
		RateLimitBurst:   getEnvInt("GATEWAY_RATE_LIMIT_BURST", 20),
		LogLevel:         getEnv("GATEWAY_LOG_LEVEL", "info"),
	}
	if c.CacheSize < 0 {
		c.CacheSize = 0
	}
	if c.FetchConcurrency <= 0 {
		c.FetchConcurrency = 10
	}
	if c.RelayChunkSize <= 0 {
		c.RelayChunkSize = 64 * 1024
	}
	if c.RateLimitBurst <= 0 {
		c.RateLimitBurst = 1
	}
	return c
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		// Bare numbers are accepted as seconds ("60" == "60s").
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return time.Duration(n) * time.Second
		}
	}
	return defaultVal
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Listen != ":8080" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.CacheSize != 128 {
		t.Errorf("CacheSize = %d", cfg.CacheSize)
	}
	if cfg.CategoryTimeout != 60*time.Second || cfg.StreamTimeout != 240*time.Second {
		t.Errorf("timeouts = %v / %v", cfg.CategoryTimeout, cfg.StreamTimeout)
	}
	if cfg.FetchConcurrency != 10 {
		t.Errorf("FetchConcurrency = %d", cfg.FetchConcurrency)
	}
	if cfg.RateLimitRPS != 0 {
		t.Errorf("rate limiting should default off, got %v", cfg.RateLimitRPS)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GATEWAY_LISTEN", ":9999")
	t.Setenv("GATEWAY_PROXY_URL", "http://gw.example/")
	t.Setenv("GATEWAY_DNS_SERVERS", "1.1.1.1, 8.8.8.8:53")
	t.Setenv("GATEWAY_CATEGORY_TIMEOUT", "90s")
	t.Setenv("GATEWAY_STREAM_TIMEOUT", "300") // bare seconds
	t.Setenv("GATEWAY_RATE_LIMIT_RPS", "2.5")

	cfg := Load()
	if cfg.Listen != ":9999" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.DefaultProxyURL != "http://gw.example" {
		t.Errorf("trailing slash not trimmed: %q", cfg.DefaultProxyURL)
	}
	if len(cfg.DNSServers) != 2 || cfg.DNSServers[0] != "1.1.1.1" || cfg.DNSServers[1] != "8.8.8.8:53" {
		t.Errorf("DNSServers = %v", cfg.DNSServers)
	}
	if cfg.CategoryTimeout != 90*time.Second {
		t.Errorf("CategoryTimeout = %v", cfg.CategoryTimeout)
	}
	if cfg.StreamTimeout != 300*time.Second {
		t.Errorf("bare-second duration not accepted: %v", cfg.StreamTimeout)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Errorf("RateLimitRPS = %v", cfg.RateLimitRPS)
	}
}

func TestLoadSanitizesBadValues(t *testing.T) {
	t.Setenv("GATEWAY_CACHE_SIZE", "-5")
	t.Setenv("GATEWAY_FETCH_CONCURRENCY", "0")
	t.Setenv("GATEWAY_AUTH_TIMEOUT", "not-a-duration")

	cfg := Load()
	if cfg.CacheSize != 0 {
		t.Errorf("negative cache size should clamp to 0, got %d", cfg.CacheSize)
	}
	if cfg.FetchConcurrency != 10 {
		t.Errorf("zero concurrency should fall back, got %d", cfg.FetchConcurrency)
	}
	if cfg.AuthTimeout != 10*time.Second {
		t.Errorf("unparseable duration should keep default, got %v", cfg.AuthTimeout)
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := `# comment
GATEWAY_LISTEN=:7000
export GATEWAY_PROXY_URL="http://quoted.example"
BROKEN LINE
GATEWAY_REDIS_URL='redis://localhost:6379/1'
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GATEWAY_LISTEN", "")
	t.Setenv("GATEWAY_PROXY_URL", "")
	t.Setenv("GATEWAY_REDIS_URL", "")

	if err := LoadEnvFile(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("GATEWAY_LISTEN"); got != ":7000" {
		t.Errorf("GATEWAY_LISTEN = %q", got)
	}
	if got := os.Getenv("GATEWAY_PROXY_URL"); got != "http://quoted.example" {
		t.Errorf("quotes not stripped: %q", got)
	}
	if got := os.Getenv("GATEWAY_REDIS_URL"); got != "redis://localhost:6379/1" {
		t.Errorf("single quotes not stripped: %q", got)
	}
}

func TestLoadEnvFileMissing(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Errorf("missing file should be a no-op, got %v", err)
	}
}

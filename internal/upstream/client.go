// Package upstream talks to the Xtream provider: a cached fetch primitive
// with tagged transport errors, the per-request fan-out that pulls catalog
// endpoints concurrently, and the one-shot credential validator.
package upstream

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iptvgw/xtream-gateway/internal/httpclient"
	"github.com/iptvgw/xtream-gateway/internal/metrics"
)

// Browser-like identity: several providers sit behind Cloudflare and block
// default Go / python-requests user agents.
const (
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptHeader   = "application/json,text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	acceptLanguage = "en-US,en;q=0.5"
)

// Options configures a Fetcher.
type Options struct {
	CacheSize   int         // in-memory LRU entries; 0 disables
	Redis       *RedisCache // optional second tier; nil disables
	Concurrency int         // FetchAll worker pool size; default 10
	Log         *logrus.Logger
}

// Fetcher is the upstream fetch primitive. It owns its bounded cache
// explicitly, with no package-level state, so tests and multiple instances
// don't share entries. Safe for concurrent use by in-flight requests.
type Fetcher struct {
	cache       *lruCache
	redis       *RedisCache
	concurrency int
	log         *logrus.Logger
}

func NewFetcher(opts Options) *Fetcher {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 10
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	return &Fetcher{
		cache:       newLRUCache(opts.CacheSize),
		redis:       opts.Redis,
		concurrency: opts.Concurrency,
		log:         opts.Log,
	}
}

// Fetch GETs rawURL with the given per-call timeout and returns the body.
// Identical (url, timeout) pairs may be served from cache. Transport
// failures come back as tagged errors (ErrSSL, ErrNetwork, ErrTimeout),
// never as raw *url.Error values.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	key := timeout.String() + "|" + rawURL

	if body, ok := f.cache.Get(key); ok {
		metrics.CacheHits.WithLabelValues("memory").Inc()
		return body, nil
	}
	if body, ok := f.redis.Get(ctx, key); ok {
		metrics.CacheHits.WithLabelValues("redis").Inc()
		f.cache.Put(key, body)
		return body, nil
	}
	metrics.CacheMisses.Inc()

	start := time.Now()
	body, err := f.doFetch(ctx, rawURL, timeout)
	metrics.UpstreamDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(errLabel(err)).Inc()
		return nil, err
	}
	metrics.UpstreamRequests.WithLabelValues("ok").Inc()

	f.cache.Put(key, body)
	f.redis.Put(ctx, key, body)
	return body, nil
}

func (f *Fetcher) doFetch(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", acceptLanguage)

	resp, err := httpclient.DoWithRetry(ctx, httpclient.WithTimeout(timeout), req, httpclient.DefaultRetryPolicy)
	if err != nil {
		return nil, tagTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, tagTransportError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: provider returned HTTP %d", ErrNetwork, resp.StatusCode)
	}
	return body, nil
}

// tagTransportError maps a transport failure onto the error taxonomy.
// Certificate problems are checked before the generic timeout/net cases so
// an SSL failure doesn't get reported as a plain network error.
func tagTransportError(err error) error {
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return fmt.Errorf("%w: %v", ErrSSL, err)
	}
	var unknownAuth x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	if errors.As(err, &unknownAuth) || errors.As(err, &hostnameErr) {
		return fmt.Errorf("%w: %v", ErrSSL, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

func errLabel(err error) string {
	switch {
	case errors.Is(err, ErrSSL):
		return "ssl"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	default:
		return "network"
	}
}

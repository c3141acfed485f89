package httpclient

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"
)

const (
	DefaultTimeout         = 30 * time.Second
	DefaultIdleConnTimeout = 90 * time.Second
	MaxIdleConnsPerHost    = 16
)

var (
	mu            sync.RWMutex
	defaultClient *http.Client
)

func init() {
	defaultClient = buildClient(nil)
}

// Configure rebuilds the shared client with the given DNS servers. Call once
// at startup, before any request. An empty list keeps the system resolver.
// IP-literal hosts never hit the resolver either way.
func Configure(dnsServers []string) {
	mu.Lock()
	defaultClient = buildClient(dnsServers)
	mu.Unlock()
}

func buildClient(dnsServers []string) *http.Client {
	return &http.Client{
		Timeout: DefaultTimeout,
		Transport: &http.Transport{
			DialContext:         dialer(dnsServers).DialContext,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: MaxIdleConnsPerHost,
			IdleConnTimeout:     DefaultIdleConnTimeout,
		},
	}
}

// dialer returns a net.Dialer bound to the given DNS servers. When servers is
// empty the system resolver is used. Servers without a port get :53.
func dialer(servers []string) *net.Dialer {
	d := &net.Dialer{Timeout: 10 * time.Second}
	if len(servers) == 0 {
		return d
	}
	addrs := make([]string, 0, len(servers))
	for _, s := range servers {
		if _, _, err := net.SplitHostPort(s); err != nil {
			s = net.JoinHostPort(s, "53")
		}
		addrs = append(addrs, s)
	}
	d.Resolver = &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, _ string) (net.Conn, error) {
			rd := net.Dialer{Timeout: 5 * time.Second}
			var lastErr error
			for _, addr := range addrs {
				conn, err := rd.DialContext(ctx, network, addr)
				if err == nil {
					return conn, nil
				}
				lastErr = err
			}
			return nil, lastErr
		},
	}
	return d
}

// Default returns the shared tuned HTTP client used for catalog fetches.
func Default() *http.Client {
	mu.RLock()
	defer mu.RUnlock()
	return defaultClient
}

// WithTimeout returns a client with the given overall timeout sharing the
// default transport (connection pool and resolver included).
func WithTimeout(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: Default().Transport,
	}
}

// Streaming returns a client with no overall timeout but a bounded
// response-header wait, for relaying bodies of unknown length. The body copy
// is cut by the caller's context, not by a client deadline.
func Streaming(headerTimeout time.Duration) *http.Client {
	t, ok := Default().Transport.(*http.Transport)
	if !ok {
		return &http.Client{}
	}
	tc := t.Clone()
	tc.ResponseHeaderTimeout = headerTimeout
	return &http.Client{Transport: tc}
}

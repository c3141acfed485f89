package upstream

import "errors"

// Transport failures are converted to these tagged values at the fetch
// boundary; raw *url.Error / tls errors never cross it. The HTTP layer maps
// tags to status codes: SSL and network 503, timeout 504, invalid
// response 400.
var (
	// ErrSSL: certificate verification failed. Reported distinctly from
	// generic transport failure so operators can tell a broken provider cert
	// from a dead host.
	ErrSSL = errors.New("ssl verification failed")

	// ErrNetwork: DNS, connect, read or HTTP-level failure.
	ErrNetwork = errors.New("network error")

	// ErrTimeout: the fetch exceeded its per-call deadline.
	ErrTimeout = errors.New("timeout")

	// ErrInvalidResponse: the provider answered but the payload lacks the
	// required shape (player_api without user_info/server_info).
	ErrInvalidResponse = errors.New("invalid response")
)

// Package relay streams upstream bytes (channel logos, media) through the
// gateway so clients never talk to the provider directly. Responses are
// copied chunk-wise and flushed; media sessions run for hours, so nothing
// here buffers a whole body.
package relay

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iptvgw/xtream-gateway/internal/httpclient"
	"github.com/iptvgw/xtream-gateway/internal/metrics"
)

type Relay struct {
	client    *http.Client
	chunkSize int
	log       *logrus.Logger
}

// New builds a relay whose upstream client times out waiting for response
// headers but never on the body: a live stream has no natural deadline.
func New(headerTimeout time.Duration, chunkSize int, log *logrus.Logger) *Relay {
	if chunkSize <= 0 {
		chunkSize = 64 * 1024
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Relay{
		client:    httpclient.Streaming(headerTimeout),
		chunkSize: chunkSize,
		log:       log,
	}
}

// ValidTarget reports whether a decoded relay target is an absolute
// http(s) URL. Anything else (file:, scheme-relative, garbage) is refused
// before a request is ever built from it.
func ValidTarget(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ServeImage proxies one image. The upstream content type must be image/*;
// anything else is refused with 415 so a provider error page can't end up
// rendered as a channel logo.
func (rl *Relay) ServeImage(w http.ResponseWriter, r *http.Request, target string) {
	rl.serve(w, r, target, "image", func(resp *http.Response) (string, bool) {
		ct := resp.Header.Get("Content-Type")
		if !strings.HasPrefix(ct, "image/") {
			return "", false
		}
		return ct, true
	})
}

// ServeStream proxies one media stream. The content type is taken from
// upstream when present and otherwise inferred from the target extension.
func (rl *Relay) ServeStream(w http.ResponseWriter, r *http.Request, target string) {
	rl.serve(w, r, target, "stream", func(resp *http.Response) (string, bool) {
		if ct := resp.Header.Get("Content-Type"); ct != "" {
			return ct, true
		}
		return inferContentType(target), true
	})
}

func (rl *Relay) serve(w http.ResponseWriter, r *http.Request, target, kind string, contentType func(*http.Response) (string, bool)) {
	if !ValidTarget(target) {
		http.Error(w, "invalid relay target", http.StatusBadRequest)
		return
	}

	release := httpclient.RelayHostSem.Acquire(target)
	defer release()

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
	if err != nil {
		http.Error(w, "invalid relay target", http.StatusBadRequest)
		return
	}
	if rng := r.Header.Get("Range"); rng != "" {
		req.Header.Set("Range", rng)
	}

	resp, err := rl.client.Do(req)
	if err != nil {
		status := http.StatusBadGateway
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			status = http.StatusGatewayTimeout
		}
		rl.log.WithField("kind", kind).WithError(err).Warn("relay upstream failed")
		http.Error(w, fmt.Sprintf("upstream fetch failed: %v", err), status)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		http.Error(w, fmt.Sprintf("upstream returned HTTP %d", resp.StatusCode), resp.StatusCode)
		return
	}

	ct, ok := contentType(resp)
	if !ok {
		http.Error(w, "upstream did not return an image", http.StatusUnsupportedMediaType)
		return
	}

	w.Header().Set("Content-Type", ct)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		w.Header().Set("Content-Length", cl)
	}
	w.WriteHeader(resp.StatusCode)
	rl.copyBody(w, resp.Body, kind)
}

// copyBody relays in fixed-size chunks, flushing after each so media
// players start instantly instead of waiting on Go's response buffering.
// Client disconnects surface as write errors and just end the copy.
func (rl *Relay) copyBody(w http.ResponseWriter, body io.Reader, kind string) {
	flusher, _ := w.(http.Flusher)
	buf := make([]byte, rl.chunkSize)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return
			}
			metrics.RelayBytes.WithLabelValues(kind).Add(float64(n))
			if flusher != nil {
				flusher.Flush()
			}
		}
		if err != nil {
			if err != io.EOF {
				rl.log.WithField("kind", kind).WithError(err).Debug("relay copy ended")
			}
			return
		}
	}
}

func inferContentType(target string) string {
	ext := strings.ToLower(path.Ext(stripQuery(target)))
	switch ext {
	case ".ts":
		return "video/MP2T"
	case ".m3u8":
		return "application/vnd.apple.mpegurl"
	default:
		return "application/octet-stream"
	}
}

func stripQuery(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i]
	}
	return raw
}

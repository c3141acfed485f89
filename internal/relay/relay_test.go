package relay

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testRelay() *Relay {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return New(2*time.Second, 8*1024, log)
}

func TestServeImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/logo.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte("pngbytes"))
		case "/page.html":
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html>not an image</html>"))
		default:
			http.Error(w, "missing", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	rl := testRelay()

	t.Run("image passthrough", func(t *testing.T) {
		rec := httptest.NewRecorder()
		rl.ServeImage(rec, httptest.NewRequest(http.MethodGet, "/image-proxy/x", nil), srv.URL+"/logo.png")
		if rec.Code != http.StatusOK || rec.Body.String() != "pngbytes" {
			t.Fatalf("got %d %q", rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("Content-Type = %q", ct)
		}
		if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("missing CORS header")
		}
	})

	t.Run("non-image content type", func(t *testing.T) {
		rec := httptest.NewRecorder()
		rl.ServeImage(rec, httptest.NewRequest(http.MethodGet, "/image-proxy/x", nil), srv.URL+"/page.html")
		if rec.Code != http.StatusUnsupportedMediaType {
			t.Errorf("status = %d, want 415", rec.Code)
		}
	})

	t.Run("upstream status propagated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		rl.ServeImage(rec, httptest.NewRequest(http.MethodGet, "/image-proxy/x", nil), srv.URL+"/gone.png")
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want upstream's 404", rec.Code)
		}
	})

	t.Run("invalid target", func(t *testing.T) {
		for _, target := range []string{"file:///etc/passwd", "not-a-url", "//host/x", ""} {
			rec := httptest.NewRecorder()
			rl.ServeImage(rec, httptest.NewRequest(http.MethodGet, "/image-proxy/x", nil), target)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("target %q: status = %d, want 400", target, rec.Code)
			}
		}
	})
}

func TestServeStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Range") != "" {
			w.Header().Set("Content-Type", "video/MP2T")
			w.WriteHeader(http.StatusPartialContent)
			w.Write([]byte("partial"))
			return
		}
		w.Header().Set("Content-Type", "video/MP2T")
		w.Write([]byte(strings.Repeat("x", 32*1024)))
	}))
	defer srv.Close()

	rl := testRelay()

	t.Run("body relayed in full", func(t *testing.T) {
		rec := httptest.NewRecorder()
		rl.ServeStream(rec, httptest.NewRequest(http.MethodGet, "/stream-proxy/x", nil), srv.URL+"/seg.ts")
		if rec.Code != http.StatusOK || rec.Body.Len() != 32*1024 {
			t.Fatalf("got %d, %d bytes", rec.Code, rec.Body.Len())
		}
		if ct := rec.Header().Get("Content-Type"); ct != "video/MP2T" {
			t.Errorf("Content-Type = %q", ct)
		}
	})

	t.Run("range forwarded", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/stream-proxy/x", nil)
		req.Header.Set("Range", "bytes=0-99")
		rec := httptest.NewRecorder()
		rl.ServeStream(rec, req, srv.URL+"/seg.ts")
		if rec.Code != http.StatusPartialContent || rec.Body.String() != "partial" {
			t.Errorf("got %d %q, want 206 partial", rec.Code, rec.Body.String())
		}
	})
}

func TestServeStreamHeaderTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	rl := New(50*time.Millisecond, 1024, log)

	rec := httptest.NewRecorder()
	rl.ServeStream(rec, httptest.NewRequest(http.MethodGet, "/stream-proxy/x", nil), srv.URL+"/slow.ts")
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", rec.Code)
	}
}

func TestInferContentType(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"http://h/seg.ts", "video/MP2T"},
		{"http://h/list.m3u8?token=1", "application/vnd.apple.mpegurl"},
		{"http://h/blob", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := inferContentType(tt.target); got != tt.want {
			t.Errorf("inferContentType(%q) = %q, want %q", tt.target, got, tt.want)
		}
	}
}

func TestValidTarget(t *testing.T) {
	valid := []string{"http://host/a", "https://host:8080/b?c=d"}
	invalid := []string{"", "ftp://host/a", "host/a", "/relative", "http://"}
	for _, v := range valid {
		if !ValidTarget(v) {
			t.Errorf("ValidTarget(%q) = false", v)
		}
	}
	for _, v := range invalid {
		if ValidTarget(v) {
			t.Errorf("ValidTarget(%q) = true", v)
		}
	}
}

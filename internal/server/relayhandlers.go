package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// relayTarget recovers the upstream URL from the request path. The target
// was query-escaped into a single segment, so it has to come from the raw
// escaped path; gin's wildcard param would hand back a pre-decoded string
// with its slashes already expanded.
func relayTarget(c *gin.Context, prefix string) (string, bool) {
	escaped := strings.TrimPrefix(c.Request.URL.EscapedPath(), prefix)
	if escaped == "" || escaped == c.Request.URL.EscapedPath() {
		c.String(http.StatusBadRequest, "missing relay target")
		return "", false
	}
	target, err := url.QueryUnescape(escaped)
	if err != nil {
		c.String(http.StatusBadRequest, "malformed relay target")
		return "", false
	}
	return target, true
}

func (s *Server) handleImageRelay(c *gin.Context) {
	target, ok := relayTarget(c, "/image-proxy/")
	if !ok {
		return
	}
	s.relay.ServeImage(c.Writer, c.Request, target)
}

func (s *Server) handleStreamRelay(c *gin.Context) {
	target, ok := relayTarget(c, "/stream-proxy/")
	if !ok {
		return
	}
	s.relay.ServeStream(c.Writer, c.Request, target)
}

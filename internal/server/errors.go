package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iptvgw/xtream-gateway/internal/catalog"
	"github.com/iptvgw/xtream-gateway/internal/upstream"
)

// apiError converts a tagged pipeline error into the JSON error object.
// Transport failures are 503/504 (the provider, not the caller, is the
// problem); malformed responses are 400; a list endpoint returning
// something other than a list is the provider misbehaving badly enough to
// be a 500.
func (s *Server) apiError(c *gin.Context, err error) {
	kind, status := "API Fetch Error", http.StatusInternalServerError
	switch {
	case errors.Is(err, upstream.ErrSSL):
		kind, status = "SSL Error", http.StatusServiceUnavailable
	case errors.Is(err, upstream.ErrTimeout):
		kind, status = "Timeout", http.StatusGatewayTimeout
	case errors.Is(err, upstream.ErrNetwork):
		kind, status = "Request Exception", http.StatusServiceUnavailable
	case errors.Is(err, upstream.ErrInvalidResponse):
		kind, status = "Invalid Response", http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotList):
		kind, status = "Invalid Data Format", http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"error": kind, "details": err.Error()})
}

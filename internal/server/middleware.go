package server

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/iptvgw/xtream-gateway/internal/metrics"
)

// requestLog logs one structured line per request after it completes.
// Relay routes log at debug; a single playlist load triggers hundreds of
// them and they would drown everything else at info.
func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := s.log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start).Round(time.Millisecond),
			"client":  c.ClientIP(),
		})
		if route := c.FullPath(); route == "/image-proxy/*target" || route == "/stream-proxy/*target" {
			entry.Debug("request")
			return
		}
		entry.Info("request")
	}
}

func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// rateLimit applies a per-client token bucket to the catalog endpoints.
// Disabled (no-op) when the configured rate is zero. Limiter entries are
// kept per client IP and never expire; catalog clients are few and stable.
func (s *Server) rateLimit() gin.HandlerFunc {
	if s.cfg.RateLimitRPS <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		mu.Lock()
		lim, ok := limiters[ip]
		if !ok {
			lim = rate.NewLimiter(rate.Limit(s.cfg.RateLimitRPS), s.cfg.RateLimitBurst)
			limiters[ip] = lim
		}
		mu.Unlock()

		if !lim.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "Too Many Requests",
				"details": "rate limit exceeded, retry later",
			})
			return
		}
		c.Next()
	}
}

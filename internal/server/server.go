// Package server is the gateway's HTTP surface: catalog endpoints, the two
// relay routes, and the operational endpoints (/healthz, /metrics).
package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/iptvgw/xtream-gateway/internal/config"
	"github.com/iptvgw/xtream-gateway/internal/relay"
	"github.com/iptvgw/xtream-gateway/internal/upstream"
)

type Server struct {
	cfg     *config.Config
	fetcher *upstream.Fetcher
	relay   *relay.Relay
	redis   *upstream.RedisCache
	log     *logrus.Logger
}

func New(cfg *config.Config, fetcher *upstream.Fetcher, rl *relay.Relay, redis *upstream.RedisCache, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{cfg: cfg, fetcher: fetcher, relay: rl, redis: redis, log: log}
}

// Router assembles the gin engine. Catalog endpoints sit behind the rate
// limiter; relay routes don't, since one playlist load fans out into
// hundreds of logo fetches from the same client.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())
	r.Use(s.requestLog())
	r.Use(s.observe())

	catalog := r.Group("/", s.rateLimit())
	catalog.GET("/categories", s.handleCategories)
	catalog.GET("/m3u", s.handleM3U)
	catalog.GET("/xmltv", s.handleXMLTV)

	r.GET("/image-proxy/*target", s.handleImageRelay)
	r.GET("/stream-proxy/*target", s.handleStreamRelay)

	r.GET("/healthz", s.handleHealthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func (s *Server) handleHealthz(c *gin.Context) {
	status := gin.H{"status": "ok"}
	if s.redis != nil {
		if err := s.redis.Ping(c.Request.Context()); err != nil {
			status["redis"] = "unreachable"
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
		status["redis"] = "ok"
	}
	c.JSON(http.StatusOK, status)
}

// Command xtream-gateway serves filtered M3U playlists, XMLTV guides and
// image/stream relays in front of an Xtream-style IPTV provider.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/iptvgw/xtream-gateway/internal/config"
	"github.com/iptvgw/xtream-gateway/internal/httpclient"
	"github.com/iptvgw/xtream-gateway/internal/relay"
	"github.com/iptvgw/xtream-gateway/internal/server"
	"github.com/iptvgw/xtream-gateway/internal/upstream"
)

func main() {
	_ = config.LoadEnvFile(".env")
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if log.GetLevel() >= logrus.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	if len(cfg.DNSServers) > 0 {
		httpclient.Configure(cfg.DNSServers)
		log.WithField("servers", cfg.DNSServers).Info("using custom DNS resolvers")
	}

	redis, err := upstream.NewRedisCache(cfg.RedisURL, cfg.RedisTTL, log)
	if err != nil {
		log.WithError(err).Fatal("redis cache init failed")
	}
	fetcher := upstream.NewFetcher(upstream.Options{
		CacheSize:   cfg.CacheSize,
		Redis:       redis,
		Concurrency: cfg.FetchConcurrency,
		Log:         log,
	})
	rl := relay.New(cfg.RelayTimeout, cfg.RelayChunkSize, log)

	srv := server.New(cfg, fetcher, rl, redis, log)
	httpSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("listen", cfg.Listen).Info("gateway listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listener failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("shutdown incomplete, closing")
		_ = httpSrv.Close()
	}
}

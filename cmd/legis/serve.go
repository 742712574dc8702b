package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jon-the-dev/data-dot-gov-sub000/internal/api"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/cache"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/query"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analytics API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		responseCache := buildCache(cmd.Context())
		defer responseCache.Close()

		svc := query.NewService(store, logger)
		handler := api.NewAnalyticsHandler(svc, responseCache, cfg.Congress, logger)
		server := api.NewServer(cfg.API.Addr, api.NewRouter(handler, logger), logger)

		errCh := make(chan error, 1)
		go func() { errCh <- server.Start() }()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-sigCh:
			logger.WithField("signal", sig.String()).Info("shutting down")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}

// buildCache picks redis when configured, falling back to the in-process
// TTL cache on any failure.
func buildCache(ctx context.Context) cache.Cache {
	ttl := cfg.Cache.TTL
	if ttl <= 0 {
		ttl = cfg.API.CacheTTL
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	if cfg.Cache.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, ttl, logger)
		if err == nil {
			return redisCache
		}
		logger.WithError(err).Warn("redis unavailable, using in-process cache")
	}
	return cache.NewMemoryCache(ttl)
}

package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"moodify/pkg/config"
	"moodify/pkg/metrics"
	"moodify/pkg/recommend"
	"moodify/pkg/spotify"
)

// app bundles the long-lived dependencies shared by both commands.
type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	registry *prometheus.Registry
	resolver *recommend.Resolver
	redis    *redis.Client
}

func (a *app) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

// wire builds the resolver from cfg. Without client credentials the resolver
// has no service path and only signed-in callers reach the catalog.
func wire(ctx context.Context, cfg *config.Config, log *logrus.Logger) *app {
	a := &app{cfg: cfg, log: log, registry: prometheus.NewRegistry()}
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.New(a.registry)

	catalog := spotify.NewClient(&http.Client{Timeout: cfg.SpotifyTimeout}, cfg.SpotifyAPIURL)

	var service recommend.CredentialSource
	if cfg.HasSpotifyCredentials() {
		opts := []spotify.CredentialOption{
			spotify.WithMetrics(rec),
			spotify.WithLogger(log),
		}
		if store := a.tokenStore(ctx); store != nil {
			opts = append(opts, spotify.WithTokenStore(store))
		}
		service = spotify.NewCredentialProvider(cfg.SpotifyClientID, cfg.SpotifyClientSecret, cfg.SpotifyTokenURL, opts...)
	} else {
		log.Warn("SPOTIFY_CLIENT_ID/SPOTIFY_CLIENT_SECRET not set, anonymous requests will fail")
	}

	a.resolver = recommend.NewResolver(catalog, service,
		recommend.WithLogger(log),
		recommend.WithMetrics(rec),
		recommend.WithDefaultLimit(cfg.DefaultLimit),
		recommend.WithSeedTrack(cfg.FallbackSeedTrack),
	)
	return a
}

// tokenStore returns a Redis-backed store when REDIS_ADDR is set and
// reachable, so replicas share one service token. nil selects the in-memory
// default.
func (a *app) tokenStore(ctx context.Context) spotify.TokenStore {
	if a.cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     a.cfg.RedisAddr,
		Password: a.cfg.RedisPassword,
		DB:       a.cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		a.log.WithError(err).WithField("addr", a.cfg.RedisAddr).Warn("redis unreachable, caching service token in memory")
		client.Close()
		return nil
	}
	a.redis = client
	return spotify.NewRedisStore(client)
}

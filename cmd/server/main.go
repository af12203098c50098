// @title           User API
// @version         1.0
// @description     CRUD, search, pagination, uploads, GitHub merge, caching, JWT auth and NDJSON streaming over a single users resource.
// @BasePath        /
// @schemes         http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"user-api/internal/api"
	"user-api/internal/auth"
	"user-api/internal/cache"
	"user-api/internal/config"
	"user-api/internal/database"
	"user-api/internal/external"
	"user-api/internal/logger"
	"user-api/internal/service"
	"user-api/internal/storage"
	"user-api/internal/websocket"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	_ "user-api/docs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load configuration")
	}
	logger.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbpool, err := pgxpool.New(ctx, cfg.DB.Source)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create database pool")
	}
	defer dbpool.Close()

	if err := dbpool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("could not ping database")
	}
	log.Info().Msg("connected to database")

	store := database.NewStore(dbpool)
	if err := store.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("could not apply migrations")
	}

	localStorage, err := storage.NewLocalStorage(cfg.Storage.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize local storage")
	}
	log.Info().Str("path", cfg.Storage.Path).Msg("profile pictures stored on local disk")

	var objects service.ObjectUploader
	if cfg.S3.Bucket != "" {
		s3Storage, err := storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("could not initialize s3 storage")
		}
		objects = s3Storage
		log.Info().Str("bucket", cfg.S3.Bucket).Str("region", cfg.S3.Region).Msg("cloud uploads enabled")
	} else {
		log.Warn().Msg("s3.bucket not set, /files/upload will fail")
	}

	responseCache, closeCache := newCache(ctx, cfg.Cache)
	defer closeCache()

	tokens, err := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize token issuer")
	}

	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)

	users := service.NewUserService(service.Deps{
		Store:             store,
		Hasher:            auth.NewBcryptHasher(bcrypt.DefaultCost),
		Tokens:            tokens,
		Cache:             responseCache,
		CachePolicy:       cfg.Cache.Policy,
		Events:            wsHub,
		Files:             localStorage,
		Objects:           objects,
		Profiles:          external.NewProfileClient(cfg.External),
		DefaultGithubUser: cfg.External.DefaultUsername,
	})

	server := api.NewServer(cfg, users, tokens, store, wsHub, api.NewMetrics())

	httpServer := &http.Server{
		Addr:              cfg.AppHost + ":" + cfg.Port,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("starting server, docs at /swagger/index.html")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("could not start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func newCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, func()) {
	if cfg.Backend != config.CacheBackendRedis {
		log.Info().Str("policy", cfg.Policy).Msg("using in-memory response cache")
		return cache.NewMemoryCache(), func() {}
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("could not reach redis")
	}
	log.Info().Str("addr", cfg.RedisAddr).Str("policy", cfg.Policy).Msg("using redis response cache")
	return cache.NewRedisCache(client, "user-api:"), func() { _ = client.Close() }
}

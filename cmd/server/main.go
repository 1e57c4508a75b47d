package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/citygram/citygram-api/docs" // swagger docs

	"github.com/citygram/citygram-api/internal/api"
	"github.com/citygram/citygram-api/internal/core/service"
	"github.com/citygram/citygram-api/internal/infrastructure/config"
	mongodb "github.com/citygram/citygram-api/internal/infrastructure/db/mongo"
	redisdb "github.com/citygram/citygram-api/internal/infrastructure/db/redis"
	"github.com/citygram/citygram-api/internal/infrastructure/queue"
	"github.com/citygram/citygram-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title CityGram API
// @version 1.0
// @description Social networking API: accounts, posts, likes, comments, follow graph and a city-scoped feed.
// @host localhost:8080
// @BasePath /
// @schemes http
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	userRepo := mongodb.NewUserRepository(client, db)
	postRepo := mongodb.NewPostRepository(db)
	activityRepo := mongodb.NewActivityRepository(db)
	for _, idx := range []interface {
		EnsureIndexes(context.Context) error
	}{userRepo, postRepo, activityRepo} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("index creation failed")
		}
	}

	activityService := service.NewActivityService(activityRepo, log)
	dispatcher := queue.NewDispatcher(0, activityService, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(cfg, api.Dependencies{
		Mongo:      client,
		DB:         db,
		Redis:      rdb,
		Activities: activityService,
		Publisher:  dispatcher,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

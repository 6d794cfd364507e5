package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/FelixFS3D/uixom/internal/api"
	"github.com/FelixFS3D/uixom/internal/infrastructure/config"
	mongodb "github.com/FelixFS3D/uixom/internal/infrastructure/db/mongo"
	redisdb "github.com/FelixFS3D/uixom/internal/infrastructure/db/redis"
	"github.com/FelixFS3D/uixom/internal/notify"
	"github.com/FelixFS3D/uixom/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "uixom-api",
	})

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user indexes failed")
	}
	if err := mongodb.NewRequestRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("request indexes failed")
	}

	// --- Redis (optional: login throttle) ---
	deps := api.Dependencies{Cfg: cfg, DB: db, Logger: log}
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer rdb.Close()
		deps.Redis = rdb
	}

	// --- Notifications (optional: mail and/or webhook) ---
	var senders []notify.Sender
	if cfg.Mail.Enabled() {
		senders = append(senders, notify.NewMailer(cfg.Mail))
	}
	if cfg.WebhookURL != "" {
		senders = append(senders, notify.NewWebhook(cfg.WebhookURL))
	}
	if len(senders) > 0 {
		dispatcher := notify.NewDispatcher(0, senders, log)
		defer dispatcher.Close()
		deps.Notifier = dispatcher
	} else {
		log.Warn().Msg("notifications disabled: no mail or webhook configured")
	}

	e := api.NewRouter(deps)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

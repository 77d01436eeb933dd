package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/herocards/server/internal/cache"
	"github.com/herocards/server/internal/config"
	"github.com/herocards/server/internal/database"
	"github.com/herocards/server/internal/ws"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()
	ctx := context.Background()

	// Postgres and Redis are optional: without them the server still runs
	// matches, it just skips persistence and action history.
	if cfg.DatabaseURL != "" {
		if err := database.Connect(ctx, cfg.DatabaseURL); err != nil {
			logrus.WithError(err).Fatal("database connection failed")
		}
		if err := database.EnsureSchema(ctx); err != nil {
			logrus.WithError(err).Fatal("schema setup failed")
		}
	} else {
		logrus.Warn("DATABASE_URL not set, match results will not be persisted")
	}
	if cfg.RedisAddr != "" {
		if err := cache.InitRedis(ctx, cfg.RedisAddr, cfg.RedisPassword); err != nil {
			logrus.WithError(err).Fatal("redis connection failed")
		}
	} else {
		logrus.Warn("REDIS_ADDR not set, action history disabled")
	}

	hub := ws.NewHub(cfg)
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: hub.Routes(),
	}

	go func() {
		logrus.WithField("addr", cfg.ListenAddr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("http shutdown")
	}
	hub.Shutdown()
	if database.DB != nil {
		database.DB.Close()
	}
	if cache.Rdb != nil {
		_ = cache.Rdb.Close()
	}
}

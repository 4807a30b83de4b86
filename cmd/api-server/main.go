package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/medsched/appointment-core/internal/api"
	"github.com/medsched/appointment-core/internal/config"
	"github.com/medsched/appointment-core/internal/logger"
	"github.com/medsched/appointment-core/internal/notification"
	"github.com/medsched/appointment-core/internal/scheduling"
	"github.com/medsched/appointment-core/internal/store"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger setup error: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	zlog.Info("api-server starting up",
		zap.String("env", cfg.Env),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("store_backend", cfg.StoreBackend),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	openCtx, cancelOpen := context.WithTimeout(rootCtx, 10*time.Second)
	backend, err := store.Open(openCtx, store.Options{
		Backend:       cfg.StoreBackend,
		PostgresDSN:   cfg.PostgresDSN,
		RedisAddr:     cfg.RedisAddr,
		RedisUsername: cfg.RedisUsername,
		RedisPassword: cfg.RedisPassword,
	})
	cancelOpen()
	if err != nil {
		zlog.Fatal("store connection error", zap.Error(err))
	}
	defer backend.Close()
	zlog.Info("connected to record store")

	notifications := notification.NewService(backend.Store, cfg.KeyPrefix, zlog)
	repo := scheduling.NewRepository(backend.Store, notifications, cfg.KeyPrefix, zlog)
	users := scheduling.NewUserDirectory(backend.Store, cfg.KeyPrefix)

	router := api.NewRouter(api.RouterConfig{
		Repo:          repo,
		Notifications: notifications,
		Users:         users,
		StorePing:     backend.Ping,
		StoreBackend:  cfg.StoreBackend,
		Logger:        zlog,
		Env:           cfg.Env,
		Version:       version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zlog.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("http server error", zap.Error(err))
		}
	}()

	<-rootCtx.Done()
	zlog.Info("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}

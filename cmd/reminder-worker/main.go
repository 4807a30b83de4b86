package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/medsched/appointment-core/internal/config"
	"github.com/medsched/appointment-core/internal/logger"
	"github.com/medsched/appointment-core/internal/notification"
	"github.com/medsched/appointment-core/internal/scheduling"
	"github.com/medsched/appointment-core/internal/store"
)

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

	zlog.Info("reminder-worker starting up",
		zap.String("env", cfg.Env),
		zap.Duration("interval", cfg.WorkerInterval),
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

	// Run once at startup
	runOnce(rootCtx, repo, notifications, zlog)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			zlog.Info("shutdown signal received, stopping reminder worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, repo, notifications, zlog)
		}
	}
}

// runOnce reminds patients about their confirmed appointments. The service
// skips appointments that already have an unread reminder, so calling this
// every tick does not stack duplicates.
func runOnce(ctx context.Context, repo *scheduling.Repository, notifications *notification.Service, zlog *zap.Logger) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()

	appts, err := repo.ListAll(runCtx)
	if err != nil {
		zlog.Error("reminder run error", zap.Error(err))
		return
	}

	sent := 0
	for _, appt := range appts {
		if appt.Status != scheduling.StatusConfirmed {
			continue
		}
		if err := notifications.NotifyReminder(runCtx, appt); err != nil {
			zlog.Error("send reminder",
				zap.String("appointment_id", appt.ID),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	zlog.Info("reminder run complete",
		zap.Int("confirmed_seen", sent),
		zap.Duration("duration", time.Since(start)),
	)
}

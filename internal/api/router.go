package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/medsched/appointment-core/internal/notification"
	"github.com/medsched/appointment-core/internal/scheduling"
)

type RouterConfig struct {
	Repo          *scheduling.Repository
	Notifications *notification.Service
	Users         *scheduling.UserDirectory
	StorePing     func(context.Context) error
	StoreBackend  string
	Logger        *zap.Logger
	Env           string
	Version       string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(log))

	// Health endpoints
	health := NewHealthHandler(cfg.StorePing, cfg.StoreBackend, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Appointment endpoints
	r.Post("/appointments", createAppointmentHandler(cfg.Repo))
	r.Get("/appointments", listAppointmentsHandler(cfg.Repo))
	r.Post("/appointments/{id}/status", updateStatusHandler(cfg.Repo))
	r.Get("/statistics", statisticsHandler(cfg.Repo))

	// Notification endpoints
	r.Get("/notifications", listNotificationsHandler(cfg.Notifications))
	r.Get("/notifications/unread-count", unreadCountHandler(cfg.Notifications))
	r.Post("/notifications/read-all", markAllReadHandler(cfg.Notifications))
	r.Post("/notifications/{id}/read", markReadHandler(cfg.Notifications))
	r.Delete("/notifications/{id}", deleteNotificationHandler(cfg.Notifications))

	// Directory endpoints
	r.Get("/doctors", listDoctorsHandler())
	r.Get("/users", listUsersHandler(cfg.Users))

	return r
}

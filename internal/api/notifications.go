package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medsched/appointment-core/internal/notification"
)

// listNotificationsHandler returns the caller's notifications newest-first.
// Storage order is insertion order; the recency sort is the list screen's
// post-filter, applied here at the controller seam.
func listNotificationsHandler(svc *notification.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing_identity", err.Error())
			return
		}

		notifs, err := svc.ListForRecipient(r.Context(), user.ID)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, notification.SortByCreatedAtDesc(notifs))
	}
}

func unreadCountHandler(svc *notification.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing_identity", err.Error())
			return
		}

		count, err := svc.UnreadCount(r.Context(), user.ID)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, UnreadCountResponse{Unread: count})
	}
}

func markReadHandler(svc *notification.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.MarkAsRead(r.Context(), chi.URLParam(r, "id")); err != nil {
			handleDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func markAllReadHandler(svc *notification.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing_identity", err.Error())
			return
		}

		if err := svc.MarkAllAsRead(r.Context(), user.ID); err != nil {
			handleDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func deleteNotificationHandler(svc *notification.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			handleDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

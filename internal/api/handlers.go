package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medsched/appointment-core/internal/catalog"
	"github.com/medsched/appointment-core/internal/scheduling"
	"github.com/medsched/appointment-core/internal/store"
)

func createAppointmentHandler(repo *scheduling.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing_identity", err.Error())
			return
		}

		var req CreateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		appt, err := repo.Create(r.Context(), user, scheduling.CreateAppointmentInput{
			DoctorID: req.DoctorID,
			Date:     req.Date,
			Time:     req.Time,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, appt)
	}
}

// listAppointmentsHandler scopes the shared collection to the caller's
// role: patients get their own records, doctors their assigned ones,
// admins everything.
func listAppointmentsHandler(repo *scheduling.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing_identity", err.Error())
			return
		}

		var appts []scheduling.Appointment
		switch user.Role {
		case scheduling.RolePatient:
			appts, err = repo.ListForPatient(r.Context(), user.ID)
		case scheduling.RoleDoctor:
			appts, err = repo.ListForDoctor(r.Context(), user.ID)
		case scheduling.RoleAdmin:
			appts, err = repo.ListAll(r.Context())
		}
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, appts)
	}
}

func updateStatusHandler(repo *scheduling.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req UpdateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		appt, err := repo.UpdateStatus(r.Context(), id, scheduling.Status(req.Status))
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, appt)
	}
}

// statisticsHandler recomputes the aggregate view from the full collection
// on every request.
func statisticsHandler(repo *scheduling.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appts, err := repo.ListAll(r.Context())
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, scheduling.ComputeStatistics(appts))
	}
}

func listDoctorsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, catalog.Doctors())
	}
}

func listUsersHandler(users *scheduling.UserDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := users.ListUsers(r.Context())
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, all)
	}
}

func handleDomainError(w http.ResponseWriter, err error) {
	var validationErr *scheduling.ValidationError
	var storeErr *store.StoreError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "validation_error", validationErr.Error())
	case errors.Is(err, scheduling.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, scheduling.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.As(err, &storeErr):
		writeError(w, http.StatusInternalServerError, "store_error", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

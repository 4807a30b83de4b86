package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medsched/appointment-core/internal/api"
	"github.com/medsched/appointment-core/internal/notification"
	"github.com/medsched/appointment-core/internal/scheduling"
	"github.com/medsched/appointment-core/internal/store"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	st := store.NewMemStore()
	notifications := notification.NewService(st, "test:", nil)
	repo := scheduling.NewRepository(st, notifications, "test:", nil)
	users := scheduling.NewUserDirectory(st, "test:")

	return api.NewRouter(api.RouterConfig{
		Repo:          repo,
		Notifications: notifications,
		Users:         users,
		StorePing:     func(context.Context) error { return nil },
		StoreBackend:  "memory",
		Env:           "test",
		Version:       "test",
	})
}

func doJSON(t *testing.T, router http.Handler, method, path string, user *scheduling.CurrentUser, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if user != nil {
		req.Header.Set("X-User-Id", user.ID)
		req.Header.Set("X-User-Name", user.Name)
		req.Header.Set("X-User-Role", string(user.Role))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestBookingLifecycle(t *testing.T) {
	router := newTestRouter(t)

	patient := &scheduling.CurrentUser{ID: "p1", Name: "Alice", Role: scheduling.RolePatient}
	doctor := &scheduling.CurrentUser{ID: "1", Name: "Dr. John Silva", Role: scheduling.RoleDoctor}
	admin := &scheduling.CurrentUser{ID: "adm", Name: "Admin", Role: scheduling.RoleAdmin}

	// Patient books with doctor 1.
	rec := doJSON(t, router, http.MethodPost, "/appointments", patient, api.CreateAppointmentRequest{
		DoctorID: "1", Date: "12/10/2026", Time: "14:30",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[scheduling.Appointment](t, rec)
	assert.Equal(t, scheduling.StatusPending, created.Status)
	assert.Equal(t, "Cardiology", created.Specialty)

	// The doctor sees it as pending.
	rec = doJSON(t, router, http.MethodGet, "/appointments", doctor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assigned := decode[[]scheduling.Appointment](t, rec)
	require.Len(t, assigned, 1)
	assert.Equal(t, created.ID, assigned[0].ID)
	assert.Equal(t, scheduling.StatusPending, assigned[0].Status)

	// The doctor got exactly one new-appointment notification.
	rec = doJSON(t, router, http.MethodGet, "/notifications", doctor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doctorInbox := decode[[]notification.Notification](t, rec)
	require.Len(t, doctorInbox, 1)
	assert.Equal(t, notification.TypeNewAppointment, doctorInbox[0].Type)

	// Admin confirms.
	rec = doJSON(t, router, http.MethodPost, "/appointments/"+created.ID+"/status", admin, api.UpdateStatusRequest{Status: "confirmed"})
	require.Equal(t, http.StatusOK, rec.Code)

	// The patient now sees it confirmed.
	rec = doJSON(t, router, http.MethodGet, "/appointments", patient, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decode[[]scheduling.Appointment](t, rec)
	require.Len(t, mine, 1)
	assert.Equal(t, scheduling.StatusConfirmed, mine[0].Status)

	// And has a confirmation notification.
	rec = doJSON(t, router, http.MethodGet, "/notifications", patient, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	patientInbox := decode[[]notification.Notification](t, rec)
	require.Len(t, patientInbox, 1)
	assert.Equal(t, notification.TypeConfirmed, patientInbox[0].Type)

	// Confirming again conflicts.
	rec = doJSON(t, router, http.MethodPost, "/appointments/"+created.ID+"/status", admin, api.UpdateStatusRequest{Status: "cancelled"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Statistics reflect the single confirmed appointment.
	rec = doJSON(t, router, http.MethodGet, "/statistics", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[scheduling.Statistics](t, rec)
	assert.Equal(t, 1, stats.TotalAppointments)
	assert.Equal(t, 100.0, stats.StatusPercentages.Confirmed)
}

func TestRequestValidation(t *testing.T) {
	router := newTestRouter(t)
	patient := &scheduling.CurrentUser{ID: "p1", Name: "Alice", Role: scheduling.RolePatient}

	t.Run("identity headers are required", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/appointments", nil, api.CreateAppointmentRequest{
			DoctorID: "1", Date: "12/10/2026", Time: "14:30",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing fields map to validation_error", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/appointments", patient, api.CreateAppointmentRequest{DoctorID: "1"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decode[api.ErrorResponse](t, rec)
		assert.Equal(t, "validation_error", resp.Error)
	})

	t.Run("unknown appointment maps to 404", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/appointments/missing/status", patient, api.UpdateStatusRequest{Status: "confirmed"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("illegal target status maps to 409", func(t *testing.T) {
		created := decode[scheduling.Appointment](t, doJSON(t, router, http.MethodPost, "/appointments", patient, api.CreateAppointmentRequest{
			DoctorID: "1", Date: "12/10/2026", Time: "14:30",
		}))
		rec := doJSON(t, router, http.MethodPost, "/appointments/"+created.ID+"/status", patient, api.UpdateStatusRequest{Status: "pending"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestNotificationEndpoints(t *testing.T) {
	router := newTestRouter(t)

	patient := &scheduling.CurrentUser{ID: "p1", Name: "Alice", Role: scheduling.RolePatient}
	doctor := &scheduling.CurrentUser{ID: "d9", Name: "Dr. Who", Role: scheduling.RoleDoctor}

	for i := 0; i < 3; i++ {
		rec := doJSON(t, router, http.MethodPost, "/appointments", patient, api.CreateAppointmentRequest{
			DoctorID: "d9", Date: "12/10/2026", Time: "14:30",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/notifications/unread-count", doctor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, decode[api.UnreadCountResponse](t, rec).Unread)

	// Mark one read, then the rest.
	inbox := decode[[]notification.Notification](t, doJSON(t, router, http.MethodGet, "/notifications", doctor, nil))
	require.Len(t, inbox, 3)

	rec = doJSON(t, router, http.MethodPost, "/notifications/"+inbox[0].ID+"/read", doctor, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/notifications/read-all", doctor, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/notifications/unread-count", doctor, nil)
	assert.Equal(t, 0, decode[api.UnreadCountResponse](t, rec).Unread)

	// Delete one.
	rec = doJSON(t, router, http.MethodDelete, "/notifications/"+inbox[1].ID, doctor, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	inbox = decode[[]notification.Notification](t, doJSON(t, router, http.MethodGet, "/notifications", doctor, nil))
	assert.Len(t, inbox, 2)
}

func TestHealthAndDirectories(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health/live", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/health/ready", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/doctors", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/users", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]scheduling.User](t, rec))
}

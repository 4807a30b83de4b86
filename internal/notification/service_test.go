package notification_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medsched/appointment-core/internal/notification"
	"github.com/medsched/appointment-core/internal/scheduling"
	"github.com/medsched/appointment-core/internal/store"
)

func newTestService(t *testing.T) *notification.Service {
	t.Helper()
	return notification.NewService(store.NewMemStore(), "test:", nil)
}

func sampleAppointment() scheduling.Appointment {
	return scheduling.Appointment{
		ID:          "a1",
		PatientID:   "p1",
		PatientName: "Alice",
		DoctorID:    "d1",
		DoctorName:  "Dr. John Silva",
		Date:        "12/10/2026",
		Time:        "14:30",
		Status:      scheduling.StatusPending,
	}
}

func TestNotifyNewAppointment(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	require.NoError(t, svc.NotifyNewAppointment(ctx, "d1", sampleAppointment()))

	notifs, err := svc.ListForRecipient(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, notifs, 1)

	n := notifs[0]
	assert.Equal(t, notification.TypeNewAppointment, n.Type)
	assert.Equal(t, "d1", n.RecipientID)
	assert.Equal(t, "a1", n.AppointmentID)
	assert.False(t, n.Read)
	assert.Contains(t, n.Message, "Alice")
	assert.NotEmpty(t, n.ID)
	assert.False(t, n.CreatedAt.IsZero())
}

func TestNotifyStatusChange(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed goes to the patient", func(t *testing.T) {
		svc := newTestService(t)
		appt := sampleAppointment()
		appt.Status = scheduling.StatusConfirmed

		require.NoError(t, svc.NotifyStatusChange(ctx, appt, scheduling.StatusConfirmed))

		notifs, err := svc.ListForRecipient(ctx, "p1")
		require.NoError(t, err)
		require.Len(t, notifs, 1)
		assert.Equal(t, notification.TypeConfirmed, notifs[0].Type)
		assert.Contains(t, notifs[0].Message, "Dr. John Silva")
	})

	t.Run("cancelled goes to the patient", func(t *testing.T) {
		svc := newTestService(t)

		require.NoError(t, svc.NotifyStatusChange(ctx, sampleAppointment(), scheduling.StatusCancelled))

		notifs, err := svc.ListForRecipient(ctx, "p1")
		require.NoError(t, err)
		require.Len(t, notifs, 1)
		assert.Equal(t, notification.TypeCancelled, notifs[0].Type)
	})

	t.Run("pending is not a notifiable status", func(t *testing.T) {
		svc := newTestService(t)
		assert.Error(t, svc.NotifyStatusChange(ctx, sampleAppointment(), scheduling.StatusPending))
	})
}

func TestMarkAsRead(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	require.NoError(t, svc.NotifyNewAppointment(ctx, "d1", sampleAppointment()))
	notifs, err := svc.ListForRecipient(ctx, "d1")
	require.NoError(t, err)
	id := notifs[0].ID

	require.NoError(t, svc.MarkAsRead(ctx, id))

	notifs, err = svc.ListForRecipient(ctx, "d1")
	require.NoError(t, err)
	assert.True(t, notifs[0].Read)

	// Idempotent on already-read and unknown ids.
	require.NoError(t, svc.MarkAsRead(ctx, id))
	require.NoError(t, svc.MarkAsRead(ctx, "missing"))
}

func TestMarkAllAsRead(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	require.NoError(t, svc.NotifyNewAppointment(ctx, "d1", sampleAppointment()))
	require.NoError(t, svc.NotifyNewAppointment(ctx, "d1", sampleAppointment()))
	require.NoError(t, svc.NotifyNewAppointment(ctx, "d2", sampleAppointment()))

	require.NoError(t, svc.MarkAllAsRead(ctx, "d1"))

	mine, err := svc.ListForRecipient(ctx, "d1")
	require.NoError(t, err)
	for _, n := range mine {
		assert.True(t, n.Read)
	}

	others, err := svc.ListForRecipient(ctx, "d2")
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.False(t, others[0].Read)
}

func TestUnreadCount(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	count, err := svc.UnreadCount(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, svc.NotifyNewAppointment(ctx, "d1", sampleAppointment()))
	require.NoError(t, svc.NotifyNewAppointment(ctx, "d1", sampleAppointment()))

	count, err = svc.UnreadCount(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	notifs, err := svc.ListForRecipient(ctx, "d1")
	require.NoError(t, err)
	require.NoError(t, svc.MarkAsRead(ctx, notifs[0].ID))

	count, err = svc.UnreadCount(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	require.NoError(t, svc.NotifyNewAppointment(ctx, "d1", sampleAppointment()))
	notifs, err := svc.ListForRecipient(ctx, "d1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, notifs[0].ID))

	notifs, err = svc.ListForRecipient(ctx, "d1")
	require.NoError(t, err)
	assert.Empty(t, notifs)

	// Unknown id is a no-op.
	require.NoError(t, svc.Delete(ctx, "missing"))
}

func TestNotifyReminder(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	appt := sampleAppointment()
	appt.Status = scheduling.StatusConfirmed

	require.NoError(t, svc.NotifyReminder(ctx, appt))
	require.NoError(t, svc.NotifyReminder(ctx, appt))

	notifs, err := svc.ListForRecipient(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, notifs, 1, "unread reminder must not be duplicated")
	assert.Equal(t, notification.TypeReminder, notifs[0].Type)

	// Once the reminder is read, a later run may remind again.
	require.NoError(t, svc.MarkAsRead(ctx, notifs[0].ID))
	require.NoError(t, svc.NotifyReminder(ctx, appt))

	notifs, err = svc.ListForRecipient(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, notifs, 2)
}

func TestSortByCreatedAtDesc(t *testing.T) {
	base := time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)
	notifs := []notification.Notification{
		{ID: "n1", CreatedAt: base},
		{ID: "n2", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "n3", CreatedAt: base.Add(time.Hour)},
	}

	sorted := notification.SortByCreatedAtDesc(notifs)

	assert.Equal(t, "n2", sorted[0].ID)
	assert.Equal(t, "n3", sorted[1].ID)
	assert.Equal(t, "n1", sorted[2].ID)
	// Storage order untouched.
	assert.Equal(t, "n1", notifs[0].ID)
}

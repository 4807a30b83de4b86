package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medsched/appointment-core/internal/scheduling"
	"github.com/medsched/appointment-core/internal/store"
)

const notificationsKey = "notifications"

// Service owns the notifications collection. Like the appointment
// repository, every mutation is a whole-collection read-modify-write under
// one mutex.
type Service struct {
	mu     sync.Mutex
	store  store.Store
	key    string
	logger *zap.Logger
}

func NewService(st store.Store, keyPrefix string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  st,
		key:    keyPrefix + notificationsKey,
		logger: logger,
	}
}

func (s *Service) load(ctx context.Context) ([]Notification, error) {
	raw, err := s.store.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return []Notification{}, nil
		}
		return nil, err
	}

	var notifs []Notification
	if err := json.Unmarshal(raw, &notifs); err != nil {
		return nil, store.NewStoreError("decode", s.key, err)
	}
	return notifs, nil
}

func (s *Service) save(ctx context.Context, notifs []Notification) error {
	raw, err := json.Marshal(notifs)
	if err != nil {
		return store.NewStoreError("encode", s.key, err)
	}
	return s.store.Set(ctx, s.key, raw)
}

func (s *Service) append(ctx context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	notifs, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("load notifications: %w", err)
	}

	notifs = append(notifs, n)
	if err := s.save(ctx, notifs); err != nil {
		return fmt.Errorf("save notifications: %w", err)
	}

	s.logger.Info("notification created",
		zap.String("notification_id", n.ID),
		zap.String("recipient_id", n.RecipientID),
		zap.String("type", string(n.Type)),
	)
	return nil
}

// NotifyNewAppointment tells the chosen doctor a patient booked with them.
func (s *Service) NotifyNewAppointment(ctx context.Context, doctorID string, appt scheduling.Appointment) error {
	return s.append(ctx, Notification{
		ID:            uuid.NewString(),
		RecipientID:   doctorID,
		Type:          TypeNewAppointment,
		Title:         "New appointment",
		Message:       fmt.Sprintf("%s booked an appointment on %s at %s", appt.PatientName, appt.Date, appt.Time),
		AppointmentID: appt.ID,
		CreatedAt:     time.Now().UTC(),
	})
}

// NotifyStatusChange tells the patient their appointment was confirmed or
// cancelled.
func (s *Service) NotifyStatusChange(ctx context.Context, appt scheduling.Appointment, next scheduling.Status) error {
	n := Notification{
		ID:            uuid.NewString(),
		RecipientID:   appt.PatientID,
		AppointmentID: appt.ID,
		CreatedAt:     time.Now().UTC(),
	}

	switch next {
	case scheduling.StatusConfirmed:
		n.Type = TypeConfirmed
		n.Title = "Appointment confirmed"
		n.Message = fmt.Sprintf("Your appointment with %s on %s at %s was confirmed", appt.DoctorName, appt.Date, appt.Time)
	case scheduling.StatusCancelled:
		n.Type = TypeCancelled
		n.Title = "Appointment cancelled"
		n.Message = fmt.Sprintf("Your appointment with %s on %s at %s was cancelled", appt.DoctorName, appt.Date, appt.Time)
	default:
		return fmt.Errorf("no notification for status %q", next)
	}

	return s.append(ctx, n)
}

// NotifyReminder reminds the patient about a confirmed appointment. It is a
// no-op while an unread reminder for the same appointment exists, so a
// periodic worker can call it on every tick.
func (s *Service) NotifyReminder(ctx context.Context, appt scheduling.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	notifs, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("load notifications: %w", err)
	}

	for _, n := range notifs {
		if n.Type == TypeReminder && n.AppointmentID == appt.ID && !n.Read {
			return nil
		}
	}

	n := Notification{
		ID:            uuid.NewString(),
		RecipientID:   appt.PatientID,
		Type:          TypeReminder,
		Title:         "Appointment reminder",
		Message:       fmt.Sprintf("You have an appointment with %s on %s at %s", appt.DoctorName, appt.Date, appt.Time),
		AppointmentID: appt.ID,
		CreatedAt:     time.Now().UTC(),
	}

	notifs = append(notifs, n)
	if err := s.save(ctx, notifs); err != nil {
		return fmt.Errorf("save notifications: %w", err)
	}

	s.logger.Info("reminder created",
		zap.String("notification_id", n.ID),
		zap.String("appointment_id", appt.ID),
	)
	return nil
}

// ListForRecipient returns the recipient's notifications in storage order.
// List screens that want newest-first apply SortByCreatedAtDesc themselves.
func (s *Service) ListForRecipient(ctx context.Context, recipientID string) ([]Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notifs, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load notifications: %w", err)
	}

	out := []Notification{}
	for _, n := range notifs {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, nil
}

// UnreadCount derives the badge count on demand; it is never cached.
func (s *Service) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	notifs, err := s.ListForRecipient(ctx, recipientID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, n := range notifs {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

// MarkAsRead sets the read flag. Already-read and unknown ids are no-ops,
// so a list screen can fire it without checking first.
func (s *Service) MarkAsRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	notifs, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("load notifications: %w", err)
	}

	changed := false
	for i := range notifs {
		if notifs[i].ID == id && !notifs[i].Read {
			notifs[i].Read = true
			changed = true
		}
	}
	if !changed {
		return nil
	}

	if err := s.save(ctx, notifs); err != nil {
		return fmt.Errorf("save notifications: %w", err)
	}
	return nil
}

// MarkAllAsRead sets the read flag on every notification addressed to the
// recipient. Other recipients' notifications are untouched.
func (s *Service) MarkAllAsRead(ctx context.Context, recipientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	notifs, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("load notifications: %w", err)
	}

	changed := false
	for i := range notifs {
		if notifs[i].RecipientID == recipientID && !notifs[i].Read {
			notifs[i].Read = true
			changed = true
		}
	}
	if !changed {
		return nil
	}

	if err := s.save(ctx, notifs); err != nil {
		return fmt.Errorf("save notifications: %w", err)
	}
	return nil
}

// Delete removes the entry; unknown ids are a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	notifs, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("load notifications: %w", err)
	}

	idx := -1
	for i := range notifs {
		if notifs[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	notifs = append(notifs[:idx], notifs[idx+1:]...)
	if err := s.save(ctx, notifs); err != nil {
		return fmt.Errorf("save notifications: %w", err)
	}
	return nil
}

// SortByCreatedAtDesc returns a newest-first copy. This is the post-filter
// the notification list screen applies; storage order stays untouched.
func SortByCreatedAtDesc(notifs []Notification) []Notification {
	out := make([]Notification, len(notifs))
	copy(out, notifs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

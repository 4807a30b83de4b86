package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medsched/appointment-core/internal/catalog"
	"github.com/medsched/appointment-core/internal/store"
)

const appointmentsKey = "appointments"

// Notifier receives appointment lifecycle events. Exactly one notification
// is created per event, addressed to the counter-party.
type Notifier interface {
	NotifyNewAppointment(ctx context.Context, doctorID string, appt Appointment) error
	NotifyStatusChange(ctx context.Context, appt Appointment, next Status) error
}

// Repository owns the appointments collection. Every write is a
// read-modify-write of the whole collection, serialized by a single mutex:
// the underlying store has no transactions, so reading the current
// collection right before mutating under the lock is the concurrency-safety
// mechanism. Do not replace this with partial updates.
type Repository struct {
	mu       sync.Mutex
	store    store.Store
	key      string
	notifier Notifier
	logger   *zap.Logger
}

func NewRepository(st store.Store, notifier Notifier, keyPrefix string, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{
		store:    st,
		key:      keyPrefix + appointmentsKey,
		notifier: notifier,
		logger:   logger,
	}
}

// load reads the current full collection. A missing key is an empty
// collection, not an error.
func (r *Repository) load(ctx context.Context) ([]Appointment, error) {
	raw, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return []Appointment{}, nil
		}
		return nil, err
	}

	var appts []Appointment
	if err := json.Unmarshal(raw, &appts); err != nil {
		return nil, store.NewStoreError("decode", r.key, err)
	}
	return appts, nil
}

func (r *Repository) save(ctx context.Context, appts []Appointment) error {
	raw, err := json.Marshal(appts)
	if err != nil {
		return store.NewStoreError("encode", r.key, err)
	}
	return r.store.Set(ctx, r.key, raw)
}

// Create validates the input, appends a new pending appointment and notifies
// the chosen doctor. The doctor's name and specialty are denormalized from
// the catalog; an unknown doctor id is not an error.
func (r *Repository) Create(ctx context.Context, user CurrentUser, in CreateAppointmentInput) (Appointment, error) {
	if in.Date == "" {
		return Appointment{}, &ValidationError{Field: "date"}
	}
	if in.Time == "" {
		return Appointment{}, &ValidationError{Field: "time"}
	}
	if in.DoctorID == "" {
		return Appointment{}, &ValidationError{Field: "doctorId"}
	}

	appt := Appointment{
		ID:          uuid.NewString(),
		PatientID:   user.ID,
		PatientName: user.Name,
		DoctorID:    in.DoctorID,
		Date:        in.Date,
		Time:        in.Time,
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
	}

	if doc, ok := catalog.Lookup(in.DoctorID); ok {
		appt.DoctorName = doc.Name
		appt.Specialty = doc.Specialty
	}

	r.mu.Lock()
	appts, err := r.load(ctx)
	if err != nil {
		r.mu.Unlock()
		return Appointment{}, fmt.Errorf("load appointments: %w", err)
	}

	appts = append(appts, appt)
	if err := r.save(ctx, appts); err != nil {
		r.mu.Unlock()
		return Appointment{}, fmt.Errorf("save appointments: %w", err)
	}
	r.mu.Unlock()

	r.logger.Info("appointment created",
		zap.String("appointment_id", appt.ID),
		zap.String("patient_id", appt.PatientID),
		zap.String("doctor_id", appt.DoctorID),
	)

	if err := r.notifier.NotifyNewAppointment(ctx, appt.DoctorID, appt); err != nil {
		return Appointment{}, fmt.Errorf("notify new appointment: %w", err)
	}

	return appt, nil
}

// UpdateStatus moves a pending appointment to confirmed or cancelled and
// notifies the patient. Other fields are left untouched.
func (r *Repository) UpdateStatus(ctx context.Context, id string, next Status) (Appointment, error) {
	if next != StatusConfirmed && next != StatusCancelled {
		return Appointment{}, fmt.Errorf("%w: %q is not a legal target status", ErrInvalidTransition, next)
	}

	r.mu.Lock()
	appts, err := r.load(ctx)
	if err != nil {
		r.mu.Unlock()
		return Appointment{}, fmt.Errorf("load appointments: %w", err)
	}

	idx := -1
	for i := range appts {
		if appts[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return Appointment{}, ErrAppointmentNotFound
	}

	if !appts[idx].CanTransitionTo(next) {
		cur := appts[idx].Status
		r.mu.Unlock()
		return Appointment{}, fmt.Errorf("%w: cannot change %s appointment to %s", ErrInvalidTransition, cur, next)
	}

	appts[idx].Status = next
	if err := r.save(ctx, appts); err != nil {
		r.mu.Unlock()
		return Appointment{}, fmt.Errorf("save appointments: %w", err)
	}
	updated := appts[idx]
	r.mu.Unlock()

	r.logger.Info("appointment status updated",
		zap.String("appointment_id", updated.ID),
		zap.String("status", string(next)),
	)

	if err := r.notifier.NotifyStatusChange(ctx, updated, next); err != nil {
		return Appointment{}, fmt.Errorf("notify status change: %w", err)
	}

	return updated, nil
}

// ListForPatient returns the patient's appointments in storage order. The
// list is not sorted by date; chronological ordering is a dashboard concern.
func (r *Repository) ListForPatient(ctx context.Context, patientID string) ([]Appointment, error) {
	appts, err := r.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return filterAppointments(appts, func(a Appointment) bool { return a.PatientID == patientID }), nil
}

// ListForDoctor returns the doctor's assigned appointments in storage order.
func (r *Repository) ListForDoctor(ctx context.Context, doctorID string) ([]Appointment, error) {
	appts, err := r.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return filterAppointments(appts, func(a Appointment) bool { return a.DoctorID == doctorID }), nil
}

// ListAll returns the whole collection. Admin-only by convention; the role
// gate lives with the external auth collaborator.
func (r *Repository) ListAll(ctx context.Context) ([]Appointment, error) {
	return r.Refresh(ctx)
}

// Refresh re-reads the full collection from the store. UI layers call this
// whenever a screen regains focus; the core only exposes the operation.
func (r *Repository) Refresh(ctx context.Context) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appts, err := r.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	return appts, nil
}

func filterAppointments(appts []Appointment, keep func(Appointment) bool) []Appointment {
	out := []Appointment{}
	for _, a := range appts {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

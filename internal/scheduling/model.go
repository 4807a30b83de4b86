package scheduling

import "time"

// State transitions:
//
//	pending → confirmed
//	pending → cancelled
//
// confirmed and cancelled are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// CurrentUser is the identity an external auth layer hands the core. The
// core never authenticates; it trusts the id and role as given and every
// operation that needs an identity takes one explicitly.
type CurrentUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// User is a profile record from the users collection. Read-only from this
// core's perspective; only the seed tool writes it.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Appointment is the persisted appointment record. DoctorName and Specialty
// are copied from the doctor catalog at creation time and never re-derived.
// Date and Time are display-formatted strings; the core does no calendar
// arithmetic on them.
type Appointment struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patientId"`
	PatientName string    `json:"patientName"`
	DoctorID    string    `json:"doctorId"`
	DoctorName  string    `json:"doctorName"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Specialty   string    `json:"specialty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (a *Appointment) CanTransitionTo(next Status) bool {
	allowed := map[Status][]Status{
		StatusPending:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {},
		StatusCancelled: {},
	}

	for _, s := range allowed[a.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// CreateAppointmentInput carries the fields a patient supplies when booking.
// Patient identity comes from the CurrentUser passed alongside it.
type CreateAppointmentInput struct {
	DoctorID string `json:"doctorId"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

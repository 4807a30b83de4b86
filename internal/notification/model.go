package notification

import "time"

type Type string

const (
	TypeNewAppointment Type = "appointment_new"
	TypeConfirmed      Type = "appointment_confirmed"
	TypeCancelled      Type = "appointment_cancelled"
	TypeReminder       Type = "appointment_reminder"
)

// Notification is one entry in a recipient's inbox. AppointmentID is set
// when the notification refers to a specific appointment; the reminder
// worker uses it to avoid stacking duplicate reminders.
type Notification struct {
	ID            string    `json:"id"`
	RecipientID   string    `json:"recipientId"`
	Type          Type      `json:"type"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	AppointmentID string    `json:"appointmentId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	Read          bool      `json:"read"`
}

package api

type CreateAppointmentRequest struct {
	DoctorID string `json:"doctorId"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type UnreadCountResponse struct {
	Unread int `json:"unread"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

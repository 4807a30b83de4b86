package scheduling

// VisibleTo scopes a shared appointment collection to a viewer: patients see
// their own records, doctors see their assigned records, admins see
// everything. Visibility is a pure function of the collection and the
// viewer, never a stored property of the appointment, so every dashboard
// derives the same answer. Relative order is preserved.
func VisibleTo(appts []Appointment, role Role, viewerID string) []Appointment {
	switch role {
	case RolePatient:
		return filterAppointments(appts, func(a Appointment) bool { return a.PatientID == viewerID })
	case RoleDoctor:
		return filterAppointments(appts, func(a Appointment) bool { return a.DoctorID == viewerID })
	case RoleAdmin:
		out := make([]Appointment, len(appts))
		copy(out, appts)
		return out
	}
	return []Appointment{}
}

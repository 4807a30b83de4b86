package scheduling

// Statistics is derived from the full appointment collection on demand. It
// is never persisted or kept consistent incrementally; recompute it after
// any mutation.
type Statistics struct {
	TotalAppointments     int               `json:"totalAppointments"`
	PendingAppointments   int               `json:"pendingAppointments"`
	ConfirmedAppointments int               `json:"confirmedAppointments"`
	CancelledAppointments int               `json:"cancelledAppointments"`
	StatusPercentages     StatusPercentages `json:"statusPercentages"`
	TotalPatients         int               `json:"totalPatients"`
	TotalDoctors          int               `json:"totalDoctors"`
	Specialties           map[string]int    `json:"specialties"`
}

type StatusPercentages struct {
	Pending   float64 `json:"pending"`
	Confirmed float64 `json:"confirmed"`
	Cancelled float64 `json:"cancelled"`
}

// ComputeStatistics aggregates counts and percentages over the collection.
// An empty collection yields zero percentages, not NaN. The input is not
// mutated.
func ComputeStatistics(appts []Appointment) Statistics {
	stats := Statistics{
		TotalAppointments: len(appts),
		Specialties:       make(map[string]int),
	}

	patients := make(map[string]struct{})
	doctors := make(map[string]struct{})

	for _, a := range appts {
		switch a.Status {
		case StatusPending:
			stats.PendingAppointments++
		case StatusConfirmed:
			stats.ConfirmedAppointments++
		case StatusCancelled:
			stats.CancelledAppointments++
		}

		patients[a.PatientID] = struct{}{}
		doctors[a.DoctorID] = struct{}{}

		if a.Specialty != "" {
			stats.Specialties[a.Specialty]++
		}
	}

	stats.TotalPatients = len(patients)
	stats.TotalDoctors = len(doctors)

	if stats.TotalAppointments > 0 {
		total := float64(stats.TotalAppointments)
		stats.StatusPercentages = StatusPercentages{
			Pending:   float64(stats.PendingAppointments) / total * 100,
			Confirmed: float64(stats.ConfirmedAppointments) / total * 100,
			Cancelled: float64(stats.CancelledAppointments) / total * 100,
		}
	}

	return stats
}

// Package catalog holds the static doctor directory. The scheduling core
// copies a doctor's name and specialty into the appointment at creation
// time; it never looks them up again afterwards.
package catalog

type Doctor struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Image     string `json:"image"`
}

var doctors = []Doctor{
	{ID: "1", Name: "Dr. John Silva", Specialty: "Cardiology", Image: "https://randomuser.me/api/portraits/men/1.jpg"},
	{ID: "2", Name: "Dr. Maria Santos", Specialty: "Pediatrics", Image: "https://randomuser.me/api/portraits/women/1.jpg"},
	{ID: "3", Name: "Dr. Peter Oliveira", Specialty: "Orthopedics", Image: "https://randomuser.me/api/portraits/men/2.jpg"},
	{ID: "4", Name: "Dr. Ana Costa", Specialty: "Dermatology", Image: "https://randomuser.me/api/portraits/women/2.jpg"},
	{ID: "5", Name: "Dr. Carlos Mendes", Specialty: "Ophthalmology", Image: "https://randomuser.me/api/portraits/men/3.jpg"},
}

// Doctors returns the full directory. The slice is a copy; mutating it does
// not affect the catalog.
func Doctors() []Doctor {
	out := make([]Doctor, len(doctors))
	copy(out, doctors)
	return out
}

// Lookup returns the doctor with the given id. There is no foreign-key
// enforcement anywhere in the core, so absence is not an error.
func Lookup(id string) (Doctor, bool) {
	for _, d := range doctors {
		if d.ID == id {
			return d, true
		}
	}
	return Doctor{}, false
}

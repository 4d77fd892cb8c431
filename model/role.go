package model

// Actor roles. Roles are structural in this system: doctors and patients
// live in separate tables and a session carries exactly one of these values.
const (
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

// ValidRole reports whether the supplied role names a known actor kind.
func ValidRole(role string) bool {
	return role == RoleDoctor || role == RolePatient
}

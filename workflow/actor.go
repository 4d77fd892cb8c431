package workflow

import "github.com/healinghands/smart-health-api/model"

// Actor is the authenticated identity every engine operation acts as. It is
// resolved once by the session middleware and is the only identity source the
// engine trusts; handlers never pass raw request identifiers as the caller.
type Actor struct {
	ID   uint
	Role string
	Name string
}

// IsDoctor reports whether the actor is a care provider.
func (a Actor) IsDoctor() bool { return a.Role == model.RoleDoctor }

// IsPatient reports whether the actor is a care recipient.
func (a Actor) IsPatient() bool { return a.Role == model.RolePatient }

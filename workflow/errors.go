package workflow

import "errors"

// Sentinel errors returned by the lifecycle engine. Handlers match them with
// errors.Is and translate them to API responses; the engine never retries and
// a failed call leaves all entities unchanged.
var (
	// ErrNotFound reports an unknown actor or report identifier.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidCredential reports a credential mismatch during login.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrApprovalPending reports a login attempt by a patient whose
	// application has not been reviewed yet.
	ErrApprovalPending = errors.New("patient application pending approval")

	// ErrApprovalRejected reports a login attempt by a rejected patient.
	ErrApprovalRejected = errors.New("patient application rejected")

	// ErrInvalidStateTransition reports a transition attempted from the
	// wrong status, including the loser of two racing transitions.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrForbidden reports a role or ownership mismatch on an otherwise
	// valid operation.
	ErrForbidden = errors.New("operation not permitted for this actor")

	// ErrIndexOutOfRange reports a positional removal whose index no longer
	// exists, e.g. after a concurrent removal.
	ErrIndexOutOfRange = errors.New("entry index out of range")
)

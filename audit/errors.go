package audit

import "errors"

// Error taxonomy of the audit subsystem. Every mutating entry point fails
// atomically with one of these; callers wrap them with operation context
// using fmt.Errorf and %w.
var (
	// ErrUnauthorized is returned when the caller is neither the privileged
	// system identity (for privileged operations) nor the owner of the
	// record being mutated (for self-service operations).
	ErrUnauthorized = errors.New("caller is not authorized")

	// ErrInvalidState is returned when an operation is attempted in a state
	// that cannot accept it: re-entrant epoch sealing, or classification of
	// a validator with no profile.
	ErrInvalidState = errors.New("operation not valid in current state")

	// ErrQuorumViolation is returned when jailing would shrink the validator
	// set below the configured quorum. The seal is aborted entirely: the old
	// set and epoch number are retained and the condition must be resolved
	// out of band.
	ErrQuorumViolation = errors.New("jailing would break validator quorum")
)

package domain

import "errors"

// Error kinds shared by every layer. Layers wrap them with fmt.Errorf("%w: ...")
// so handlers can map them with errors.Is.
var (
	// ErrInvalidInput malformed or missing input
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidRange start is not before end
	ErrInvalidRange = errors.New("invalid time range")

	// ErrPastDate date is before today
	ErrPastDate = errors.New("date is in the past")

	// ErrPastTime time on today's date is at or before now
	ErrPastTime = errors.New("time is in the past")

	// ErrSlotUnavailable slot already reserved, locally or by the store
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrInvalidProposalWindow express proposal outside 07:00-22:00 or malformed
	ErrInvalidProposalWindow = errors.New("invalid proposal window")

	// ErrInvalidTransition state machine violation
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrNotFound unknown appointment, payment or professional
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied requester is not allowed to act on the resource
	ErrAccessDenied = errors.New("access denied")

	// ErrRemoteUnavailable network or backend failure
	ErrRemoteUnavailable = errors.New("remote unavailable")

	// ErrExpressNotOffered professional has no express rate
	ErrExpressNotOffered = errors.New("professional does not offer express appointments")
)

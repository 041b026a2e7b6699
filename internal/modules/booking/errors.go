package booking

import "errors"

var (
	// ErrBusy rejects user input while a network call is outstanding. The
	// machine retains its state; the caller should disable controls instead
	// of queueing the event.
	ErrBusy = errors.New("booking workflow is busy")

	ErrInvalidTransition   = errors.New("invalid workflow transition")
	ErrNotBookable         = errors.New("time slot is in the past or outside working hours")
	ErrSlotOccupied        = errors.New("time slot conflicts with one of your reservations")
	ErrWorkspaceNotOffered = errors.New("workspace was not offered for the selected window")
)

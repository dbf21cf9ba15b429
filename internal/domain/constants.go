package domain

// Express proposal window (hours of day, inclusive)
const (
	ExpressWindowStartHour = 7
	ExpressWindowEndHour   = 22
)

// DaysPerWeek is the length of the generated slot window.
const DaysPerWeek = 7

// Business validation constants
const (
	MaxNotesLength = 500
)

// ActiveStatuses are the statuses that hold a slot.
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}

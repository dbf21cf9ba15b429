package domain

import "github.com/m04kA/SMC-TurnosService/pkg/types"

// BookableSlot is a concrete bookable block on a calendar date. Derived, never persisted.
type BookableSlot struct {
	Date  types.Date       `json:"date"`
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// DaySlots groups the slots of one date of the generated week.
type DaySlots struct {
	Date    types.Date     `json:"date"`
	Weekday Weekday        `json:"weekday"`
	Past    bool           `json:"past"`
	Slots   []BookableSlot `json:"slots"`
}

// ReservedSlot is a slot already held by an appointment.
type ReservedSlot struct {
	AppointmentID int64            `json:"appointmentId"`
	Date          types.Date       `json:"date"`
	Start         types.TimeString `json:"start"`
	End           types.TimeString `json:"end"`
}

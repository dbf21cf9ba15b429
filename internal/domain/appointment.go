package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TurnosService/pkg/types"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusRealized  AppointmentStatus = "realized"
	StatusCancelled AppointmentStatus = "cancelled"
)

// IsValid reports whether s is a known status.
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRealized, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for realized and cancelled.
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusRealized || s == StatusCancelled
}

// AppointmentKind is the appointment type. Unknown kinds coming from the store are kept as-is.
type AppointmentKind string

const (
	KindConsulta AppointmentKind = "consulta"
	KindControl  AppointmentKind = "control"
	KindExpress  AppointmentKind = "express"
)

// transitions lists allowed status moves. Nothing leaves realized or cancelled.
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusRealized, StatusCancelled},
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to AppointmentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Schedule is a concrete date and time range.
type Schedule struct {
	Date  types.Date       `json:"date"`
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// Validate checks the times are canonical and Start < End.
func (s Schedule) Validate() error {
	if s.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := s.Start.Validate(); err != nil {
		return fmt.Errorf("%w: start: %v", ErrInvalidInput, err)
	}
	if err := s.End.Validate(); err != nil {
		return fmt.Errorf("%w: end: %v", ErrInvalidInput, err)
	}
	if !s.Start.IsBefore(s.End) {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidRange, s.Start, s.End)
	}
	return nil
}

// StartsAt returns the start instant in loc.
func (s Schedule) StartsAt(loc *time.Location) time.Time {
	return s.Date.At(s.Start, loc)
}

// Appointment (turno) is owned by the store; the engine changes it only through transitions.
type Appointment struct {
	ID             int64
	ProfessionalID int64
	PatientID      int64
	Kind           AppointmentKind
	Status         AppointmentStatus
	Schedule       *Schedule // nil for an express request without proposal
	Cost           *float64
	Notes          *string

	// Express holds the negotiation state for kind=express, nil otherwise
	Express *ExpressState

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still holds its slot
func (a *Appointment) IsActive() bool {
	for _, s := range ActiveStatuses {
		if a.Status == s {
			return true
		}
	}
	return false
}

// IsExpress returns true for express appointments
func (a *Appointment) IsExpress() bool {
	return a.Kind == KindExpress
}

// IsParticipant returns true if userID is the patient or the professional
func (a *Appointment) IsParticipant(userID int64) bool {
	return a.PatientID == userID || a.ProfessionalID == userID
}

// CanBeCancelled returns true if the appointment can move to cancelled
func (a *Appointment) CanBeCancelled() bool {
	return CanTransition(a.Status, StatusCancelled)
}

// AppointmentsFilter optional filters for appointment lists.
type AppointmentsFilter struct {
	Status *AppointmentStatus
	Kind   *AppointmentKind
	From   *types.Date // inclusive
	To     *types.Date // inclusive
}

// Match applies the filter. Appointments without schedule pass date bounds.
func (f AppointmentsFilter) Match(a *Appointment) bool {
	if f.Status != nil && a.Status != *f.Status {
		return false
	}
	if f.Kind != nil && a.Kind != *f.Kind {
		return false
	}
	if a.Schedule == nil {
		return true
	}
	if f.From != nil && a.Schedule.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && a.Schedule.Date.After(*f.To) {
		return false
	}
	return true
}

// FilterAppointments returns the appointments matching f, preserving order.
func FilterAppointments(appts []*Appointment, f AppointmentsFilter) []*Appointment {
	result := make([]*Appointment, 0, len(appts))
	for _, a := range appts {
		if f.Match(a) {
			result = append(result, a)
		}
	}
	return result
}

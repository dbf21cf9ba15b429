package domain

import "time"

// ExpressStateKind is the tag of the express negotiation state.
type ExpressStateKind string

const (
	ExpressRequested ExpressStateKind = "requested"
	ExpressProposed  ExpressStateKind = "proposed"
	ExpressConfirmed ExpressStateKind = "confirmed"
	ExpressRejected  ExpressStateKind = "rejected"
)

// ExpressState is the negotiation state of an express appointment.
//
//	Requested -> Proposed(schedule) -> Confirmed(appointmentID)
//	Requested | Proposed -> Rejected
//	Proposed -> Proposed (re-proposal replaces the schedule)
type ExpressState struct {
	Kind ExpressStateKind `json:"kind"`
	// Proposal is set for Proposed and Confirmed
	Proposal *Schedule `json:"proposal,omitempty"`
	// AppointmentID is set for Confirmed
	AppointmentID int64 `json:"appointmentId,omitempty"`
	// ExpiresAt is reserved for a proposal expiry policy; the engine never sets it
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func RequestedState() ExpressState {
	return ExpressState{Kind: ExpressRequested}
}

func ProposedState(s Schedule) ExpressState {
	return ExpressState{Kind: ExpressProposed, Proposal: &s}
}

func ConfirmedState(appointmentID int64, s Schedule) ExpressState {
	return ExpressState{Kind: ExpressConfirmed, Proposal: &s, AppointmentID: appointmentID}
}

func RejectedState() ExpressState {
	return ExpressState{Kind: ExpressRejected}
}

// CanPropose returns true for Requested and Proposed
func (s ExpressState) CanPropose() bool {
	return s.Kind == ExpressRequested || s.Kind == ExpressProposed
}

// CanConfirm returns true only for Proposed
func (s ExpressState) CanConfirm() bool {
	return s.Kind == ExpressProposed && s.Proposal != nil
}

// CanReject returns true for Requested and Proposed
func (s ExpressState) CanReject() bool {
	return s.Kind == ExpressRequested || s.Kind == ExpressProposed
}

// IsOpen returns true while the patient or professional can still act
func (s ExpressState) IsOpen() bool {
	return s.CanReject()
}

// ExpressStateOf returns the explicit state of an express appointment. Records written
// without an explicit state are derived from status and schedule.
func ExpressStateOf(a *Appointment) ExpressState {
	if a.Express != nil {
		return *a.Express
	}

	switch a.Status {
	case StatusCancelled:
		return RejectedState()
	case StatusConfirmed, StatusRealized:
		if a.Schedule != nil {
			return ConfirmedState(a.ID, *a.Schedule)
		}
		return ExpressState{Kind: ExpressConfirmed, AppointmentID: a.ID}
	default:
		if a.Schedule != nil {
			return ProposedState(*a.Schedule)
		}
		return RequestedState()
	}
}

// ExpressProposal is the schedule a professional offers for an express request (turno).
type ExpressProposal struct {
	TurnoID  int64
	Schedule Schedule
}

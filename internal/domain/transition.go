package domain

import "fmt"

// The functions below mutate a in place and leave it untouched on error.
// Stores call them on a copy (or a locked row) and persist the result.

// Cancel moves a to cancelled. An open express negotiation becomes Rejected.
func Cancel(a *Appointment) error {
	if !CanTransition(a.Status, StatusCancelled) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, StatusCancelled)
	}
	a.Status = StatusCancelled
	if a.IsExpress() && ExpressStateOf(a).IsOpen() {
		rejected := RejectedState()
		a.Express = &rejected
	}
	return nil
}

// Realize moves a confirmed appointment to realized.
func Realize(a *Appointment) error {
	if !CanTransition(a.Status, StatusRealized) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, StatusRealized)
	}
	a.Status = StatusRealized
	return nil
}

// Propose attaches s to an express request. A repeated proposal replaces the previous one.
func Propose(a *Appointment, s Schedule) error {
	if !a.IsExpress() {
		return fmt.Errorf("%w: appointment id=%d is not express", ErrInvalidTransition, a.ID)
	}
	state := ExpressStateOf(a)
	if !state.CanPropose() {
		return fmt.Errorf("%w: cannot propose in state %s", ErrInvalidTransition, state.Kind)
	}
	sch := s
	proposed := ProposedState(s)
	a.Schedule = &sch
	a.Express = &proposed
	return nil
}

// Confirm accepts the current proposal and sets the cost. It returns the
// confirmed schedule so the caller can check the slot and create the payment.
func Confirm(a *Appointment, cost float64) (Schedule, error) {
	state := ExpressStateOf(a)
	if !a.IsExpress() || !state.CanConfirm() {
		return Schedule{}, fmt.Errorf("%w: cannot confirm in state %s", ErrInvalidTransition, state.Kind)
	}
	sch := *state.Proposal
	confirmed := ConfirmedState(a.ID, sch)
	a.Status = StatusConfirmed
	a.Schedule = &sch
	a.Cost = &cost
	a.Express = &confirmed
	return sch, nil
}

// Reject closes an open express negotiation.
func Reject(a *Appointment) error {
	state := ExpressStateOf(a)
	if !a.IsExpress() || !state.CanReject() {
		return fmt.Errorf("%w: cannot reject in state %s", ErrInvalidTransition, state.Kind)
	}
	rejected := RejectedState()
	a.Status = StatusCancelled
	a.Express = &rejected
	return nil
}

// PendingPayment builds the pendiente payment created on express confirmation.
func PendingPayment(a *Appointment, amount float64) *PaymentRecord {
	return &PaymentRecord{
		AppointmentID:  a.ID,
		ProfessionalID: a.ProfessionalID,
		PatientID:      a.PatientID,
		Status:         PaymentPending,
		Amount:         amount,
	}
}

package domain

import "time"

// PaymentStatus is the status flag of a payment record
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "pagado"
	PaymentPending PaymentStatus = "pendiente"
	// PaymentUnknown means there is no payment record for the appointment
	PaymentUnknown PaymentStatus = "unknown"
)

// PaymentRecord is the payment row keyed by appointment id.
type PaymentRecord struct {
	AppointmentID  int64
	ProfessionalID int64
	PatientID      int64
	Status         PaymentStatus
	Amount         float64
	UpdatedAt      time.Time
}

// CanMarkPaid returns true only for pendiente
func (p *PaymentRecord) CanMarkPaid() bool {
	return p.Status == PaymentPending
}

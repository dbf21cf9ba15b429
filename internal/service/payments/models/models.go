package models

import (
	"time"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
)

// PaymentResponse статус оплаты турна
type PaymentResponse struct {
	AppointmentID int64                `json:"appointmentId"`
	Status        domain.PaymentStatus `json:"status"`
	Amount        *float64             `json:"amount,omitempty"`
	UpdatedAt     *time.Time           `json:"updatedAt,omitempty"`
}

// PaymentListResponse статусы оплат профессионала
type PaymentListResponse struct {
	ProfessionalID int64              `json:"professionalId"`
	Payments       []*PaymentResponse `json:"payments"`
}

// FromDomain конвертирует запись об оплате в ответ
func FromDomain(p *domain.PaymentRecord) *PaymentResponse {
	amount, updatedAt := p.Amount, p.UpdatedAt
	return &PaymentResponse{
		AppointmentID: p.AppointmentID,
		Status:        p.Status,
		Amount:        &amount,
		UpdatedAt:     &updatedAt,
	}
}

// Unknown ответ для турна без записи об оплате
func Unknown(appointmentID int64) *PaymentResponse {
	return &PaymentResponse{AppointmentID: appointmentID, Status: domain.PaymentUnknown}
}

// FromDomainList конвертирует список оплат
func FromDomainList(professionalID int64, records []*domain.PaymentRecord) *PaymentListResponse {
	result := make([]*PaymentResponse, 0, len(records))
	for _, p := range records {
		result = append(result, FromDomain(p))
	}
	return &PaymentListResponse{ProfessionalID: professionalID, Payments: result}
}

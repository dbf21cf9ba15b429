package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
	"github.com/m04kA/SMC-TurnosService/pkg/types"
)

// Request модели

// GetPatientAppointmentsRequest запрос на получение турнов пациента
type GetPatientAppointmentsRequest struct {
	RequestedBy int64
	PatientID   int64
	Status      *string
}

// GetProfessionalAppointmentsRequest запрос на получение турнов профессионала
type GetProfessionalAppointmentsRequest struct {
	RequestedBy    int64
	ProfessionalID int64
	Status         *string
	From           *types.Date
	To             *types.Date
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetProfessionalAppointmentsRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{From: r.From, To: r.To}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return filter, fmt.Errorf("%w: to must not be before from", domain.ErrInvalidRange)
	}

	return filter, nil
}

// ToDomainStatus разбирает статус из строки запроса
func ToDomainStatus(s string) (domain.AppointmentStatus, error) {
	status := domain.AppointmentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, s)
	}
	return status, nil
}

// Response модели

// ExpressStateResponse состояние экспресс-переговоров
type ExpressStateResponse struct {
	State    domain.ExpressStateKind `json:"state"`
	Proposal *domain.Schedule        `json:"proposal,omitempty"`
}

// AppointmentResponse ответ с данными турна
type AppointmentResponse struct {
	ID             int64                    `json:"id"`
	ProfessionalID int64                    `json:"professionalId"`
	PatientID      int64                    `json:"patientId"`
	Kind           domain.AppointmentKind   `json:"kind"`
	Status         domain.AppointmentStatus `json:"status"`
	Date           *types.Date              `json:"date,omitempty"`
	Start          *types.TimeString        `json:"start,omitempty"`
	End            *types.TimeString        `json:"end,omitempty"`
	Cost           *float64                 `json:"cost,omitempty"`
	Notes          *string                  `json:"notes,omitempty"`
	Express        *ExpressStateResponse    `json:"express,omitempty"`
	PaymentStatus  domain.PaymentStatus     `json:"paymentStatus,omitempty"`
	CreatedAt      time.Time                `json:"createdAt"`
	UpdatedAt      time.Time                `json:"updatedAt"`
}

// AppointmentListResponse список турнов
type AppointmentListResponse struct {
	Appointments []*AppointmentResponse `json:"appointments"`
	Total        int                    `json:"total"`
}

// FromDomainAppointment конвертирует доменный турн в ответ
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	resp := &AppointmentResponse{
		ID:             a.ID,
		ProfessionalID: a.ProfessionalID,
		PatientID:      a.PatientID,
		Kind:           a.Kind,
		Status:         a.Status,
		Cost:           a.Cost,
		Notes:          a.Notes,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}

	if a.Schedule != nil {
		date, start, end := a.Schedule.Date, a.Schedule.Start, a.Schedule.End
		resp.Date = &date
		resp.Start = &start
		resp.End = &end
	}

	if a.IsExpress() {
		state := domain.ExpressStateOf(a)
		resp.Express = &ExpressStateResponse{State: state.Kind, Proposal: state.Proposal}
	}

	return resp
}

// FromDomainAppointments конвертирует список турнов
func FromDomainAppointments(appts []*domain.Appointment) *AppointmentListResponse {
	result := make([]*AppointmentResponse, 0, len(appts))
	for _, a := range appts {
		result = append(result, FromDomainAppointment(a))
	}
	return &AppointmentListResponse{Appointments: result, Total: len(result)}
}

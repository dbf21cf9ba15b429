package turnosapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
	"github.com/m04kA/SMC-TurnosService/pkg/types"
)

// Модели чтения: даты DD-MM-YYYY, время HH:MM:SS

// AvailabilityRow строка доступности бэкенда
type AvailabilityRow struct {
	Weekday string `json:"dia_semana"`
	Start   string `json:"hora_inicio"`
	End     string `json:"hora_fin"`
}

// Appointment турн в формате бэкенда
type Appointment struct {
	ID             int64    `json:"id"`
	ProfessionalID int64    `json:"profesional_id"`
	PatientID      int64    `json:"paciente_id"`
	Date           *string  `json:"fecha"`
	Start          *string  `json:"hora_inicio"`
	End            *string  `json:"hora_fin"`
	Kind           string   `json:"tipo"`
	Status         string   `json:"estado"`
	Cost           *float64 `json:"costo"`
	Notes          *string  `json:"notas"`
	// ExpressState явное состояние переговоров, если бэкенд его хранит
	ExpressState *string   `json:"estado_express"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Payment запись об оплате
type Payment struct {
	AppointmentID  int64     `json:"turno_id"`
	ProfessionalID int64     `json:"profesional_id"`
	PatientID      int64     `json:"paciente_id"`
	Status         string    `json:"estado"`
	Amount         float64   `json:"monto"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Professional профессионал
type Professional struct {
	ID          int64    `json:"id"`
	Name        string   `json:"nombre"`
	ExpressRate *float64 `json:"tarifa_express"`
}

// ErrorResponse модель ошибки бэкенда
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Модели записи: даты YYYY-MM-DD, время HH:MM

type availabilityWrite struct {
	Weekday string `json:"dia_semana"`
	Start   string `json:"hora_inicio"`
	End     string `json:"hora_fin"`
}

type appointmentWrite struct {
	ProfessionalID int64   `json:"profesional_id"`
	PatientID      int64   `json:"paciente_id"`
	Date           string  `json:"fecha"`
	Start          string  `json:"hora_inicio"`
	End            string  `json:"hora_fin"`
	Kind           string  `json:"tipo"`
	Status         string  `json:"estado"`
	Notes          *string `json:"notas,omitempty"`
}

type expressWrite struct {
	ProfessionalID int64   `json:"profesional_id"`
	PatientID      int64   `json:"paciente_id"`
	Notes          *string `json:"notas,omitempty"`
}

type proposalWrite struct {
	Date  string `json:"fecha"`
	Start string `json:"hora_inicio"`
	End   string `json:"hora_fin"`
}

type confirmWrite struct {
	Cost float64 `json:"costo"`
}

type paymentWrite struct {
	Status string `json:"estado"`
}

// statusAliases бэкенд исторически отдаёт статусы и по-испански
var statusAliases = map[string]domain.AppointmentStatus{
	"pending":    domain.StatusPending,
	"pendiente":  domain.StatusPending,
	"confirmed":  domain.StatusConfirmed,
	"confirmado": domain.StatusConfirmed,
	"realized":   domain.StatusRealized,
	"realizado":  domain.StatusRealized,
	"cancelled":  domain.StatusCancelled,
	"canceled":   domain.StatusCancelled,
	"cancelado":  domain.StatusCancelled,
}

func toDomainStatus(s string) (domain.AppointmentStatus, error) {
	status, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: unknown appointment status %q", ErrInvalidResponse, s)
	}
	return status, nil
}

// toDomain конвертирует турн бэкенда. Расписание без даты или времени считается отсутствующим
func (a *Appointment) toDomain() (*domain.Appointment, error) {
	status, err := toDomainStatus(a.Status)
	if err != nil {
		return nil, err
	}

	appt := &domain.Appointment{
		ID:             a.ID,
		ProfessionalID: a.ProfessionalID,
		PatientID:      a.PatientID,
		Kind:           domain.AppointmentKind(strings.ToLower(a.Kind)),
		Status:         status,
		Cost:           a.Cost,
		Notes:          a.Notes,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}

	if a.Date != nil && *a.Date != "" && a.Start != nil && *a.Start != "" && a.End != nil && *a.End != "" {
		date, err := types.ParseDate(*a.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: appointment id=%d: %v", ErrInvalidResponse, a.ID, err)
		}
		start, err := types.NewTimeStringFromString(*a.Start)
		if err != nil {
			return nil, fmt.Errorf("%w: appointment id=%d: %v", ErrInvalidResponse, a.ID, err)
		}
		end, err := types.NewTimeStringFromString(*a.End)
		if err != nil {
			return nil, fmt.Errorf("%w: appointment id=%d: %v", ErrInvalidResponse, a.ID, err)
		}
		appt.Schedule = &domain.Schedule{Date: date, Start: start, End: end}
	}

	if appt.IsExpress() {
		state := domain.ExpressStateOf(appt)
		if a.ExpressState != nil {
			state.Kind = domain.ExpressStateKind(strings.ToLower(*a.ExpressState))
		}
		appt.Express = &state
	}

	return appt, nil
}

func toDomainAppointments(items []Appointment) ([]*domain.Appointment, error) {
	result := make([]*domain.Appointment, 0, len(items))
	for i := range items {
		appt, err := items[i].toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, appt)
	}
	return result, nil
}

func (p *Payment) toDomain() *domain.PaymentRecord {
	status := domain.PaymentStatus(strings.ToLower(p.Status))
	if status != domain.PaymentPaid && status != domain.PaymentPending {
		status = domain.PaymentUnknown
	}
	return &domain.PaymentRecord{
		AppointmentID:  p.AppointmentID,
		ProfessionalID: p.ProfessionalID,
		PatientID:      p.PatientID,
		Status:         status,
		Amount:         p.Amount,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (p *Professional) toDomain() *domain.Professional {
	return &domain.Professional{ID: p.ID, Name: p.Name, ExpressRate: p.ExpressRate}
}

func fromDomainSchedule(s domain.Schedule) proposalWrite {
	return proposalWrite{Date: s.Date.String(), Start: s.Start.String(), End: s.End.String()}
}

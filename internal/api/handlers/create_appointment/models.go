package create_appointment

import (
	"fmt"

	"github.com/m04kA/SMC-TurnosService/internal/api/handlers"
	slotsHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/get_available_slots"
	"github.com/m04kA/SMC-TurnosService/internal/domain"
	createAppointment "github.com/m04kA/SMC-TurnosService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-TurnosService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ProfessionalID int64   `json:"professionalId"`
	Date           string  `json:"date"`  // "2025-11-20"
	Start          string  `json:"start"` // "09:00"
	End            string  `json:"end"`   // "10:00"
	Kind           string  `json:"kind,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

// ConflictResponse ответ 409: ошибка и актуальная неделя слотов
type ConflictResponse struct {
	handlers.ErrorResponse
	Slots *slotsHandler.WeekResponse `json:"slots,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (с парсингом даты и времени)
func (r *CreateAppointmentRequest) ToUseCaseRequest(patientID int64) (*createAppointment.Request, error) {
	date, err := types.ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date: %v", domain.ErrInvalidInput, err)
	}

	start, err := types.NewTimeStringFromString(r.Start)
	if err != nil {
		return nil, fmt.Errorf("%w: start: %v", domain.ErrInvalidInput, err)
	}

	end, err := types.NewTimeStringFromString(r.End)
	if err != nil {
		return nil, fmt.Errorf("%w: end: %v", domain.ErrInvalidInput, err)
	}

	return &createAppointment.Request{
		PatientID:      patientID,
		ProfessionalID: r.ProfessionalID,
		Date:           date,
		Start:          start,
		End:            end,
		Kind:           domain.AppointmentKind(r.Kind),
		Notes:          r.Notes,
	}, nil
}

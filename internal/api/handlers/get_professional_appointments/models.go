package get_professional_appointments

import (
	"github.com/m04kA/SMC-TurnosService/internal/service/appointments/models"
	"github.com/m04kA/SMC-TurnosService/pkg/types"
)

// ToServiceRequest создает запрос сервиса из query параметров (все опциональны)
func ToServiceRequest(professionalID, requestedBy int64, statusStr, fromStr, toStr string) (*models.GetProfessionalAppointmentsRequest, error) {
	req := &models.GetProfessionalAppointmentsRequest{
		RequestedBy:    requestedBy,
		ProfessionalID: professionalID,
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if fromStr != "" {
		from, err := types.ParseISODate(fromStr)
		if err != nil {
			return nil, err
		}
		req.From = &from
	}

	if toStr != "" {
		to, err := types.ParseISODate(toStr)
		if err != nil {
			return nil, err
		}
		req.To = &to
	}

	return req, nil
}

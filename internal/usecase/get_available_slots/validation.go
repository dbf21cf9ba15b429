package get_available_slots

import (
	"fmt"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxWeekOffset int) error {
	if req.PatientID <= 0 {
		return fmt.Errorf("%w: patientID must be positive", domain.ErrInvalidInput)
	}

	if req.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professionalID must be positive", domain.ErrInvalidInput)
	}

	// Навигация в прошлое запрещена
	if req.WeekOffset < 0 {
		return fmt.Errorf("%w: weekOffset must not be negative", domain.ErrInvalidInput)
	}

	// Если maxWeekOffset = 0, нет ограничений на горизонт
	if maxWeekOffset > 0 && req.WeekOffset > maxWeekOffset {
		return fmt.Errorf("%w: weekOffset must be at most %d", domain.ErrInvalidInput, maxWeekOffset)
	}

	return nil
}

package create_appointment

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
	"github.com/m04kA/SMC-TurnosService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.PatientID <= 0 {
		return fmt.Errorf("%w: patientID must be positive", domain.ErrInvalidInput)
	}

	if req.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professionalID must be positive", domain.ErrInvalidInput)
	}

	if req.PatientID == req.ProfessionalID {
		return fmt.Errorf("%w: cannot book an appointment with yourself", domain.ErrInvalidInput)
	}

	// Экспресс-турны создаются только через переговоры
	if req.Kind == domain.KindExpress {
		return fmt.Errorf("%w: express appointments must be requested, not booked", domain.ErrInvalidInput)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", domain.ErrInvalidInput, domain.MaxNotesLength)
	}

	// InvalidInput для формата, InvalidRange для start >= end
	return req.Schedule().Validate()
}

// validateNotInPast проверяет, что турн не в прошлом относительно now
func validateNotInPast(sch domain.Schedule, now time.Time) error {
	today := types.DateOf(now)

	if sch.Date.Before(today) {
		return fmt.Errorf("%w: %s is before %s", domain.ErrPastDate, sch.Date, today)
	}

	// Сегодня: начало должно быть строго позже текущего HH:MM
	if sch.Date == today && sch.Start.Minutes() <= types.NewTimeString(now).Minutes() {
		return fmt.Errorf("%w: %s is not after %s", domain.ErrPastTime, sch.Start, types.NewTimeString(now))
	}

	return nil
}

// weekOffsetFor номер недели слотов, содержащей date
func weekOffsetFor(date types.Date, now time.Time) int {
	days := types.DateOf(now).DaysUntil(date)
	if days < 0 {
		return 0
	}
	return days / domain.DaysPerWeek
}

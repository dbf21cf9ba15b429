package express

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
	"github.com/m04kA/SMC-TurnosService/internal/service/express/models"
	"github.com/m04kA/SMC-TurnosService/pkg/types"
)

// validateCreate валидирует запрос пациента
func validateCreate(req *models.CreateRequest) error {
	if req.PatientID <= 0 || req.ProfessionalID <= 0 {
		return fmt.Errorf("%w: patientID and professionalID must be positive", domain.ErrInvalidInput)
	}
	if req.PatientID == req.ProfessionalID {
		return fmt.Errorf("%w: cannot request an express appointment with yourself", domain.ErrInvalidInput)
	}
	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", domain.ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}

// parseProposal проверяет окно предложения: дата не раньше сегодня, start < end, 07:00 <= start, end <= 22:00.
// Любое нарушение - ErrInvalidProposalWindow; дата в прошлом дополнительно ErrPastDate
func parseProposal(req *models.ProposeRequest, now time.Time) (domain.ExpressProposal, error) {
	var sch domain.ExpressProposal

	date, err := types.ParseDate(req.Date)
	if err != nil {
		return sch, fmt.Errorf("%w: date: %v", domain.ErrInvalidProposalWindow, err)
	}

	start, err := types.ParseStrictTimeString(req.Start)
	if err != nil {
		return sch, fmt.Errorf("%w: start: %v", domain.ErrInvalidProposalWindow, err)
	}

	end, err := types.ParseStrictTimeString(req.End)
	if err != nil {
		return sch, fmt.Errorf("%w: end: %v", domain.ErrInvalidProposalWindow, err)
	}

	if today := types.DateOf(now); date.Before(today) {
		return sch, fmt.Errorf("%w: %w: %s is before %s", domain.ErrInvalidProposalWindow, domain.ErrPastDate, date, today)
	}

	if !start.IsBefore(end) {
		return sch, fmt.Errorf("%w: start %s must be before end %s", domain.ErrInvalidProposalWindow, start, end)
	}

	if start.Hour() < domain.ExpressWindowStartHour {
		return sch, fmt.Errorf("%w: start %s is before %02d:00", domain.ErrInvalidProposalWindow, start, domain.ExpressWindowStartHour)
	}

	if end.Minutes() > domain.ExpressWindowEndHour*60 {
		return sch, fmt.Errorf("%w: end %s is after %02d:00", domain.ErrInvalidProposalWindow, end, domain.ExpressWindowEndHour)
	}

	return domain.ExpressProposal{
		TurnoID:  req.AppointmentID,
		Schedule: domain.Schedule{Date: date, Start: start, End: end},
	}, nil
}

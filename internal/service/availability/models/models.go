package models

import (
	"github.com/m04kA/SMC-TurnosService/internal/domain"
	"github.com/m04kA/SMC-TurnosService/pkg/types"
)

// Request модели

// SetAvailabilityRequest замена недельной доступности целиком
type SetAvailabilityRequest struct {
	RequestedBy    int64                       `json:"-"`
	ProfessionalID int64                       `json:"-"`
	Records        []domain.AvailabilityRecord `json:"availability"`
}

// Response модели

// Block блок времени в ответе
type Block struct {
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// Day блоки одного дня недели
type Day struct {
	Weekday domain.Weekday `json:"weekday"`
	Blocks  []Block        `json:"blocks"`
}

// WeeklyResponse недельная доступность в каноническом порядке дней
type WeeklyResponse struct {
	ProfessionalID int64 `json:"professionalId"`
	Days           []Day `json:"days"`
	// Skipped количество строк источника, отброшенных нормализатором
	Skipped int `json:"skipped"`
}

// FromDomain конвертирует доменную доступность в ответ. Дни без блоков не включаются
func FromDomain(professionalID int64, weekly domain.WeeklyAvailability, skipped int) *WeeklyResponse {
	resp := &WeeklyResponse{
		ProfessionalID: professionalID,
		Days:           make([]Day, 0, len(weekly)),
		Skipped:        skipped,
	}

	for _, day := range domain.Weekdays {
		blocks := weekly.BlocksFor(day)
		if len(blocks) == 0 {
			continue
		}
		out := make([]Block, 0, len(blocks))
		for _, b := range blocks {
			out = append(out, Block{Start: b.Start, End: b.End})
		}
		resp.Days = append(resp.Days, Day{Weekday: day, Blocks: out})
	}

	return resp
}

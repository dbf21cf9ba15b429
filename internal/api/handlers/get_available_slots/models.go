package get_available_slots

import (
	"strconv"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-TurnosService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-TurnosService/pkg/types"
)

// WeekResponse HTTP response model: неделя бронируемых слотов
type WeekResponse struct {
	ProfessionalID int64                 `json:"professionalId"`
	WeekOffset     int                   `json:"weekOffset"`
	From           types.Date            `json:"from"`
	To             types.Date            `json:"to"`
	Days           []domain.DaySlots     `json:"days"`
	Reserved       []domain.ReservedSlot `json:"reserved"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *WeekResponse {
	days := resp.Days
	if days == nil {
		days = []domain.DaySlots{}
	}
	reserved := resp.Reserved
	if reserved == nil {
		reserved = []domain.ReservedSlot{}
	}

	return &WeekResponse{
		ProfessionalID: resp.ProfessionalID,
		WeekOffset:     resp.WeekOffset,
		From:           resp.From,
		To:             resp.To,
		Days:           days,
		Reserved:       reserved,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров. Пустой weekOffset - текущая неделя
func ToUseCaseRequest(patientID, professionalID int64, weekOffset string) (*getAvailableSlots.Request, error) {
	offset := 0
	if weekOffset != "" {
		parsed, err := strconv.Atoi(weekOffset)
		if err != nil {
			return nil, err
		}
		offset = parsed
	}

	return &getAvailableSlots.Request{
		PatientID:      patientID,
		ProfessionalID: professionalID,
		WeekOffset:     offset,
	}, nil
}

// CountSlots количество бронируемых слотов недели
func CountSlots(resp *getAvailableSlots.Response) int {
	total := 0
	for _, day := range resp.Days {
		total += len(day.Slots)
	}
	return total
}

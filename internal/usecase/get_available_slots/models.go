package get_available_slots

import (
	"github.com/m04kA/SMC-TurnosService/internal/domain"
	"github.com/m04kA/SMC-TurnosService/pkg/types"
)

// Request модель запроса на получение недели слотов
type Request struct {
	PatientID      int64 // ID пациента, чьи турны исключаются из слотов
	ProfessionalID int64 // ID профессионала
	WeekOffset     int   // 0 - текущая неделя (от сегодняшнего дня), 1 - следующая и т.д.
}

// Response модель ответа с неделей слотов
type Response struct {
	ProfessionalID int64
	WeekOffset     int
	From           types.Date        // первый день окна
	To             types.Date        // последний день окна (включительно)
	Days           []domain.DaySlots // ровно 7 дней
	// Reserved слоты пациента у этого профессионала в окне, скрытые из Days
	Reserved []domain.ReservedSlot
}

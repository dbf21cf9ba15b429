package create_appointment

import (
	"github.com/m04kA/SMC-TurnosService/internal/domain"
	"github.com/m04kA/SMC-TurnosService/pkg/types"
)

// Request модель запроса на создание турна
type Request struct {
	PatientID      int64                  // ID пациента (из X-User-ID)
	ProfessionalID int64                  // ID профессионала
	Date           types.Date             // Дата турна
	Start          types.TimeString       // Время начала, HH:MM
	End            types.TimeString       // Время окончания, HH:MM
	Kind           domain.AppointmentKind // consulta, control; пусто - consulta
	Notes          *string                // Заметки (опционально)
}

// Schedule возвращает расписание запроса
func (r *Request) Schedule() domain.Schedule {
	return domain.Schedule{Date: r.Date, Start: r.Start, End: r.End}
}

package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
)

// AvailabilityProvider недельная доступность профессионала (нормализованная, через кэш)
type AvailabilityProvider interface {
	Weekly(ctx context.Context, professionalID int64) (domain.WeeklyAvailability, error)
}

// AppointmentsProvider турны пациента (через кэш)
type AppointmentsProvider interface {
	PatientAppointments(ctx context.Context, patientID int64) ([]*domain.Appointment, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени в часовом поясе расписания
type RealTimeProvider struct {
	Location *time.Location
}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	if p.Location == nil {
		return time.Now()
	}
	return time.Now().In(p.Location)
}

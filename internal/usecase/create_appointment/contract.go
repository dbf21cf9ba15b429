package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
	"github.com/m04kA/SMC-TurnosService/internal/usecase/get_available_slots"
)

// Store хранилище турнов. Проверка занятости слота в хранилище - окончательная
type Store interface {
	CreateAppointment(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
}

// AppointmentsProvider турны пациента (через кэш)
type AppointmentsProvider interface {
	PatientAppointments(ctx context.Context, patientID int64) ([]*domain.Appointment, error)
}

// SlotsProvider неделя доступных слотов для ответа при конфликте
type SlotsProvider interface {
	Execute(ctx context.Context, req *get_available_slots.Request) (*get_available_slots.Response, error)
}

// CacheInvalidator инвалидация кэша после мутации
type CacheInvalidator interface {
	Invalidate(ctx context.Context, keys ...string)
}

// Metrics счётчики переходов и конфликтов
type Metrics interface {
	AppointmentTransition(to string)
	SlotConflict(source string)
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

package express

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
)

// Store хранилище экспресс-турнов
type Store interface {
	GetProfessional(ctx context.Context, id int64) (*domain.Professional, error)
	GetAppointment(ctx context.Context, id int64) (*domain.Appointment, error)
	CreateExpress(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	ListExpress(ctx context.Context, professionalID int64) ([]*domain.Appointment, error)
	ProposeExpress(ctx context.Context, proposal domain.ExpressProposal) (*domain.Appointment, error)
	ConfirmExpress(ctx context.Context, id int64, cost float64) (*domain.Appointment, error)
	RejectExpress(ctx context.Context, id int64) (*domain.Appointment, error)
}

// AppointmentsProvider турны пациента (через кэш) для локальной проверки конфликта
type AppointmentsProvider interface {
	PatientAppointments(ctx context.Context, patientID int64) ([]*domain.Appointment, error)
}

// Metrics счётчики переходов экспресс-переговоров
type Metrics interface {
	ExpressTransition(to string)
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

package appointments

import (
	"context"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
)

// Store хранилище турнов
type Store interface {
	GetAppointment(ctx context.Context, id int64) (*domain.Appointment, error)
	ListPatientAppointments(ctx context.Context, patientID int64) ([]*domain.Appointment, error)
	ListProfessionalAppointments(ctx context.Context, professionalID int64) ([]*domain.Appointment, error)
	CancelAppointment(ctx context.Context, id int64) (*domain.Appointment, error)
	RealizeAppointment(ctx context.Context, id int64) (*domain.Appointment, error)
}

// PaymentStatusReader статус оплаты для карточки турна
type PaymentStatusReader interface {
	StatusOf(ctx context.Context, appointment *domain.Appointment) (domain.PaymentStatus, error)
}

// Metrics счётчики переходов статусов
type Metrics interface {
	AppointmentTransition(to string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

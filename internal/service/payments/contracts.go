package payments

import (
	"context"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
)

// Store хранилище статусов оплаты
type Store interface {
	GetAppointment(ctx context.Context, id int64) (*domain.Appointment, error)
	GetPayment(ctx context.Context, appointmentID int64) (*domain.PaymentRecord, error)
	ListPayments(ctx context.Context, professionalID int64) ([]*domain.PaymentRecord, error)
	MarkPaid(ctx context.Context, appointmentID int64) (*domain.PaymentRecord, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package pgstore

import (
	"context"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
)

// AppointmentRepository репозиторий турнов
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Appointment, error)
	ListByPatient(ctx context.Context, patientID int64) ([]*domain.Appointment, error)
	ListByProfessional(ctx context.Context, professionalID int64) ([]*domain.Appointment, error)
	ListExpressByProfessional(ctx context.Context, professionalID int64) ([]*domain.Appointment, error)
	Update(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
}

// AvailabilityRepository репозиторий сырых строк доступности
type AvailabilityRepository interface {
	List(ctx context.Context, professionalID int64) ([]domain.AvailabilityRecord, error)
	Replace(ctx context.Context, professionalID int64, records []domain.AvailabilityRecord) error
}

// PaymentRepository репозиторий оплат
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.PaymentRecord) (*domain.PaymentRecord, error)
	GetByAppointment(ctx context.Context, appointmentID int64) (*domain.PaymentRecord, error)
	ListByProfessional(ctx context.Context, professionalID int64) ([]*domain.PaymentRecord, error)
	MarkPaid(ctx context.Context, appointmentID int64) (*domain.PaymentRecord, error)
}

// ProfessionalRepository репозиторий профессионалов
type ProfessionalRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Professional, error)
}

// TxManager выполняет функцию внутри транзакции
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

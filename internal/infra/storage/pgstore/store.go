package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
	"github.com/m04kA/SMC-TurnosService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-TurnosService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-TurnosService/internal/infra/storage/professional"
)

// Store реализует порт хранилища поверх PostgreSQL
// Переходы состояний выполняются в транзакции с блокировкой строки турна
type Store struct {
	appointments  AppointmentRepository
	availability  AvailabilityRepository
	payments      PaymentRepository
	professionals ProfessionalRepository
	tx            TxManager
}

// New создает новое хранилище
func New(
	appointments AppointmentRepository,
	availability AvailabilityRepository,
	payments PaymentRepository,
	professionals ProfessionalRepository,
	tx TxManager,
) *Store {
	return &Store{
		appointments:  appointments,
		availability:  availability,
		payments:      payments,
		professionals: professionals,
		tx:            tx,
	}
}

// Availability

func (s *Store) GetAvailability(ctx context.Context, professionalID int64) ([]domain.AvailabilityRecord, error) {
	records, err := s.availability.List(ctx, professionalID)
	return records, mapError(err)
}

func (s *Store) SetAvailability(ctx context.Context, professionalID int64, records []domain.AvailabilityRecord) error {
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		return s.availability.Replace(ctx, professionalID, records)
	})
	return mapError(err)
}

// Professionals

func (s *Store) GetProfessional(ctx context.Context, id int64) (*domain.Professional, error) {
	p, err := s.professionals.GetByID(ctx, id)
	return p, mapError(err)
}

// Appointments

func (s *Store) GetAppointment(ctx context.Context, id int64) (*domain.Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, id)
	return appt, mapError(err)
}

func (s *Store) ListPatientAppointments(ctx context.Context, patientID int64) ([]*domain.Appointment, error) {
	appts, err := s.appointments.ListByPatient(ctx, patientID)
	return appts, mapError(err)
}

func (s *Store) ListProfessionalAppointments(ctx context.Context, professionalID int64) ([]*domain.Appointment, error) {
	appts, err := s.appointments.ListByProfessional(ctx, professionalID)
	return appts, mapError(err)
}

// CreateAppointment вставляет турн; занятость слота проверяет уникальный индекс
func (s *Store) CreateAppointment(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if appt.Schedule == nil {
		return nil, fmt.Errorf("%w: schedule is required", domain.ErrInvalidInput)
	}
	created, err := s.appointments.Create(ctx, appt)
	return created, mapError(err)
}

func (s *Store) CancelAppointment(ctx context.Context, id int64) (*domain.Appointment, error) {
	return s.transition(ctx, id, domain.Cancel)
}

func (s *Store) RealizeAppointment(ctx context.Context, id int64) (*domain.Appointment, error) {
	return s.transition(ctx, id, domain.Realize)
}

// Express

func (s *Store) CreateExpress(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	requested := domain.RequestedState()
	req := *appt
	req.Kind = domain.KindExpress
	req.Status = domain.StatusPending
	req.Schedule = nil
	req.Express = &requested

	created, err := s.appointments.Create(ctx, &req)
	return created, mapError(err)
}

func (s *Store) ListExpress(ctx context.Context, professionalID int64) ([]*domain.Appointment, error) {
	appts, err := s.appointments.ListExpressByProfessional(ctx, professionalID)
	return appts, mapError(err)
}

func (s *Store) ProposeExpress(ctx context.Context, proposal domain.ExpressProposal) (*domain.Appointment, error) {
	return s.transition(ctx, proposal.TurnoID, func(a *domain.Appointment) error {
		return domain.Propose(a, proposal.Schedule)
	})
}

// ConfirmExpress подтверждает предложение и создает оплату pendiente в одной транзакции
func (s *Store) ConfirmExpress(ctx context.Context, id int64, cost float64) (*domain.Appointment, error) {
	var result *domain.Appointment

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		// 1. Блокируем турн
		appt, err := s.appointments.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		// 2. Применяем переход
		if _, err := domain.Confirm(appt, cost); err != nil {
			return err
		}

		// 3. Сохраняем; уникальный индекс отклонит занятый слот
		updated, err := s.appointments.Update(ctx, appt)
		if err != nil {
			return err
		}

		// 4. Создаем оплату
		if _, err := s.payments.Create(ctx, domain.PendingPayment(updated, cost)); err != nil {
			return err
		}

		result = updated
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}

	return result, nil
}

func (s *Store) RejectExpress(ctx context.Context, id int64) (*domain.Appointment, error) {
	return s.transition(ctx, id, domain.Reject)
}

// Payments

func (s *Store) GetPayment(ctx context.Context, appointmentID int64) (*domain.PaymentRecord, error) {
	p, err := s.payments.GetByAppointment(ctx, appointmentID)
	return p, mapError(err)
}

func (s *Store) ListPayments(ctx context.Context, professionalID int64) ([]*domain.PaymentRecord, error) {
	items, err := s.payments.ListByProfessional(ctx, professionalID)
	return items, mapError(err)
}

func (s *Store) MarkPaid(ctx context.Context, appointmentID int64) (*domain.PaymentRecord, error) {
	p, err := s.payments.MarkPaid(ctx, appointmentID)
	return p, mapError(err)
}

// transition блокирует строку турна, применяет переход и сохраняет результат
func (s *Store) transition(ctx context.Context, id int64, apply func(a *domain.Appointment) error) (*domain.Appointment, error) {
	var result *domain.Appointment

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		appt, err := s.appointments.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := apply(appt); err != nil {
			return err
		}
		result, err = s.appointments.Update(ctx, appt)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}

	return result, nil
}

// mapError переводит ошибки репозиториев в доменные
// Доменные ошибки и nil проходят без изменений
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, appointment.ErrAppointmentNotFound),
		errors.Is(err, payment.ErrPaymentNotFound),
		errors.Is(err, professional.ErrProfessionalNotFound):
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	case errors.Is(err, appointment.ErrSlotTaken):
		return fmt.Errorf("%w: %v", domain.ErrSlotUnavailable, err)
	case errors.Is(err, payment.ErrNotPending):
		return fmt.Errorf("%w: %v", domain.ErrInvalidTransition, err)
	default:
		return err
	}
}

package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
	"github.com/m04kA/SMC-TurnosService/internal/infra/cache"
	"github.com/m04kA/SMC-TurnosService/internal/service/payments/models"
)

// Service сервис статусов оплаты турнов
type Service struct {
	store  Store
	cache  *cache.Cache
	logger Logger
}

// NewService создает новый экземпляр сервиса оплат
func NewService(store Store, c *cache.Cache, logger Logger) *Service {
	return &Service{
		store:  store,
		cache:  c,
		logger: logger,
	}
}

// Payments возвращает все записи об оплате профессионала (через кэш)
func (s *Service) Payments(ctx context.Context, professionalID int64) ([]*domain.PaymentRecord, error) {
	records, err := cache.Load(ctx, s.cache, cache.PaymentsKey(professionalID),
		func(ctx context.Context) ([]*domain.PaymentRecord, error) {
			return s.store.ListPayments(ctx, professionalID)
		})
	if err != nil {
		return nil, fmt.Errorf("%w: list payments: %w", ErrInternal, err)
	}
	return records, nil
}

// StatusOf возвращает статус оплаты турна: pagado, pendiente или unknown
func (s *Service) StatusOf(ctx context.Context, appointment *domain.Appointment) (domain.PaymentStatus, error) {
	record, err := s.find(ctx, appointment)
	if err != nil {
		return "", err
	}
	if record == nil {
		return domain.PaymentUnknown, nil
	}
	return record.Status, nil
}

// GetStatus получает статус оплаты турна
// Доступно участникам турна
func (s *Service) GetStatus(ctx context.Context, appointmentID, requestedBy int64) (*models.PaymentResponse, error) {
	// 1. Получаем турн
	appt, err := s.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("GetStatus: appointment=%d not found", appointmentID)
			return nil, err
		}
		s.logger.Error("GetStatus: failed to get appointment=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: get appointment: %w", ErrInternal, err)
	}

	// 2. Проверяем права доступа
	if !appt.IsParticipant(requestedBy) {
		s.logger.Warn("GetStatus: user=%d is not a participant of appointment=%d", requestedBy, appointmentID)
		return nil, fmt.Errorf("%w: user is not a participant of the appointment", domain.ErrAccessDenied)
	}

	// 3. Ищем запись в списке оплат профессионала
	record, err := s.find(ctx, appt)
	if err != nil {
		s.logger.Error("GetStatus: appointment=%d: %v", appointmentID, err)
		return nil, err
	}
	if record == nil {
		return models.Unknown(appointmentID), nil
	}

	return models.FromDomain(record), nil
}

// List получает статусы оплат профессионала
// Доступно только самому профессионалу
func (s *Service) List(ctx context.Context, professionalID, requestedBy int64) (*models.PaymentListResponse, error) {
	if professionalID != requestedBy {
		s.logger.Warn("List: user=%d cannot list payments of professional=%d", requestedBy, professionalID)
		return nil, fmt.Errorf("%w: only the professional can list payments", domain.ErrAccessDenied)
	}

	records, err := s.Payments(ctx, professionalID)
	if err != nil {
		s.logger.Error("List: professional=%d: %v", professionalID, err)
		return nil, err
	}

	return models.FromDomainList(professionalID, records), nil
}

// MarkPaid переводит оплату pendiente -> pagado
// Доступно только профессионалу турна
func (s *Service) MarkPaid(ctx context.Context, appointmentID, requestedBy int64) (*models.PaymentResponse, error) {
	s.logger.Info("MarkPaid: appointment=%d, by user=%d", appointmentID, requestedBy)

	// 1. Получаем актуальную запись напрямую из хранилища
	record, err := s.store.GetPayment(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("MarkPaid: no payment record for appointment=%d", appointmentID)
			return nil, err
		}
		s.logger.Error("MarkPaid: failed to get payment of appointment=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: get payment: %w", ErrInternal, err)
	}

	// 2. Проверяем права доступа
	if record.ProfessionalID != requestedBy {
		s.logger.Warn("MarkPaid: user=%d is not the professional of appointment=%d", requestedBy, appointmentID)
		return nil, fmt.Errorf("%w: only the professional can mark payments", domain.ErrAccessDenied)
	}

	// 3. Проверяем переход статуса
	if !record.CanMarkPaid() {
		s.logger.Warn("MarkPaid: payment of appointment=%d is already %s", appointmentID, record.Status)
		return nil, fmt.Errorf("%w: payment is already %s", domain.ErrInvalidTransition, record.Status)
	}

	// 4. Обновляем в хранилище
	paid, err := s.store.MarkPaid(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidTransition) {
			s.logger.Warn("MarkPaid: store rejected appointment=%d: %v", appointmentID, err)
			return nil, err
		}
		s.logger.Error("MarkPaid: store error for appointment=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: mark paid: %w", ErrInternal, err)
	}

	// 5. Инвалидируем ключи обеих сторон, чтобы следующий GetStatus увидел pagado
	s.cache.Invalidate(ctx, cache.AppointmentKeys(&domain.Appointment{
		ProfessionalID: record.ProfessionalID,
		PatientID:      record.PatientID,
	})...)

	s.logger.Info("MarkPaid: appointment=%d marked as paid", appointmentID)
	return models.FromDomain(paid), nil
}

func (s *Service) find(ctx context.Context, appointment *domain.Appointment) (*domain.PaymentRecord, error) {
	records, err := s.Payments(ctx, appointment.ProfessionalID)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.AppointmentID == appointment.ID {
			return r, nil
		}
	}
	return nil, nil
}

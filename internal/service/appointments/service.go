package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
	"github.com/m04kA/SMC-TurnosService/internal/infra/cache"
	"github.com/m04kA/SMC-TurnosService/internal/service/appointments/models"
)

// Service сервис жизненного цикла турнов
type Service struct {
	store    Store
	payments PaymentStatusReader
	cache    *cache.Cache
	metrics  Metrics
	logger   Logger
}

// NewService создает новый экземпляр сервиса турнов
func NewService(store Store, payments PaymentStatusReader, c *cache.Cache, metrics Metrics, logger Logger) *Service {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Service{
		store:    store,
		payments: payments,
		cache:    c,
		metrics:  metrics,
		logger:   logger,
	}
}

// PatientAppointments возвращает турны пациента (через кэш)
func (s *Service) PatientAppointments(ctx context.Context, patientID int64) ([]*domain.Appointment, error) {
	appts, err := cache.Load(ctx, s.cache, cache.PatientAppointmentsKey(patientID),
		func(ctx context.Context) ([]*domain.Appointment, error) {
			return s.store.ListPatientAppointments(ctx, patientID)
		})
	if err != nil {
		return nil, fmt.Errorf("%w: list patient appointments: %w", ErrInternal, err)
	}
	return appts, nil
}

// ProfessionalAppointments возвращает турны профессионала (через кэш)
func (s *Service) ProfessionalAppointments(ctx context.Context, professionalID int64) ([]*domain.Appointment, error) {
	appts, err := cache.Load(ctx, s.cache, cache.ProfessionalAppointmentsKey(professionalID),
		func(ctx context.Context) ([]*domain.Appointment, error) {
			return s.store.ListProfessionalAppointments(ctx, professionalID)
		})
	if err != nil {
		return nil, fmt.Errorf("%w: list professional appointments: %w", ErrInternal, err)
	}
	return appts, nil
}

// GetByID получает турн по ID
// Доступно только участникам турна
func (s *Service) GetByID(ctx context.Context, id, requestedBy int64) (*models.AppointmentResponse, error) {
	appt, err := s.get(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}

	if !appt.IsParticipant(requestedBy) {
		s.logger.Warn("GetByID: user=%d is not a participant of appointment=%d", requestedBy, id)
		return nil, fmt.Errorf("%w: user is not a participant of the appointment", domain.ErrAccessDenied)
	}

	resp := models.FromDomainAppointment(appt)

	// Статус оплаты - вспомогательное поле, его недоступность не ломает карточку
	if s.payments != nil {
		status, err := s.payments.StatusOf(ctx, appt)
		if err != nil {
			s.logger.Warn("GetByID: payment status of appointment=%d unavailable: %v", id, err)
		} else {
			resp.PaymentStatus = status
		}
	}

	return resp, nil
}

// GetPatientAppointments получает турны пациента с опциональным фильтром по статусу
func (s *Service) GetPatientAppointments(ctx context.Context, req *models.GetPatientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	if req.RequestedBy != req.PatientID {
		s.logger.Warn("GetPatientAppointments: user=%d cannot list appointments of patient=%d",
			req.RequestedBy, req.PatientID)
		return nil, fmt.Errorf("%w: only the patient can list own appointments", domain.ErrAccessDenied)
	}

	var filter domain.AppointmentsFilter
	if req.Status != nil {
		status, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}

	appts, err := s.PatientAppointments(ctx, req.PatientID)
	if err != nil {
		s.logger.Error("GetPatientAppointments: patient=%d: %v", req.PatientID, err)
		return nil, err
	}

	return models.FromDomainAppointments(domain.FilterAppointments(appts, filter)), nil
}

// GetProfessionalAppointments получает турны профессионала (агенда)
// Доступно только самому профессионалу
func (s *Service) GetProfessionalAppointments(ctx context.Context, req *models.GetProfessionalAppointmentsRequest) (*models.AppointmentListResponse, error) {
	if req.RequestedBy != req.ProfessionalID {
		s.logger.Warn("GetProfessionalAppointments: user=%d cannot list agenda of professional=%d",
			req.RequestedBy, req.ProfessionalID)
		return nil, fmt.Errorf("%w: only the professional can list own agenda", domain.ErrAccessDenied)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		return nil, err
	}

	appts, err := s.ProfessionalAppointments(ctx, req.ProfessionalID)
	if err != nil {
		s.logger.Error("GetProfessionalAppointments: professional=%d: %v", req.ProfessionalID, err)
		return nil, err
	}

	return models.FromDomainAppointments(domain.FilterAppointments(appts, filter)), nil
}

// Cancel отменяет турн
// Отменить может пациент или профессионал
func (s *Service) Cancel(ctx context.Context, id, requestedBy int64) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: appointment=%d, by user=%d", id, requestedBy)

	// 1. Получаем турн
	appt, err := s.get(ctx, id, "Cancel")
	if err != nil {
		return nil, err
	}

	// 2. Проверяем права доступа
	if !appt.IsParticipant(requestedBy) {
		s.logger.Warn("Cancel: user=%d is not a participant of appointment=%d", requestedBy, id)
		return nil, fmt.Errorf("%w: only participants can cancel the appointment", domain.ErrAccessDenied)
	}

	// 3. Проверяем переход статуса
	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment=%d cannot be cancelled from status %s", id, appt.Status)
		return nil, fmt.Errorf("%w: cannot cancel appointment in status %s", domain.ErrInvalidTransition, appt.Status)
	}

	// 4. Отменяем в хранилище
	cancelled, err := s.store.CancelAppointment(ctx, id)
	if err != nil {
		return nil, s.mutationError("Cancel", id, err)
	}

	// 5. Инвалидируем кэш обеих сторон
	s.cache.Invalidate(ctx, cache.AppointmentKeys(cancelled)...)
	s.metrics.AppointmentTransition(string(domain.StatusCancelled))

	s.logger.Info("Cancel: appointment=%d cancelled", id)
	return models.FromDomainAppointment(cancelled), nil
}

// MarkRealized отмечает турн как проведённый
// Доступно только профессионалу
func (s *Service) MarkRealized(ctx context.Context, id, requestedBy int64) (*models.AppointmentResponse, error) {
	s.logger.Info("MarkRealized: appointment=%d, by user=%d", id, requestedBy)

	// 1. Получаем турн
	appt, err := s.get(ctx, id, "MarkRealized")
	if err != nil {
		return nil, err
	}

	// 2. Проверяем права доступа
	if appt.ProfessionalID != requestedBy {
		s.logger.Warn("MarkRealized: user=%d is not the professional of appointment=%d", requestedBy, id)
		return nil, fmt.Errorf("%w: only the professional can mark the appointment realized", domain.ErrAccessDenied)
	}

	// 3. Проверяем переход статуса
	if !domain.CanTransition(appt.Status, domain.StatusRealized) {
		s.logger.Warn("MarkRealized: appointment=%d cannot be realized from status %s", id, appt.Status)
		return nil, fmt.Errorf("%w: cannot realize appointment in status %s", domain.ErrInvalidTransition, appt.Status)
	}

	// 4. Обновляем в хранилище
	realized, err := s.store.RealizeAppointment(ctx, id)
	if err != nil {
		return nil, s.mutationError("MarkRealized", id, err)
	}

	// 5. Инвалидируем кэш
	s.cache.Invalidate(ctx, cache.AppointmentKeys(realized)...)
	s.metrics.AppointmentTransition(string(domain.StatusRealized))

	s.logger.Info("MarkRealized: appointment=%d realized", id)
	return models.FromDomainAppointment(realized), nil
}

func (s *Service) get(ctx context.Context, id int64, op string) (*domain.Appointment, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: appointment id must be positive", domain.ErrInvalidInput)
	}

	appt, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("%s: appointment=%d not found", op, id)
			return nil, err
		}
		s.logger.Error("%s: failed to get appointment=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: get appointment: %w", ErrInternal, err)
	}
	return appt, nil
}

// mutationError передаёт доменные ошибки хранилища как есть, остальное оборачивает
func (s *Service) mutationError(op string, id int64, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidTransition):
		s.logger.Warn("%s: store rejected appointment=%d: %v", op, id, err)
		return err
	default:
		s.logger.Error("%s: store error for appointment=%d: %v", op, id, err)
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
}

type nopMetrics struct{}

func (nopMetrics) AppointmentTransition(string) {}

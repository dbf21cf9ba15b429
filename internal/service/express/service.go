package express

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
	"github.com/m04kA/SMC-TurnosService/internal/infra/cache"
	appointmentsModels "github.com/m04kA/SMC-TurnosService/internal/service/appointments/models"
	"github.com/m04kA/SMC-TurnosService/internal/service/express/models"
	"github.com/m04kA/SMC-TurnosService/pkg/types"
)

// Service сервис экспресс-переговоров:
//
//	Requested -> Proposed -> Confirmed
//	Requested | Proposed -> Rejected
type Service struct {
	store        Store
	appointments AppointmentsProvider
	cache        *cache.Cache
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса экспресс-турнов
func NewService(
	store Store,
	appointments AppointmentsProvider,
	c *cache.Cache,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *Service {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Service{
		store:        store,
		appointments: appointments,
		cache:        c,
		metrics:      metrics,
		timeProvider: &realTime{location: location},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Request создает экспресс-запрос без расписания
func (s *Service) Request(ctx context.Context, req *models.CreateRequest) (*appointmentsModels.AppointmentResponse, error) {
	s.logger.Info("Express.Request: patient=%d, professional=%d", req.PatientID, req.ProfessionalID)

	// 1. Валидация входных данных
	if err := validateCreate(req); err != nil {
		s.logger.Warn("Express.Request: validation failed: %v", err)
		return nil, err
	}

	// 2. Профессионал должен предлагать экспресс-турны
	if _, err := s.expressRate(ctx, req.ProfessionalID); err != nil {
		return nil, err
	}

	// 3. Создаём запрос в хранилище
	created, err := s.store.CreateExpress(ctx, &domain.Appointment{
		ProfessionalID: req.ProfessionalID,
		PatientID:      req.PatientID,
		Kind:           domain.KindExpress,
		Status:         domain.StatusPending,
		Notes:          req.Notes,
		Express:        stateRef(domain.RequestedState()),
	})
	if err != nil {
		return nil, s.mutationError("Express.Request", 0, err)
	}

	// 4. Инвалидируем кэш
	s.cache.Invalidate(ctx, cache.AppointmentKeys(created)...)
	s.metrics.ExpressTransition(string(domain.ExpressRequested))

	s.logger.Info("Express.Request: express appointment id=%d requested", created.ID)
	return appointmentsModels.FromDomainAppointment(created), nil
}

// ListPending возвращает открытые экспресс-запросы профессионала (Requested и Proposed)
func (s *Service) ListPending(ctx context.Context, professionalID, requestedBy int64) (*models.ExpressListResponse, error) {
	if professionalID != requestedBy {
		s.logger.Warn("Express.ListPending: user=%d cannot list requests of professional=%d", requestedBy, professionalID)
		return nil, fmt.Errorf("%w: only the professional can list express requests", domain.ErrAccessDenied)
	}

	appts, err := cache.Load(ctx, s.cache, cache.ExpressKey(professionalID),
		func(ctx context.Context) ([]*domain.Appointment, error) {
			return s.store.ListExpress(ctx, professionalID)
		})
	if err != nil {
		s.logger.Error("Express.ListPending: professional=%d: %v", professionalID, err)
		return nil, fmt.Errorf("%w: list express: %w", ErrInternal, err)
	}

	result := make([]*appointmentsModels.AppointmentResponse, 0, len(appts))
	for _, a := range appts {
		if a.Status == domain.StatusPending && domain.ExpressStateOf(a).IsOpen() {
			result = append(result, appointmentsModels.FromDomainAppointment(a))
		}
	}

	return &models.ExpressListResponse{ProfessionalID: professionalID, Requests: result, Total: len(result)}, nil
}

// Propose прикрепляет к запросу расписание. Повторное предложение заменяет предыдущее
func (s *Service) Propose(ctx context.Context, req *models.ProposeRequest) (*appointmentsModels.AppointmentResponse, error) {
	s.logger.Info("Express.Propose: appointment=%d, by professional=%d, %s %s-%s",
		req.AppointmentID, req.ProfessionalID, req.Date, req.Start, req.End)

	// 1. Проверяем окно предложения
	proposal, err := parseProposal(req, s.timeProvider.Now())
	if err != nil {
		s.logger.Warn("Express.Propose: %v", err)
		return nil, err
	}

	// 2. Получаем запрос
	appt, err := s.get(ctx, req.AppointmentID, "Express.Propose")
	if err != nil {
		return nil, err
	}

	// 3. Проверяем права доступа
	if appt.ProfessionalID != req.ProfessionalID {
		s.logger.Warn("Express.Propose: user=%d is not the professional of appointment=%d", req.ProfessionalID, appt.ID)
		return nil, fmt.Errorf("%w: only the professional can propose a schedule", domain.ErrAccessDenied)
	}

	// 4. Проверяем состояние
	if state := domain.ExpressStateOf(appt); !state.CanPropose() {
		s.logger.Warn("Express.Propose: appointment=%d is %s", appt.ID, state.Kind)
		return nil, fmt.Errorf("%w: cannot propose in state %s", domain.ErrInvalidTransition, state.Kind)
	}

	// 5. Сохраняем предложение
	proposed, err := s.store.ProposeExpress(ctx, proposal)
	if err != nil {
		return nil, s.mutationError("Express.Propose", appt.ID, err)
	}

	// 6. Инвалидируем кэш
	s.cache.Invalidate(ctx, cache.AppointmentKeys(proposed)...)
	s.metrics.ExpressTransition(string(domain.ExpressProposed))

	s.logger.Info("Express.Propose: appointment=%d proposed for %s %s", appt.ID, proposal.Schedule.Date, proposal.Schedule.Start)
	return appointmentsModels.FromDomainAppointment(proposed), nil
}

// Confirm подтверждает предложение: статус confirmed, стоимость по тарифу профессионала,
// запись об оплате pendiente создаёт хранилище атомарно
func (s *Service) Confirm(ctx context.Context, id, requestedBy int64) (*appointmentsModels.AppointmentResponse, error) {
	s.logger.Info("Express.Confirm: appointment=%d, by user=%d", id, requestedBy)

	// 1. Получаем запрос
	appt, err := s.get(ctx, id, "Express.Confirm")
	if err != nil {
		return nil, err
	}

	// 2. Проверяем права доступа
	if appt.PatientID != requestedBy {
		s.logger.Warn("Express.Confirm: user=%d is not the patient of appointment=%d", requestedBy, id)
		return nil, fmt.Errorf("%w: only the patient can confirm a proposal", domain.ErrAccessDenied)
	}

	// 3. Подтвердить можно только Proposed
	state := domain.ExpressStateOf(appt)
	if !appt.IsExpress() || !state.CanConfirm() {
		s.logger.Warn("Express.Confirm: appointment=%d is %s", id, state.Kind)
		return nil, fmt.Errorf("%w: cannot confirm in state %s", domain.ErrInvalidTransition, state.Kind)
	}

	// 4. Предложение не должно устареть
	proposal := *state.Proposal
	if err := s.validateNotInPast(proposal); err != nil {
		s.logger.Warn("Express.Confirm: appointment=%d: %v", id, err)
		return nil, err
	}

	// 5. Локальная проверка конфликта, без учёта самого запроса
	if err := s.checkConflict(ctx, appt, proposal); err != nil {
		return nil, err
	}

	// 6. Тариф профессионала
	rate, err := s.expressRate(ctx, appt.ProfessionalID)
	if err != nil {
		return nil, err
	}

	// 7. Подтверждаем в хранилище
	confirmed, err := s.store.ConfirmExpress(ctx, id, rate)
	if err != nil {
		if errors.Is(err, domain.ErrSlotUnavailable) {
			s.metrics.SlotConflict("store")
			s.cache.Invalidate(ctx, cache.AppointmentKeys(appt)...)
		}
		return nil, s.mutationError("Express.Confirm", id, err)
	}

	// 8. Инвалидируем кэш, включая список оплат
	s.cache.Invalidate(ctx, cache.AppointmentKeys(confirmed)...)
	s.metrics.ExpressTransition(string(domain.ExpressConfirmed))

	s.logger.Info("Express.Confirm: appointment=%d confirmed, cost=%.2f", id, rate)
	return appointmentsModels.FromDomainAppointment(confirmed), nil
}

// Reject отклоняет запрос или предложение: статус cancelled, оплата не создаётся
func (s *Service) Reject(ctx context.Context, id, requestedBy int64) (*appointmentsModels.AppointmentResponse, error) {
	s.logger.Info("Express.Reject: appointment=%d, by user=%d", id, requestedBy)

	// 1. Получаем запрос
	appt, err := s.get(ctx, id, "Express.Reject")
	if err != nil {
		return nil, err
	}

	// 2. Проверяем права доступа
	if appt.PatientID != requestedBy {
		s.logger.Warn("Express.Reject: user=%d is not the patient of appointment=%d", requestedBy, id)
		return nil, fmt.Errorf("%w: only the patient can reject a proposal", domain.ErrAccessDenied)
	}

	// 3. Проверяем состояние
	state := domain.ExpressStateOf(appt)
	if !appt.IsExpress() || !state.CanReject() {
		s.logger.Warn("Express.Reject: appointment=%d is %s", id, state.Kind)
		return nil, fmt.Errorf("%w: cannot reject in state %s", domain.ErrInvalidTransition, state.Kind)
	}

	// 4. Отклоняем в хранилище
	rejected, err := s.store.RejectExpress(ctx, id)
	if err != nil {
		return nil, s.mutationError("Express.Reject", id, err)
	}

	// 5. Инвалидируем кэш
	s.cache.Invalidate(ctx, cache.AppointmentKeys(rejected)...)
	s.metrics.ExpressTransition(string(domain.ExpressRejected))

	s.logger.Info("Express.Reject: appointment=%d rejected", id)
	return appointmentsModels.FromDomainAppointment(rejected), nil
}

// expressRate возвращает тариф экспресс-турна профессионала
func (s *Service) expressRate(ctx context.Context, professionalID int64) (float64, error) {
	professional, err := s.store.GetProfessional(ctx, professionalID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("Express: professional=%d not found", professionalID)
			return 0, err
		}
		s.logger.Error("Express: failed to get professional=%d: %v", professionalID, err)
		return 0, fmt.Errorf("%w: get professional: %w", ErrInternal, err)
	}

	if !professional.OffersExpress() {
		s.logger.Warn("Express: professional=%d does not offer express appointments", professionalID)
		return 0, fmt.Errorf("%w: professional id=%d", domain.ErrExpressNotOffered, professionalID)
	}

	return *professional.ExpressRate, nil
}

func (s *Service) validateNotInPast(sch domain.Schedule) error {
	now := s.timeProvider.Now()
	today := types.DateOf(now)

	if sch.Date.Before(today) {
		return fmt.Errorf("%w: proposal date %s has passed", domain.ErrPastDate, sch.Date)
	}
	if sch.Date == today && !sch.StartsAt(now.Location()).After(now) {
		return fmt.Errorf("%w: proposal start %s has passed", domain.ErrPastTime, sch.Start)
	}
	return nil
}

func (s *Service) checkConflict(ctx context.Context, appt *domain.Appointment, proposal domain.Schedule) error {
	if s.appointments == nil {
		return nil
	}

	appts, err := s.appointments.PatientAppointments(ctx, appt.PatientID)
	if err != nil {
		s.logger.Error("Express.Confirm: failed to load appointments of patient=%d: %v", appt.PatientID, err)
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}

	reserved := domain.ReservedFor(appts, appt.ProfessionalID)
	others := reserved[:0:0]
	for _, r := range reserved {
		if r.AppointmentID != appt.ID {
			others = append(others, r)
		}
	}

	if domain.IsReserved(others, proposal.Date, proposal.Start) {
		s.logger.Warn("Express.Confirm: slot %s %s already reserved by patient=%d", proposal.Date, proposal.Start, appt.PatientID)
		s.metrics.SlotConflict("local")
		return fmt.Errorf("%w: %s %s", domain.ErrSlotUnavailable, proposal.Date, proposal.Start)
	}
	return nil
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

	if !appt.IsExpress() {
		s.logger.Warn("%s: appointment=%d is not express", op, id)
		return nil, fmt.Errorf("%w: appointment id=%d is not express", domain.ErrInvalidTransition, id)
	}
	return appt, nil
}

// mutationError передаёт доменные ошибки хранилища как есть, остальное оборачивает
func (s *Service) mutationError(op string, id int64, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrSlotUnavailable),
		errors.Is(err, domain.ErrInvalidInput):
		s.logger.Warn("%s: store rejected appointment=%d: %v", op, id, err)
		return err
	default:
		s.logger.Error("%s: store error for appointment=%d: %v", op, id, err)
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
}

func stateRef(s domain.ExpressState) *domain.ExpressState {
	return &s
}

type realTime struct {
	location *time.Location
}

func (r *realTime) Now() time.Time {
	if r.location == nil {
		return time.Now()
	}
	return time.Now().In(r.location)
}

type nopMetrics struct{}

func (nopMetrics) ExpressTransition(string) {}
func (nopMetrics) SlotConflict(string)      {}

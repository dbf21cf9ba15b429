package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
	"github.com/m04kA/SMC-TurnosService/internal/infra/cache"
	"github.com/m04kA/SMC-TurnosService/internal/usecase/get_available_slots"
)

// UseCase use case для создания обычного турна (consulta, control)
type UseCase struct {
	store        Store
	appointments AppointmentsProvider
	slots        SlotsProvider
	cache        CacheInvalidator
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	store Store,
	appointments AppointmentsProvider,
	slots SlotsProvider,
	cache CacheInvalidator,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &UseCase{
		store:        store,
		appointments: appointments,
		slots:        slots,
		cache:        cache,
		metrics:      metrics,
		timeProvider: &get_available_slots.RealTimeProvider{Location: location},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания турна
// Локальная проверка конфликта - подсказка для пользователя, окончательно решает хранилище
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("CreateAppointment: patient=%d, professional=%d, date=%s, %s-%s, kind=%s",
		req.PatientID, req.ProfessionalID, req.Date, req.Start, req.End, req.Kind)

	if req.Kind == "" {
		req.Kind = domain.KindConsulta
	}

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем, что турн не в прошлом
	now := uc.timeProvider.Now()
	schedule := req.Schedule()
	if err := validateNotInPast(schedule, now); err != nil {
		uc.logger.Warn("CreateAppointment: %v", err)
		return nil, err
	}

	// 3. Локальная проверка по турнам пациента
	appointments, err := uc.appointments.PatientAppointments(ctx, req.PatientID)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to load appointments of patient=%d: %v", req.PatientID, err)
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	if domain.IsReserved(domain.ReservedFor(appointments, req.ProfessionalID), schedule.Date, schedule.Start) {
		uc.logger.Warn("CreateAppointment: slot %s %s already reserved by patient=%d",
			schedule.Date, schedule.Start, req.PatientID)
		return nil, uc.conflict(ctx, req, now, newSlotConflict("local",
			fmt.Errorf("%w: %s %s", domain.ErrSlotUnavailable, schedule.Date, schedule.Start)))
	}

	// 4. Создаём турн в хранилище, без повторов
	created, err := uc.store.CreateAppointment(ctx, &domain.Appointment{
		ProfessionalID: req.ProfessionalID,
		PatientID:      req.PatientID,
		Kind:           req.Kind,
		Status:         domain.StatusConfirmed,
		Schedule:       &schedule,
		Notes:          req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSlotUnavailable):
			uc.logger.Warn("CreateAppointment: store rejected slot %s %s: %v", schedule.Date, schedule.Start, err)
			// Наши кэши устарели: кто-то занял слот
			uc.cache.Invalidate(ctx, uc.keys(req)...)
			return nil, uc.conflict(ctx, req, now, newSlotConflict("store", err))
		case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNotFound):
			uc.logger.Warn("CreateAppointment: store rejected request: %v", err)
			return nil, err
		default:
			uc.logger.Error("CreateAppointment: store error: %v", err)
			return nil, fmt.Errorf("%w: create appointment: %w", ErrInternal, err)
		}
	}

	// 5. Инвалидируем кэш обеих сторон
	uc.cache.Invalidate(ctx, cache.AppointmentKeys(created)...)
	uc.metrics.AppointmentTransition(string(created.Status))

	uc.logger.Info("CreateAppointment: appointment id=%d created", created.ID)
	return created, nil
}

// conflict дополняет ошибку актуальной неделей слотов
func (uc *UseCase) conflict(ctx context.Context, req *Request, now time.Time, conflictErr *SlotConflictError) error {
	uc.metrics.SlotConflict(conflictErr.Source)

	week, err := uc.slots.Execute(ctx, &get_available_slots.Request{
		PatientID:      req.PatientID,
		ProfessionalID: req.ProfessionalID,
		WeekOffset:     weekOffsetFor(req.Date, now),
	})
	if err != nil {
		uc.logger.Warn("CreateAppointment: failed to refresh slots after conflict: %v", err)
		return conflictErr
	}

	conflictErr.Week = week
	return conflictErr
}

func (uc *UseCase) keys(req *Request) []string {
	return cache.AppointmentKeys(&domain.Appointment{
		ProfessionalID: req.ProfessionalID,
		PatientID:      req.PatientID,
	})
}

type nopMetrics struct{}

func (nopMetrics) AppointmentTransition(string) {}
func (nopMetrics) SlotConflict(string)          {}

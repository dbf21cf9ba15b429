package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
)

// UseCase use case для получения недели доступных слотов профессионала
type UseCase struct {
	availability  AvailabilityProvider
	appointments  AppointmentsProvider
	timeProvider  TimeProvider
	maxWeekOffset int
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	availability AvailabilityProvider,
	appointments AppointmentsProvider,
	location *time.Location,
	maxWeekOffset int,
	logger Logger,
) *UseCase {
	return &UseCase{
		availability:  availability,
		appointments:  appointments,
		timeProvider:  &RealTimeProvider{Location: location},
		maxWeekOffset: maxWeekOffset,
		logger:        logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: patient=%d, professional=%d, weekOffset=%d",
		req.PatientID, req.ProfessionalID, req.WeekOffset)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxWeekOffset); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Параллельно получаем доступность профессионала и турны пациента
	var (
		weekly       domain.WeeklyAvailability
		appointments []*domain.Appointment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		weekly, err = uc.availability.Weekly(gctx, req.ProfessionalID)
		return err
	})
	g.Go(func() error {
		var err error
		appointments, err = uc.appointments.PatientAppointments(gctx, req.PatientID)
		return err
	})

	if err := g.Wait(); err != nil {
		uc.logger.Error("GetAvailableSlots: failed to load data for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	// 4. Клиент ушёл, пока мы ждали хранилище: ответ никому не нужен
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 5. Строим резервирования пациента у этого профессионала
	reserved := domain.ReservedFor(appointments, req.ProfessionalID)

	// 6. Генерируем неделю
	days := GenerateWeek(weekly, now, req.WeekOffset, reserved)
	from := days[0].Date
	to := days[len(days)-1].Date

	total := 0
	for _, d := range days {
		total += len(d.Slots)
	}
	uc.logger.Info("GetAvailableSlots: generated %d slots for professional=%d, %s..%s",
		total, req.ProfessionalID, from, to)

	return &Response{
		ProfessionalID: req.ProfessionalID,
		WeekOffset:     req.WeekOffset,
		From:           from,
		To:             to,
		Days:           days,
		Reserved:       reservedInWindow(reserved, from, to),
	}, nil
}

package availability

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
	"github.com/m04kA/SMC-TurnosService/internal/infra/cache"
	"github.com/m04kA/SMC-TurnosService/internal/service/availability/models"
)

// Service сервис недельной доступности профессионалов
type Service struct {
	store  Store
	cache  *cache.Cache
	logger Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(store Store, c *cache.Cache, logger Logger) *Service {
	return &Service{
		store:  store,
		cache:  c,
		logger: logger,
	}
}

// Weekly возвращает нормализованную доступность профессионала (через кэш)
func (s *Service) Weekly(ctx context.Context, professionalID int64) (domain.WeeklyAvailability, error) {
	weekly, _, err := s.load(ctx, professionalID)
	return weekly, err
}

// GetWeekly возвращает доступность для отображения
// Публичный метод - доступен любому аутентифицированному пользователю
func (s *Service) GetWeekly(ctx context.Context, professionalID int64) (*models.WeeklyResponse, error) {
	if professionalID <= 0 {
		return nil, fmt.Errorf("%w: professionalID must be positive", domain.ErrInvalidInput)
	}

	weekly, rejected, err := s.load(ctx, professionalID)
	if err != nil {
		return nil, err
	}

	return models.FromDomain(professionalID, weekly, len(rejected)), nil
}

// SetWeekly заменяет недельную доступность
// Доступно только самому профессионалу. Запись строгая: любая отброшенная строка - ошибка
func (s *Service) SetWeekly(ctx context.Context, req *models.SetAvailabilityRequest) (*models.WeeklyResponse, error) {
	s.logger.Info("SetWeekly: professional=%d, rows=%d, by user=%d",
		req.ProfessionalID, len(req.Records), req.RequestedBy)

	// 1. Проверяем права доступа
	if req.RequestedBy != req.ProfessionalID {
		s.logger.Warn("SetWeekly: user=%d cannot edit availability of professional=%d",
			req.RequestedBy, req.ProfessionalID)
		return nil, fmt.Errorf("%w: only the professional can edit availability", domain.ErrAccessDenied)
	}

	// 2. Нормализуем и валидируем строки
	weekly, rejected := Normalize(req.Records)
	if len(rejected) > 0 {
		reasons := make([]string, 0, len(rejected))
		for _, r := range rejected {
			reasons = append(reasons, r.String())
		}
		s.logger.Warn("SetWeekly: %d invalid rows: %s", len(rejected), strings.Join(reasons, "; "))
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(reasons, "; "))
	}
	if err := weekly.Validate(); err != nil {
		return nil, err
	}

	// 3. Сохраняем
	if err := s.store.SetAvailability(ctx, req.ProfessionalID, weekly.Flatten()); err != nil {
		s.logger.Error("SetWeekly: store error for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: set availability: %w", ErrInternal, err)
	}

	// 4. Инвалидируем кэш доступности
	s.cache.Invalidate(ctx, cache.AvailabilityKey(req.ProfessionalID))

	s.logger.Info("SetWeekly: availability of professional=%d updated", req.ProfessionalID)
	return models.FromDomain(req.ProfessionalID, weekly, 0), nil
}

func (s *Service) load(ctx context.Context, professionalID int64) (domain.WeeklyAvailability, []Rejected, error) {
	records, err := cache.Load(ctx, s.cache, cache.AvailabilityKey(professionalID),
		func(ctx context.Context) ([]domain.AvailabilityRecord, error) {
			return s.store.GetAvailability(ctx, professionalID)
		})
	if err != nil {
		s.logger.Error("Availability: failed to fetch availability of professional=%d: %v", professionalID, err)
		return nil, nil, fmt.Errorf("%w: get availability: %w", ErrInternal, err)
	}

	weekly, rejected := Normalize(records)
	for _, r := range rejected {
		s.logger.Warn("Availability: professional=%d skipped %s", professionalID, r)
	}

	return weekly, rejected, nil
}

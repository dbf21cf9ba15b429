package availability

import (
	"context"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
)

// Store хранилище недельной доступности профессионалов
type Store interface {
	GetAvailability(ctx context.Context, professionalID int64) ([]domain.AvailabilityRecord, error)
	SetAvailability(ctx context.Context, professionalID int64, records []domain.AvailabilityRecord) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

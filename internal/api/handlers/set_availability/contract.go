package set_availability

import (
	"context"

	"github.com/m04kA/SMC-TurnosService/internal/service/availability/models"
)

type AvailabilityService interface {
	SetWeekly(ctx context.Context, req *models.SetAvailabilityRequest) (*models.WeeklyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package list_express

import (
	"context"

	"github.com/m04kA/SMC-TurnosService/internal/service/express/models"
)

type ExpressService interface {
	ListPending(ctx context.Context, professionalID, requestedBy int64) (*models.ExpressListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

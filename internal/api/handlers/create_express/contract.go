package create_express

import (
	"context"

	appointmentsModels "github.com/m04kA/SMC-TurnosService/internal/service/appointments/models"
	"github.com/m04kA/SMC-TurnosService/internal/service/express/models"
)

type ExpressService interface {
	Request(ctx context.Context, req *models.CreateRequest) (*appointmentsModels.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

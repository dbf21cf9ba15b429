package reject_express

import (
	"context"

	appointmentsModels "github.com/m04kA/SMC-TurnosService/internal/service/appointments/models"
)

type ExpressService interface {
	Reject(ctx context.Context, id, requestedBy int64) (*appointmentsModels.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

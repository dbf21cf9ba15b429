package mark_paid

import (
	"context"

	"github.com/m04kA/SMC-TurnosService/internal/service/payments/models"
)

type PaymentService interface {
	MarkPaid(ctx context.Context, appointmentID, requestedBy int64) (*models.PaymentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

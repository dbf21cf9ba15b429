package mark_paid

import (
	"net/http"

	"github.com/m04kA/SMC-TurnosService/internal/api/handlers"
	"github.com/m04kA/SMC-TurnosService/internal/api/middleware"
)

const (
	route = "PATCH /appointments/{appointmentId}/payment/paid"

	msgInvalidAppointmentID = "ID de turno inválido"
	msgMissingUserID        = "falta el identificador de usuario"
)

type Handler struct {
	service PaymentService
	logger  Logger
}

func NewHandler(service PaymentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/payment/paid
// Отметить оплату может только профессионал турна
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	appointmentID, err := handlers.PathInt64(r, "appointmentId")
	if err != nil {
		h.logger.Warn("%s - Invalid appointment ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	result, err := h.service.MarkPaid(r.Context(), appointmentID, userID)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		handlers.LogDomainError(h.logger, status, route, err)
		return
	}

	h.logger.Info("%s - Payment marked as paid: appointment_id=%d, professional_id=%d", route, appointmentID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

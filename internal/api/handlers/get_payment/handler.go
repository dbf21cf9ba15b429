package get_payment

import (
	"net/http"

	"github.com/m04kA/SMC-TurnosService/internal/api/handlers"
	"github.com/m04kA/SMC-TurnosService/internal/api/middleware"
)

const (
	route = "GET /appointments/{appointmentId}/payment"

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

// Handle GET /api/v1/appointments/{appointmentId}/payment
// Турн без записи об оплате отдаётся со статусом desconocido
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

	result, err := h.service.GetStatus(r.Context(), appointmentID, userID)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		handlers.LogDomainError(h.logger, status, route, err)
		return
	}

	h.logger.Info("%s - Payment status retrieved: appointment_id=%d, status=%s", route, appointmentID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}

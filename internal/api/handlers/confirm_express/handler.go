package confirm_express

import (
	"net/http"

	"github.com/m04kA/SMC-TurnosService/internal/api/handlers"
	"github.com/m04kA/SMC-TurnosService/internal/api/middleware"
)

const (
	route = "PATCH /express/{appointmentId}/confirm"

	msgInvalidAppointmentID = "ID de turno inválido"
	msgMissingUserID        = "falta el identificador de usuario"
)

type Handler struct {
	service ExpressService
	logger  Logger
}

func NewHandler(service ExpressService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/express/{appointmentId}/confirm
// Пациент принимает предложение: турн подтверждается и создаётся оплата pendiente
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

	result, err := h.service.Confirm(r.Context(), appointmentID, userID)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		handlers.LogDomainError(h.logger, status, route, err)
		return
	}

	h.logger.Info("%s - Express confirmed: appointment_id=%d, patient_id=%d", route, appointmentID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

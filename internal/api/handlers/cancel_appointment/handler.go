package cancel_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-TurnosService/internal/api/handlers"
	"github.com/m04kA/SMC-TurnosService/internal/api/middleware"
)

const (
	route = "PATCH /appointments/{appointmentId}/cancel"

	msgInvalidAppointmentID = "ID de turno inválido"
	msgMissingUserID        = "falta el identificador de usuario"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/cancel
// Отменить может пациент или профессионал турна
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Извлекаем appointmentId из URL
	appointmentID, err := handlers.PathInt64(r, "appointmentId")
	if err != nil {
		h.logger.Warn("%s - Invalid appointment ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	result, err := h.service.Cancel(r.Context(), appointmentID, userID)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		handlers.LogDomainError(h.logger, status, route, err)
		return
	}

	h.logger.Info("%s - Appointment cancelled: appointment_id=%d, user_id=%d", route, appointmentID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

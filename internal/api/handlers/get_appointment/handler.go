package get_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-TurnosService/internal/api/handlers"
	"github.com/m04kA/SMC-TurnosService/internal/api/middleware"
)

const (
	route = "GET /appointments/{appointmentId}"

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

// Handle GET /api/v1/appointments/{appointmentId}
// Доступно пациенту и профессионалу турна
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

	result, err := h.service.GetByID(r.Context(), appointmentID, userID)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		handlers.LogDomainError(h.logger, status, route, err)
		return
	}

	h.logger.Info("%s - Appointment retrieved: appointment_id=%d, user_id=%d", route, appointmentID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

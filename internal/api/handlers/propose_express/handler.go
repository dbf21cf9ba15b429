package propose_express

import (
	"net/http"

	"github.com/m04kA/SMC-TurnosService/internal/api/handlers"
	"github.com/m04kA/SMC-TurnosService/internal/api/middleware"
)

const (
	route = "PATCH /express/{appointmentId}/proposal"

	msgInvalidAppointmentID = "ID de turno inválido"
	msgInvalidRequestBody   = "cuerpo de la solicitud inválido"
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

// Handle PATCH /api/v1/express/{appointmentId}/proposal
// Профессионал предлагает расписание; повторное предложение заменяет предыдущее
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

	var req ProposeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Propose(r.Context(), req.ToServiceRequest(userID, appointmentID))
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		handlers.LogDomainError(h.logger, status, route, err)
		return
	}

	h.logger.Info("%s - Proposal sent: appointment_id=%d, professional_id=%d, %s %s-%s",
		route, appointmentID, userID, req.Date, req.Start, req.End)
	handlers.RespondJSON(w, http.StatusOK, result)
}

package create_express

import (
	"net/http"

	"github.com/m04kA/SMC-TurnosService/internal/api/handlers"
	"github.com/m04kA/SMC-TurnosService/internal/api/middleware"
)

const (
	route = "POST /express"

	msgInvalidRequestBody = "cuerpo de la solicitud inválido"
	msgMissingUserID      = "falta el identificador de usuario"
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

// Handle POST /api/v1/express
// Пациент запрашивает экспресс-турн без расписания
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateExpressRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Request(r.Context(), req.ToServiceRequest(userID))
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		handlers.LogDomainError(h.logger, status, route, err)
		return
	}

	h.logger.Info("%s - Express requested: appointment_id=%d, patient_id=%d, professional_id=%d",
		route, result.ID, userID, req.ProfessionalID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

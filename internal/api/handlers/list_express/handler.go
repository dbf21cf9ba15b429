package list_express

import (
	"net/http"

	"github.com/m04kA/SMC-TurnosService/internal/api/handlers"
	"github.com/m04kA/SMC-TurnosService/internal/api/middleware"
)

const (
	route = "GET /professionals/{professionalId}/express"

	msgInvalidProfessionalID = "ID de profesional inválido"
	msgMissingUserID         = "falta el identificador de usuario"
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

// Handle GET /api/v1/professionals/{professionalId}/express
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	professionalID, err := handlers.PathInt64(r, "professionalId")
	if err != nil {
		h.logger.Warn("%s - Invalid professional ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	result, err := h.service.ListPending(r.Context(), professionalID, userID)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		handlers.LogDomainError(h.logger, status, route, err)
		return
	}

	h.logger.Info("%s - Express requests retrieved: professional_id=%d, count=%d", route, professionalID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}

package get_availability

import (
	"net/http"

	"github.com/m04kA/SMC-TurnosService/internal/api/handlers"
)

const (
	route = "GET /professionals/{professionalId}/availability"

	msgInvalidProfessionalID = "ID de profesional inválido"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/professionals/{professionalId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем professionalId из URL
	professionalID, err := handlers.PathInt64(r, "professionalId")
	if err != nil {
		h.logger.Warn("%s - Invalid professional ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	result, err := h.service.GetWeekly(r.Context(), professionalID)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		handlers.LogDomainError(h.logger, status, route, err)
		return
	}

	h.logger.Info("%s - Availability retrieved: professional_id=%d, days=%d, skipped=%d",
		route, professionalID, len(result.Days), result.Skipped)
	handlers.RespondJSON(w, http.StatusOK, result)
}

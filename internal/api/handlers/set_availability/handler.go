package set_availability

import (
	"net/http"

	"github.com/m04kA/SMC-TurnosService/internal/api/handlers"
	"github.com/m04kA/SMC-TurnosService/internal/api/middleware"
	"github.com/m04kA/SMC-TurnosService/internal/service/availability/models"
)

const (
	route = "PUT /professionals/{professionalId}/availability"

	msgInvalidProfessionalID = "ID de profesional inválido"
	msgInvalidRequestBody    = "cuerpo de la solicitud inválido"
	msgMissingUserID         = "falta el identificador de usuario"
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

// Handle PUT /api/v1/professionals/{professionalId}/availability
// Заменяет недельную доступность целиком. Изменять может только сам профессионал
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

	var req models.SetAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.RequestedBy = userID
	req.ProfessionalID = professionalID

	result, err := h.service.SetWeekly(r.Context(), &req)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		handlers.LogDomainError(h.logger, status, route, err)
		return
	}

	h.logger.Info("%s - Availability replaced: professional_id=%d, records=%d", route, professionalID, len(req.Records))
	handlers.RespondJSON(w, http.StatusOK, result)
}

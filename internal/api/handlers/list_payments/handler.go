package list_payments

import (
	"net/http"

	"github.com/m04kA/SMC-TurnosService/internal/api/handlers"
	"github.com/m04kA/SMC-TurnosService/internal/api/middleware"
)

const (
	route = "GET /professionals/{professionalId}/payments"

	msgInvalidProfessionalID = "ID de profesional inválido"
	msgMissingUserID         = "falta el identificador de usuario"
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

// Handle GET /api/v1/professionals/{professionalId}/payments
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

	result, err := h.service.List(r.Context(), professionalID, userID)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		handlers.LogDomainError(h.logger, status, route, err)
		return
	}

	h.logger.Info("%s - Payments retrieved: professional_id=%d, count=%d", route, professionalID, len(result.Payments))
	handlers.RespondJSON(w, http.StatusOK, result)
}

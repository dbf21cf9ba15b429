package get_professional_appointments

import (
	"net/http"

	"github.com/m04kA/SMC-TurnosService/internal/api/handlers"
	"github.com/m04kA/SMC-TurnosService/internal/api/middleware"
)

const (
	route = "GET /professionals/{professionalId}/appointments"

	msgInvalidProfessionalID = "ID de profesional inválido"
	msgInvalidParams         = "parámetros inválidos: las fechas deben tener formato YYYY-MM-DD"
	msgMissingUserID         = "falta el identificador de usuario"
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

// Handle GET /api/v1/professionals/{professionalId}/appointments
// Query params: status, from, to (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := handlers.PathInt64(r, "professionalId")
	if err != nil {
		h.logger.Warn("%s - Invalid professional ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing user ID", route)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(professionalID, userID, query.Get("status"), query.Get("from"), query.Get("to"))
	if err != nil {
		h.logger.Warn("%s - Invalid parameters: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Сервис сам проверит, что агенду смотрит её профессионал
	result, err := h.service.GetProfessionalAppointments(r.Context(), serviceReq)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		handlers.LogDomainError(h.logger, status, route, err)
		return
	}

	h.logger.Info("%s - Agenda retrieved: professional_id=%d, count=%d", route, professionalID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}

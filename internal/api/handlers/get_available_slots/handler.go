package get_available_slots

import (
	"net/http"

	"github.com/m04kA/SMC-TurnosService/internal/api/handlers"
	"github.com/m04kA/SMC-TurnosService/internal/api/middleware"
)

const (
	route = "GET /professionals/{professionalId}/slots"

	msgInvalidProfessionalID = "ID de profesional inválido"
	msgInvalidWeekOffset     = "weekOffset debe ser un número entero"
	msgMissingUserID         = "falta el identificador de usuario"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/professionals/{professionalId}/slots
// Query params: weekOffset (optional, 0 - текущая неделя)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Извлекаем professionalId из URL
	professionalID, err := handlers.PathInt64(r, "professionalId")
	if err != nil {
		h.logger.Warn("%s - Invalid professional ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	// Формируем запрос к use case
	useCaseReq, err := ToUseCaseRequest(userID, professionalID, r.URL.Query().Get("weekOffset"))
	if err != nil {
		h.logger.Warn("%s - Invalid week offset: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidWeekOffset)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		handlers.LogDomainError(h.logger, status, route, err)
		return
	}

	h.logger.Info("%s - Slots retrieved: professional_id=%d, patient_id=%d, week_offset=%d, slots=%d, reserved=%d",
		route, professionalID, userID, useCaseReq.WeekOffset, CountSlots(result), len(result.Reserved))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

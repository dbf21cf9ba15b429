package get_user_appointments

import (
	"net/http"

	"github.com/m04kA/SMC-TurnosService/internal/api/handlers"
	"github.com/m04kA/SMC-TurnosService/internal/api/middleware"
	"github.com/m04kA/SMC-TurnosService/internal/service/appointments/models"
)

const (
	route = "GET /users/{userId}/appointments"

	msgInvalidUserID = "ID de usuario inválido"
	msgMissingUserID = "falta el identificador de usuario"
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

// Handle GET /api/v1/users/{userId}/appointments
// Query params: status (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requestedBy, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Извлекаем userId из URL
	patientID, err := handlers.PathInt64(r, "userId")
	if err != nil {
		h.logger.Warn("%s - Invalid user ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	// Получаем status из query параметров (опционально)
	status := r.URL.Query().Get("status")
	var statusPtr *string
	if status != "" {
		statusPtr = &status
	}

	serviceReq := &models.GetPatientAppointmentsRequest{
		RequestedBy: requestedBy,
		PatientID:   patientID,
		Status:      statusPtr,
	}

	result, err := h.service.GetPatientAppointments(r.Context(), serviceReq)
	if err != nil {
		code := handlers.RespondDomainError(w, err)
		handlers.LogDomainError(h.logger, code, route, err)
		return
	}

	h.logger.Info("%s - Appointments retrieved: patient_id=%d, count=%d", route, patientID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}

package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TurnosService/internal/api/handlers"
	slotsHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/get_available_slots"
	"github.com/m04kA/SMC-TurnosService/internal/api/middleware"
	appointmentsModels "github.com/m04kA/SMC-TurnosService/internal/service/appointments/models"
	createAppointment "github.com/m04kA/SMC-TurnosService/internal/usecase/create_appointment"
)

const (
	route = "POST /appointments"

	msgInvalidRequestBody = "cuerpo de la solicitud inválido"
	msgInvalidSchedule    = "fecha u horario inválido: se espera YYYY-MM-DD y HH:MM"
	msgMissingUserID      = "falta el identificador de usuario"
	msgSlotUnavailable    = "el horario seleccionado ya no está disponible"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("%s - Failed to parse request: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidSchedule)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var conflict *createAppointment.SlotConflictError
		switch {
		case errors.As(err, &conflict):
			h.logger.Warn("%s - Slot unavailable: patient_id=%d, professional_id=%d, date=%s, start=%s, source=%s",
				route, userID, req.ProfessionalID, useCaseReq.Date, useCaseReq.Start, conflict.Source)
			resp := ConflictResponse{
				ErrorResponse: handlers.ErrorResponse{Error: msgSlotUnavailable, Code: "slot_unavailable"},
			}
			if conflict.Week != nil {
				resp.Slots = slotsHandler.FromUseCaseResponse(conflict.Week)
			}
			handlers.RespondJSON(w, http.StatusConflict, resp)

		default:
			status := handlers.RespondDomainError(w, err)
			handlers.LogDomainError(h.logger, status, route, err)
		}
		return
	}

	h.logger.Info("%s - Appointment created: appointment_id=%d, patient_id=%d, professional_id=%d",
		route, result.ID, userID, result.ProfessionalID)
	handlers.RespondJSON(w, http.StatusCreated, appointmentsModels.FromDomainAppointment(result))
}

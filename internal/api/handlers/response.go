package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
)

const (
	msgInternalError     = "error interno del servidor"
	msgInvalidInput      = "datos de entrada inválidos"
	msgInvalidRange      = "la hora de inicio debe ser anterior a la hora de fin"
	msgPastDate          = "la fecha ya pasó"
	msgPastTime          = "el horario ya pasó"
	msgSlotUnavailable   = "el horario seleccionado no está disponible"
	msgInvalidWindow     = "la propuesta debe estar entre las 07:00 y las 22:00 de hoy o una fecha futura"
	msgInvalidTransition = "la operación no está permitida en el estado actual"
	msgNotFound          = "recurso no encontrado"
	msgAccessDenied      = "acceso denegado"
	msgRemoteUnavailable = "el servicio de turnos no está disponible, intente nuevamente"
	msgExpressNotOffered = "el profesional no ofrece turnos express"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// RespondError отправляет ответ с ошибкой
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

// RespondBadRequest 400
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

// RespondUnauthorized 401
func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

// RespondForbidden 403
func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

// RespondNotFound 404
func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

// RespondInternalError 500
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// DecodeJSON декодирует тело запроса; неизвестные поля - ошибка
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// PathInt64 извлекает положительный int64 из переменной маршрута
func PathInt64(r *http.Request, name string) (int64, error) {
	raw, ok := mux.Vars(r)[name]
	if !ok {
		return 0, fmt.Errorf("missing path variable %q", name)
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid path variable %q: %q", name, raw)
	}
	return value, nil
}

// StatusFor возвращает HTTP статус и код для ошибки доменного вида.
// Доменные виды проверяются раньше внутренних ошибок: сервисы оборачивают их вместе
func StatusFor(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidProposalWindow):
		return http.StatusBadRequest, "invalid_proposal_window", msgInvalidWindow
	case errors.Is(err, domain.ErrPastDate):
		return http.StatusBadRequest, "past_date", msgPastDate
	case errors.Is(err, domain.ErrPastTime):
		return http.StatusBadRequest, "past_time", msgPastTime
	case errors.Is(err, domain.ErrInvalidRange):
		return http.StatusBadRequest, "invalid_range", msgInvalidRange
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input", msgInvalidInput
	case errors.Is(err, domain.ErrAccessDenied):
		return http.StatusForbidden, "access_denied", msgAccessDenied
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found", msgNotFound
	case errors.Is(err, domain.ErrExpressNotOffered):
		return http.StatusConflict, "express_not_offered", msgExpressNotOffered
	case errors.Is(err, domain.ErrSlotUnavailable):
		return http.StatusConflict, "slot_unavailable", msgSlotUnavailable
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition", msgInvalidTransition
	case errors.Is(err, domain.ErrRemoteUnavailable):
		return http.StatusBadGateway, "remote_unavailable", msgRemoteUnavailable
	default:
		return http.StatusInternalServerError, "internal", msgInternalError
	}
}

// RespondDomainError отправляет ответ по виду ошибки и возвращает статус для логирования
func RespondDomainError(w http.ResponseWriter, err error) int {
	status, code, message := StatusFor(err)
	RespondJSON(w, status, ErrorResponse{Error: message, Code: code})
	return status
}

// Logger интерфейс логгера для LogDomainError
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// LogDomainError пишет ошибку обработчика: 5xx как Error, остальное как Warn
func LogDomainError(logger Logger, status int, route string, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("%s - status=%d, error=%v", route, status, err)
		return
	}
	logger.Warn("%s - status=%d, error=%v", route, status, err)
}

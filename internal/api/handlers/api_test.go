package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cancelAppointmentHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/cancel_appointment"
	confirmExpressHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/confirm_express"
	createAppointmentHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/create_appointment"
	createExpressHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/create_express"
	getAppointmentHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/get_appointment"
	getAvailabilityHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/get_availability"
	getAvailableSlotsHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/get_available_slots"
	getPaymentHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/get_payment"
	getProfessionalAppointmentsHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/get_professional_appointments"
	getUserAppointmentsHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/get_user_appointments"
	listExpressHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/list_express"
	listPaymentsHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/list_payments"
	markPaidHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/mark_paid"
	proposeExpressHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/propose_express"
	realizeAppointmentHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/realize_appointment"
	rejectExpressHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/reject_express"
	setAvailabilityHandler "github.com/m04kA/SMC-TurnosService/internal/api/handlers/set_availability"
	"github.com/m04kA/SMC-TurnosService/internal/api/middleware"
	"github.com/m04kA/SMC-TurnosService/internal/domain"
	"github.com/m04kA/SMC-TurnosService/internal/infra/cache"
	"github.com/m04kA/SMC-TurnosService/internal/infra/storage/memory"
	appointmentsService "github.com/m04kA/SMC-TurnosService/internal/service/appointments"
	availabilityService "github.com/m04kA/SMC-TurnosService/internal/service/availability"
	expressService "github.com/m04kA/SMC-TurnosService/internal/service/express"
	paymentsService "github.com/m04kA/SMC-TurnosService/internal/service/payments"
	createAppointmentUC "github.com/m04kA/SMC-TurnosService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-TurnosService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-TurnosService/pkg/logger"
)

const (
	professionalID = 10
	patientID      = 1
	otherPatientID = 2
)

var loc = time.FixedZone("ART", -3*60*60)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

// newRouter собирает API поверх хранилища в памяти; сейчас - понедельник 07.01.2030, 08:00
func newRouter(t *testing.T) (*mux.Router, *memory.Store) {
	t.Helper()
	now := fixedTime{t: time.Date(2030, time.January, 7, 8, 0, 0, 0, loc)}
	log := logger.Nop()

	store := memory.New()
	rate := 4500.0
	store.PutProfessional(domain.Professional{ID: professionalID, Name: "Dra. Gómez", ExpressRate: &rate})
	require.NoError(t, store.SetAvailability(context.Background(), professionalID, []domain.AvailabilityRecord{
		{Weekday: "martes", Start: "09:00", End: "10:00"},
		{Weekday: "martes", Start: "10:00", End: "11:00"},
	}))

	c := cache.New(cache.NewLRUBackend(100, time.Minute), nil, log)
	availabilitySvc := availabilityService.NewService(store, c, log)
	paymentsSvc := paymentsService.NewService(store, c, log)
	appointmentsSvc := appointmentsService.NewService(store, paymentsSvc, c, nil, log)
	expressSvc := expressService.NewService(store, appointmentsSvc, c, nil, loc, log).WithTimeProvider(now)
	slotsUC := getAvailableSlotsUC.NewUseCase(availabilitySvc, appointmentsSvc, loc, 4, log).WithTimeProvider(now)
	createUC := createAppointmentUC.NewUseCase(store, appointmentsSvc, slotsUC, c, nil, loc, log).WithTimeProvider(now)

	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth(log))

	api.HandleFunc("/professionals/{professionalId}/availability", getAvailabilityHandler.NewHandler(availabilitySvc, log).Handle).Methods(http.MethodGet)
	api.HandleFunc("/professionals/{professionalId}/availability", setAvailabilityHandler.NewHandler(availabilitySvc, log).Handle).Methods(http.MethodPut)
	api.HandleFunc("/professionals/{professionalId}/slots", getAvailableSlotsHandler.NewHandler(slotsUC, log).Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments", createAppointmentHandler.NewHandler(createUC, log).Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{appointmentId}", getAppointmentHandler.NewHandler(appointmentsSvc, log).Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointmentHandler.NewHandler(appointmentsSvc, log).Handle).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/{appointmentId}/realize", realizeAppointmentHandler.NewHandler(appointmentsSvc, log).Handle).Methods(http.MethodPatch)
	api.HandleFunc("/users/{userId}/appointments", getUserAppointmentsHandler.NewHandler(appointmentsSvc, log).Handle).Methods(http.MethodGet)
	api.HandleFunc("/professionals/{professionalId}/appointments", getProfessionalAppointmentsHandler.NewHandler(appointmentsSvc, log).Handle).Methods(http.MethodGet)
	api.HandleFunc("/express", createExpressHandler.NewHandler(expressSvc, log).Handle).Methods(http.MethodPost)
	api.HandleFunc("/professionals/{professionalId}/express", listExpressHandler.NewHandler(expressSvc, log).Handle).Methods(http.MethodGet)
	api.HandleFunc("/express/{appointmentId}/proposal", proposeExpressHandler.NewHandler(expressSvc, log).Handle).Methods(http.MethodPatch)
	api.HandleFunc("/express/{appointmentId}/confirm", confirmExpressHandler.NewHandler(expressSvc, log).Handle).Methods(http.MethodPatch)
	api.HandleFunc("/express/{appointmentId}/reject", rejectExpressHandler.NewHandler(expressSvc, log).Handle).Methods(http.MethodPatch)
	api.HandleFunc("/professionals/{professionalId}/payments", listPaymentsHandler.NewHandler(paymentsSvc, log).Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}/payment", getPaymentHandler.NewHandler(paymentsSvc, log).Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}/payment/paid", markPaidHandler.NewHandler(paymentsSvc, log).Handle).Methods(http.MethodPatch)

	return r, store
}

func call(t *testing.T, r http.Handler, method, path string, userID int64, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if userID > 0 {
		req.Header.Set(middleware.HeaderUserID, fmt.Sprint(userID))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var out map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func booking(start, end string) map[string]interface{} {
	return map[string]interface{}{
		"professionalId": professionalID,
		"date":           "2030-01-08",
		"start":          start,
		"end":            end,
	}
}

func TestMissingUserIDIsUnauthorized(t *testing.T) {
	r, _ := newRouter(t)

	status, body := call(t, r, http.MethodGet, "/api/v1/professionals/10/slots", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.NotEmpty(t, body["error"])
}

func TestSlotsHideOwnReservations(t *testing.T) {
	r, _ := newRouter(t)

	status, _ := call(t, r, http.MethodPost, "/api/v1/appointments", patientID, booking("09:00", "10:00"))
	require.Equal(t, http.StatusCreated, status)

	status, week := call(t, r, http.MethodGet, "/api/v1/professionals/10/slots?weekOffset=0", patientID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "2030-01-07", week["from"])
	assert.Equal(t, "2030-01-13", week["to"])
	assert.Len(t, week["days"], domain.DaysPerWeek)

	reserved := week["reserved"].([]interface{})
	require.Len(t, reserved, 1)
	assert.Equal(t, "09:00", reserved[0].(map[string]interface{})["start"])

	status, _ = call(t, r, http.MethodGet, "/api/v1/professionals/10/slots?weekOffset=abc", patientID, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, r, http.MethodGet, "/api/v1/professionals/10/slots?weekOffset=-1", patientID, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCreateAppointmentConflicts(t *testing.T) {
	r, _ := newRouter(t)

	status, created := call(t, r, http.MethodPost, "/api/v1/appointments", patientID, booking("09:00", "10:00"))
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "confirmed", created["status"])
	assert.Equal(t, "consulta", created["kind"])

	// Тот же пациент: конфликт находит локальная проверка
	status, conflict := call(t, r, http.MethodPost, "/api/v1/appointments", patientID, booking("09:00", "10:00"))
	require.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "slot_unavailable", conflict["code"])
	require.NotNil(t, conflict["slots"])
	assert.Len(t, conflict["slots"].(map[string]interface{})["days"], domain.DaysPerWeek)

	// Другой пациент: конфликт находит хранилище
	status, conflict = call(t, r, http.MethodPost, "/api/v1/appointments", otherPatientID, booking("09:00", "10:00"))
	require.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "slot_unavailable", conflict["code"])

	status, invalid := call(t, r, http.MethodPost, "/api/v1/appointments", patientID, booking("9h", "10:00"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, invalid["error"])

	status, past := call(t, r, http.MethodPost, "/api/v1/appointments", patientID, map[string]interface{}{
		"professionalId": professionalID, "date": "2030-01-06", "start": "09:00", "end": "10:00",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "past_date", past["code"])
}

func TestAppointmentAccessAndTransitions(t *testing.T) {
	r, _ := newRouter(t)

	status, created := call(t, r, http.MethodPost, "/api/v1/appointments", patientID, booking("10:00", "11:00"))
	require.Equal(t, http.StatusCreated, status)
	path := fmt.Sprintf("/api/v1/appointments/%d", int64(created["id"].(float64)))

	status, _ = call(t, r, http.MethodGet, path, 3, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, got := call(t, r, http.MethodGet, path, professionalID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "2030-01-08", got["date"])

	// Пациент не может отметить турн проведённым
	status, _ = call(t, r, http.MethodPatch, path+"/realize", patientID, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, cancelled := call(t, r, http.MethodPatch, path+"/cancel", patientID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "cancelled", cancelled["status"])

	status, again := call(t, r, http.MethodPatch, path+"/cancel", patientID, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "invalid_transition", again["code"])

	status, _ = call(t, r, http.MethodGet, "/api/v1/appointments/999", patientID, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, r, http.MethodGet, "/api/v1/appointments/abc", patientID, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAgendaFilters(t *testing.T) {
	r, _ := newRouter(t)

	status, _ := call(t, r, http.MethodPost, "/api/v1/appointments", patientID, booking("09:00", "10:00"))
	require.Equal(t, http.StatusCreated, status)

	status, agenda := call(t, r, http.MethodGet,
		"/api/v1/professionals/10/appointments?from=2030-01-08&to=2030-01-08&status=confirmed", professionalID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, agenda["total"])

	status, agenda = call(t, r, http.MethodGet, "/api/v1/professionals/10/appointments?from=2030-01-09", professionalID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, agenda["total"])

	status, _ = call(t, r, http.MethodGet, "/api/v1/professionals/10/appointments?from=08-01-2030", professionalID, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, r, http.MethodGet, "/api/v1/professionals/10/appointments", patientID, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, own := call(t, r, http.MethodGet, "/api/v1/users/1/appointments?status=confirmed", patientID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, own["total"])

	status, bad := call(t, r, http.MethodGet, "/api/v1/users/1/appointments?status=unknown", patientID, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_input", bad["code"])
}

func TestAvailabilityRoundTrip(t *testing.T) {
	r, _ := newRouter(t)

	status, _ := call(t, r, http.MethodPut, "/api/v1/professionals/10/availability", patientID, map[string]interface{}{
		"availability": []map[string]string{{"weekday": "lunes", "start": "08:00", "end": "12:00"}},
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = call(t, r, http.MethodPut, "/api/v1/professionals/10/availability", professionalID, map[string]interface{}{
		"availability": []map[string]string{{"weekday": "Miércoles", "start": "9:00", "end": "13:00"}},
	})
	require.Equal(t, http.StatusOK, status)

	status, weekly := call(t, r, http.MethodGet, "/api/v1/professionals/10/availability", patientID, nil)
	require.Equal(t, http.StatusOK, status)
	days := weekly["days"].([]interface{})
	require.Len(t, days, 1)
	assert.Equal(t, "miercoles", days[0].(map[string]interface{})["weekday"])
}

func TestExpressNegotiationAndPayment(t *testing.T) {
	r, store := newRouter(t)

	// 1. Пациент запрашивает экспресс-турн
	status, requested := call(t, r, http.MethodPost, "/api/v1/express", otherPatientID, map[string]interface{}{
		"professionalId": professionalID,
	})
	require.Equal(t, http.StatusCreated, status)
	id := int64(requested["id"].(float64))
	assert.Equal(t, "pending", requested["status"])

	status, pending := call(t, r, http.MethodGet, "/api/v1/professionals/10/express", professionalID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, pending["total"])

	// 2. Предложение вне окна 07:00-22:00 отклоняется
	proposal := fmt.Sprintf("/api/v1/express/%d/proposal", id)
	status, window := call(t, r, http.MethodPatch, proposal, professionalID, map[string]string{
		"date": "2030-01-09", "start": "22:00", "end": "23:00",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_proposal_window", window["code"])

	status, proposed := call(t, r, http.MethodPatch, proposal, professionalID, map[string]string{
		"date": "2030-01-09", "start": "10:00", "end": "11:00",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "proposed", proposed["express"].(map[string]interface{})["state"])

	// 3. Подтверждает только пациент
	confirm := fmt.Sprintf("/api/v1/express/%d/confirm", id)
	status, _ = call(t, r, http.MethodPatch, confirm, professionalID, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, confirmed := call(t, r, http.MethodPatch, confirm, otherPatientID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "confirmed", confirmed["status"])
	assert.EqualValues(t, 4500, confirmed["cost"])
	assert.Equal(t, 1, store.CountPayments())

	status, _ = call(t, r, http.MethodPatch, fmt.Sprintf("/api/v1/express/%d/reject", id), otherPatientID, nil)
	assert.Equal(t, http.StatusConflict, status)

	// 4. Оплата: pendiente -> pagado, повторная отметка - конфликт
	payment := fmt.Sprintf("/api/v1/appointments/%d/payment", id)
	status, pay := call(t, r, http.MethodGet, payment, otherPatientID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pendiente", pay["status"])

	status, _ = call(t, r, http.MethodPatch, payment+"/paid", otherPatientID, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, paid := call(t, r, http.MethodPatch, payment+"/paid", professionalID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pagado", paid["status"])

	status, _ = call(t, r, http.MethodPatch, payment+"/paid", professionalID, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, list := call(t, r, http.MethodGet, "/api/v1/professionals/10/payments", professionalID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list["payments"], 1)
}

func TestExpressRejectCreatesNoPayment(t *testing.T) {
	r, store := newRouter(t)

	status, requested := call(t, r, http.MethodPost, "/api/v1/express", patientID, map[string]interface{}{
		"professionalId": professionalID,
	})
	require.Equal(t, http.StatusCreated, status)
	id := int64(requested["id"].(float64))

	status, rejected := call(t, r, http.MethodPatch, fmt.Sprintf("/api/v1/express/%d/reject", id), patientID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "cancelled", rejected["status"])
	assert.Equal(t, "rejected", rejected["express"].(map[string]interface{})["state"])
	assert.Equal(t, 0, store.CountPayments())

	status, pay := call(t, r, http.MethodGet, fmt.Sprintf("/api/v1/appointments/%d/payment", id), patientID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "unknown", pay["status"])
}

func TestExpressNotOffered(t *testing.T) {
	r, store := newRouter(t)
	store.PutProfessional(domain.Professional{ID: 11, Name: "Dr. Pérez"})

	status, body := call(t, r, http.MethodPost, "/api/v1/express", patientID, map[string]interface{}{
		"professionalId": 11,
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "express_not_offered", body["code"])
}

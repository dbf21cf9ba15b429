package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid input", domain.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
		{"invalid range", domain.ErrInvalidRange, http.StatusBadRequest, "invalid_range"},
		{"past date", domain.ErrPastDate, http.StatusBadRequest, "past_date"},
		{"past time", domain.ErrPastTime, http.StatusBadRequest, "past_time"},
		{"window wins over past date", fmt.Errorf("%w: %w", domain.ErrInvalidProposalWindow, domain.ErrPastDate), http.StatusBadRequest, "invalid_proposal_window"},
		{"access denied", domain.ErrAccessDenied, http.StatusForbidden, "access_denied"},
		{"not found", domain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"slot unavailable", domain.ErrSlotUnavailable, http.StatusConflict, "slot_unavailable"},
		{"invalid transition", domain.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
		{"express not offered", domain.ErrExpressNotOffered, http.StatusConflict, "express_not_offered"},
		{"remote unavailable", domain.ErrRemoteUnavailable, http.StatusBadGateway, "remote_unavailable"},
		{"wrapped with internal", fmt.Errorf("%w: %w", errors.New("internal"), domain.ErrNotFound), http.StatusNotFound, "not_found"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, message := StatusFor(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
			assert.NotEmpty(t, message)
		})
	}
}

func TestRespondDomainError(t *testing.T) {
	rec := httptest.NewRecorder()

	status := RespondDomainError(rec, fmt.Errorf("cancel: %w", domain.ErrInvalidTransition))

	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"`+msgInvalidTransition+`","code":"invalid_transition"}`, rec.Body.String())
}

func TestPathInt64(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": tt.raw})
			got, err := PathInt64(r, "id")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := PathInt64(httptest.NewRequest(http.MethodGet, "/", nil), "id")
	assert.Error(t, err)
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var dst struct {
		Date string `json:"date"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"date":"2030-01-08"}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "2030-01-08", dst.Date)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"date":"2030-01-08","extra":1}`))
	assert.Error(t, DecodeJSON(r, &dst))
}

type recordingLogger struct {
	warns  int
	errors int
}

func (l *recordingLogger) Warn(string, ...interface{})  { l.warns++ }
func (l *recordingLogger) Error(string, ...interface{}) { l.errors++ }

func TestLogDomainError(t *testing.T) {
	l := &recordingLogger{}

	LogDomainError(l, http.StatusConflict, "PATCH /x", domain.ErrInvalidTransition)
	LogDomainError(l, http.StatusBadGateway, "PATCH /x", domain.ErrRemoteUnavailable)

	assert.Equal(t, 1, l.warns)
	assert.Equal(t, 1, l.errors)
}

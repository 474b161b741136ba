package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TelegramGateway/internal/apperror"
	"github.com/m04kA/SMC-TelegramGateway/pkg/logger"
)

type errorEnvelope struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()

	var env errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	return env
}

func TestErrorResponder_Handle(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		development bool
		wantStatus  int
		wantCode    string
		wantMessage string
		wantDetails string
	}{
		{
			name:        "validation",
			err:         apperror.Validation("Validation failed", []apperror.FieldError{{Path: "query.token", Message: "is required"}}),
			wantStatus:  http.StatusBadRequest,
			wantCode:    apperror.CodeValidation,
			wantMessage: "Validation failed",
		},
		{
			name:        "authentication",
			err:         apperror.Authentication("Invalid RapidAPI proxy secret"),
			wantStatus:  http.StatusUnauthorized,
			wantCode:    apperror.CodeAuthentication,
			wantMessage: "Invalid RapidAPI proxy secret",
		},
		{
			name:        "upstream",
			err:         apperror.Upstream("unable to get chat info: Bad Request", nil, errors.New("boom")),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    apperror.CodeUpstream,
			wantMessage: "unable to get chat info: Bad Request",
		},
		{
			name:        "unclassified hidden in production",
			err:         errors.New("db password is hunter2"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    apperror.CodeInternal,
			wantMessage: "an internal error occurred",
		},
		{
			name:        "unclassified exposed in development",
			err:         errors.New("nil map write"),
			development: true,
			wantStatus:  http.StatusInternalServerError,
			wantCode:    apperror.CodeInternal,
			wantMessage: "an internal error occurred",
			wantDetails: `"nil map write"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responder := NewErrorResponder(logger.NewNop(), tt.development)
			rec := httptest.NewRecorder()

			responder.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/telegram/updates", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json"))

			env := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			assert.Equal(t, tt.wantMessage, env.Error.Message)
			if tt.wantDetails != "" {
				assert.JSONEq(t, tt.wantDetails, string(env.Error.Details))
			}
		})
	}
}

func TestErrorResponder_ValidationDetails(t *testing.T) {
	responder := NewErrorResponder(logger.NewNop(), false)
	rec := httptest.NewRecorder()

	responder.Handle(rec, httptest.NewRequest(http.MethodGet, "/", nil), apperror.Validation("Validation failed", []apperror.FieldError{
		{Path: "params.chatId", Message: "is required"},
		{Path: "query.token", Message: "is required"},
	}))

	env := decodeError(t, rec)

	var details []apperror.FieldError
	require.NoError(t, json.Unmarshal(env.Error.Details, &details))
	assert.Equal(t, []apperror.FieldError{
		{Path: "params.chatId", Message: "is required"},
		{Path: "query.token", Message: "is required"},
	}, details)
}

func TestErrorResponder_NotFound(t *testing.T) {
	responder := NewErrorResponder(logger.NewNop(), false)
	rec := httptest.NewRecorder()

	responder.NotFoundHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeError(t, rec)
	assert.Equal(t, apperror.CodeNotFound, env.Error.Code)
	assert.Equal(t, "Route DELETE /nope not found", env.Error.Message)
}

func TestRespondSuccess(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondSuccess(rec, http.StatusOK, map[string]int{"membersCount": 3})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"membersCount":3}}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var body struct {
		Name string `json:"name"`
	}

	empty := httptest.NewRequest(http.MethodPost, "/", nil)
	require.NoError(t, DecodeJSON(empty, &body))

	valid := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"promo"}`))
	require.NoError(t, DecodeJSON(valid, &body))
	assert.Equal(t, "promo", body.Name)

	broken := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	assert.Error(t, DecodeJSON(broken, &body))
}

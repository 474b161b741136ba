// Package handlertest общие помощники для тестов HTTP обработчиков
package handlertest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/validation"
	"github.com/m04kA/SMC-TelegramGateway/pkg/logger"
)

// Response разобранный конверт ответа; data остаётся сырым JSON
type Response struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Error   *handlers.ErrorBody `json:"error"`
}

// Binder без токена по умолчанию
func Binder() *validation.Binder {
	return validation.NewBinder(validation.New(), "")
}

// Responder обработчик ошибок с пустым логгером
func Responder() *handlers.ErrorResponder {
	return handlers.NewErrorResponder(logger.NewNop(), false)
}

// Request запрос с path параметрами mux; пустое body означает запрос без тела
func Request(method, target, body string, vars map[string]string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, target, reader)
	return mux.SetURLVars(r, vars)
}

// Decode разбирает конверт и, если data != nil, его поле data
func Decode(t *testing.T, rec *httptest.ResponseRecorder, data any) Response {
	t.Helper()

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(resp.Data, data), string(resp.Data))
	}
	return resp
}

// FieldPaths пути полей из details ошибки валидации
func FieldPaths(t *testing.T, resp Response) []string {
	t.Helper()

	require.NotNil(t, resp.Error)
	raw, err := json.Marshal(resp.Error.Details)
	require.NoError(t, err)

	var fields []struct {
		Path string `json:"path"`
	}
	require.NoError(t, json.Unmarshal(raw, &fields))

	paths := make([]string, 0, len(fields))
	for _, f := range fields {
		paths = append(paths, f.Path)
	}
	return paths
}

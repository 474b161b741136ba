package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Handle(t *testing.T) {
	startedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	h := NewHandler(startedAt, "production")
	h.now = func() time.Time { return startedAt.Add(90 * time.Second) }

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, Response{
		Success:     true,
		Status:      "healthy",
		Timestamp:   "2024-05-01T12:01:30Z",
		Uptime:      90,
		Environment: "production",
	}, got)
}

package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/csv3d/internal/core"
	"github.com/JonMunkholm/csv3d/internal/logging"
)

func TestRespondError_LogsAndBody(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantLevel  string
	}{
		{"mapped client error", fmt.Errorf("%w: abc", core.ErrSessionNotFound), http.StatusNotFound, "SES001", "WARN"},
		{"unmapped error", errors.New("boom"), http.StatusInternalServerError, "ERR000", "ERROR"},
		{"validation error", badRequest("body", "Invalid JSON request body"), http.StatusBadRequest, "VAL003", "WARN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			prev := slog.Default()
			slog.SetDefault(slog.New(logging.NewHandler(&buf, "debug", "json")))
			t.Cleanup(func() { slog.SetDefault(prev) })

			req := httptest.NewRequest(http.MethodGet, "/api/sessions/abc", nil)
			rec := httptest.NewRecorder()
			respondError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decode[ErrorResponse](t, rec)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.NotEmpty(t, resp.Message)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, tt.err.Error(), entry["error"], "the technical error is logged, not the user message")
			assert.Equal(t, tt.wantCode, entry["code"])
		})
	}
}

func TestRespondError_HTML(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/sessions/abc", nil)
	rec := httptest.NewRecorder()
	respondError(rec, req, core.ErrSessionNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Session not found")
}

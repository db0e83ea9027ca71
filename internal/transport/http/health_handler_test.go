package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movieweek/internal/services"
	"movieweek/internal/shared/testutil"
)

func newHealthRouter(t *testing.T, remoteURL string) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	h := NewHealthHandler(services.NewHealthService("v1.0.0-test", "", remoteURL, nil, logger), logger)

	r := chi.NewRouter()
	r.Mount("/api/health", h.Routes())
	r.Get("/api/version", h.Version)
	return r
}

func TestHealthHandler_Endpoints(t *testing.T) {
	router := newHealthRouter(t, "https://example.test/daily.xlsx")

	tests := []struct {
		name           string
		endpoint       string
		expectedStatus int
		checkResponse  func(t *testing.T, body map[string]interface{})
	}{
		{
			name:           "health check endpoint",
			endpoint:       "/api/health",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "ok", body["status"])
				assert.Equal(t, "v1.0.0-test", body["version"])
			},
		},
		{
			name:           "readiness endpoint",
			endpoint:       "/api/health/ready",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "ready", body["status"])
				assert.Contains(t, body["services"], "pipeline")
			},
		},
		{
			name:           "liveness endpoint",
			endpoint:       "/api/health/live",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "alive", body["status"])
				assert.Contains(t, body["runtime"], "go_version")
			},
		},
		{
			name:           "version endpoint",
			endpoint:       "/api/version",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "v1.0.0-test", body["version"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.endpoint, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			tt.checkResponse(t, body)
		})
	}
}

func TestHealthHandler_NotReady(t *testing.T) {
	router := newHealthRouter(t, "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"not_ready"`)
}

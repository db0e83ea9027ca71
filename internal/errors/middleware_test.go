package errors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"movieweek/internal/shared/testutil"
)

func TestRecoveryMiddleware(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		shouldPanic bool
		wantStatus  int
	}{
		{
			name: "normal request without panic",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "request that panics with string",
			handler: func(w http.ResponseWriter, r *http.Request) {
				panic("something went wrong")
			},
			shouldPanic: true,
			wantStatus:  http.StatusInternalServerError,
		},
		{
			name: "request that panics with error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				panic(assert.AnError)
			},
			shouldPanic: true,
			wantStatus:  http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			mw := RecoveryMiddleware(NewErrorHandler(logger, false))(tt.handler)

			w := httptest.NewRecorder()
			mw.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.shouldPanic, logs.ContainsMessage("panic recovered"))
			if tt.shouldPanic {
				assert.Equal(t, TypeInternal, decodeProblem(t, w)["type"])
			}
		})
	}
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/trace/noop"

	"movieweek/internal/infrastructure"
	"movieweek/internal/shared/testutil"
)

func TestOTelMiddleware_RecordsRouteMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := infrastructure.CreateMetrics(mp.Meter("test"))
	require.NoError(t, err)

	logger, _ := testutil.NewTestLogger(t)
	providers := &infrastructure.OTelProviders{
		Tracer: noop.NewTracerProvider().Tracer("test"),
		Logger: logger,
	}
	mw, err := NewOTelMiddleware(providers, metrics)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(mw.Handler)
	r.Get("/api/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	for _, path := range []string{"/api/items/1", "/api/items/2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusAccepted, w.Code)
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	want := attribute.NewSet(
		attribute.String("method", http.MethodGet),
		attribute.String("route", "/api/items/{id}"),
		attribute.Int("status_code", http.StatusAccepted),
	)

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http_requests" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				if dp.Attributes.Equals(&want) {
					total += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(2), total)
}

func TestNewOTelMiddleware_RequiresProviders(t *testing.T) {
	_, err := NewOTelMiddleware(nil, nil)
	assert.Error(t, err)
}

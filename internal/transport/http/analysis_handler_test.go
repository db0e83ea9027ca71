package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "movieweek/internal/errors"
	"movieweek/internal/exporter"
	"movieweek/internal/shared/testutil"
	"movieweek/pkg/contracts/domain"
)

type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) AnalyzeUpload(ctx context.Context, filename string, body io.Reader) (*domain.Analysis, error) {
	args := m.Called(ctx, filename, body)
	if a := args.Get(0); a != nil {
		return a.(*domain.Analysis), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAnalysisService) AnalyzeRemote(ctx context.Context) (*domain.Analysis, error) {
	args := m.Called(ctx)
	if a := args.Get(0); a != nil {
		return a.(*domain.Analysis), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAnalysisService) MaxUploadBytes() int64 {
	return int64(m.Called().Int(0))
}

func newAnalysisRouter(t *testing.T, svc AnalysisServiceInterface) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	h := NewAnalysisHandler(svc, exporter.NewAnalysisExporter(exporter.NewCSVWriter(logger)), logger, apierrors.NewErrorHandler(logger, false))

	r := chi.NewRouter()
	r.Mount("/api/analysis", h.Routes())
	return r
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func mondayAnalysis() *domain.Analysis {
	weekdays := make([]domain.WeekdayStat, 0, domain.DaysInWeek)
	for _, day := range domain.AllWeekdays() {
		weekdays = append(weekdays, domain.WeekdayStat{Weekday: day, MeanAttendance: math.NaN()})
	}
	weekdays[domain.Monday] = domain.WeekdayStat{Weekday: domain.Monday, Count: 1, TotalAttendance: 10, MeanAttendance: 10, TotalRevenue: 100}
	return &domain.Analysis{
		Source:   "daily.csv",
		Weekdays: weekdays,
		MaxByDay: []domain.Extremum{{Weekday: domain.Monday, Title: "A", Attendance: 10}},
		MinByDay: []domain.Extremum{{Weekday: domain.Monday, Title: "A", Attendance: 10}},
	}
}

func TestAnalysisHandler_Analyze(t *testing.T) {
	svc := new(MockAnalysisService)
	svc.On("MaxUploadBytes").Return(1024)
	svc.On("AnalyzeUpload", mock.Anything, "daily.csv", mock.Anything).
		Return(mondayAnalysis(), nil).Once()

	body, contentType := multipartUpload(t, "file", "daily.csv", []byte("payload"))
	req := httptest.NewRequest(http.MethodPost, "/api/analysis", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	newAnalysisRouter(t, svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Source   string `json:"source"`
			Weekdays []struct {
				Weekday        string   `json:"weekday"`
				MeanAttendance *float64 `json:"mean_attendance"`
			} `json:"weekdays"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "daily.csv", resp.Data.Source)
	require.Len(t, resp.Data.Weekdays, domain.DaysInWeek)
	assert.Equal(t, "월", resp.Data.Weekdays[0].Weekday)
	require.NotNil(t, resp.Data.Weekdays[0].MeanAttendance)
	assert.Nil(t, resp.Data.Weekdays[1].MeanAttendance)
	svc.AssertExpectations(t)
}

func TestAnalysisHandler_AnalyzeCSV(t *testing.T) {
	svc := new(MockAnalysisService)
	svc.On("MaxUploadBytes").Return(1024)
	svc.On("AnalyzeUpload", mock.Anything, "daily.xlsx", mock.Anything).
		Return(mondayAnalysis(), nil).Once()

	body, contentType := multipartUpload(t, "file", "daily.xlsx", []byte("payload"))
	req := httptest.NewRequest(http.MethodPost, "/api/analysis?format=csv", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	newAnalysisRouter(t, svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "월,Mon,1,10,10.00,100,A,10,A,10")
}

func TestAnalysisHandler_AnalyzeErrors(t *testing.T) {
	tests := []struct {
		name       string
		request    func(t *testing.T) *http.Request
		serviceErr error
		wantStatus int
		wantType   string
	}{
		{
			name: "not multipart",
			request: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/api/analysis", strings.NewReader("{}"))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
			wantStatus: http.StatusUnsupportedMediaType,
			wantType:   apierrors.TypeUnsupportedInput,
		},
		{
			name: "missing file field",
			request: func(t *testing.T) *http.Request {
				body, ct := multipartUpload(t, "upload", "daily.csv", []byte("payload"))
				req := httptest.NewRequest(http.MethodPost, "/api/analysis", body)
				req.Header.Set("Content-Type", ct)
				return req
			},
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeUnsupportedInput,
		},
		{
			name: "body too large",
			request: func(t *testing.T) *http.Request {
				body, ct := multipartUpload(t, "file", "daily.csv", bytes.Repeat([]byte("x"), 2<<20))
				req := httptest.NewRequest(http.MethodPost, "/api/analysis", body)
				req.Header.Set("Content-Type", ct)
				return req
			},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   apierrors.TypePayloadTooLarge,
		},
		{
			name: "schema mismatch",
			request: func(t *testing.T) *http.Request {
				body, ct := multipartUpload(t, "file", "daily.csv", []byte("payload"))
				req := httptest.NewRequest(http.MethodPost, "/api/analysis", body)
				req.Header.Set("Content-Type", ct)
				return req
			},
			serviceErr: apierrors.NewSchemaError("missing required column 관객수", nil),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   apierrors.TypeAnalysisSchema,
		},
		{
			name: "unsupported response format",
			request: func(t *testing.T) *http.Request {
				body, ct := multipartUpload(t, "file", "daily.csv", []byte("payload"))
				req := httptest.NewRequest(http.MethodPost, "/api/analysis?format=xml", body)
				req.Header.Set("Content-Type", ct)
				return req
			},
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAnalysisService)
			svc.On("MaxUploadBytes").Return(16)
			if tt.serviceErr != nil {
				svc.On("AnalyzeUpload", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.serviceErr)
			} else {
				svc.On("AnalyzeUpload", mock.Anything, mock.Anything, mock.Anything).Return(mondayAnalysis(), nil)
			}

			rec := httptest.NewRecorder()
			newAnalysisRouter(t, svc).ServeHTTP(rec, tt.request(t))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantType != "" {
				var problem map[string]interface{}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
				assert.Equal(t, tt.wantType, problem["type"])
			}
		})
	}
}

func TestAnalysisHandler_AnalyzeRemote(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockAnalysisService)
		svc.On("AnalyzeRemote", mock.Anything).Return(mondayAnalysis(), nil).Once()

		rec := httptest.NewRecorder()
		newAnalysisRouter(t, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analysis/remote", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"success"`)
		svc.AssertExpectations(t)
	})

	t.Run("upstream failure", func(t *testing.T) {
		svc := new(MockAnalysisService)
		svc.On("AnalyzeRemote", mock.Anything).
			Return(nil, apierrors.NewNetworkError("remote source unavailable", nil)).Once()

		rec := httptest.NewRecorder()
		newAnalysisRouter(t, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analysis/remote", nil))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("category csv without genre", func(t *testing.T) {
		svc := new(MockAnalysisService)
		svc.On("AnalyzeRemote", mock.Anything).Return(mondayAnalysis(), nil).Once()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/analysis/remote?format=csv&section=category", nil)
		newAnalysisRouter(t, svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

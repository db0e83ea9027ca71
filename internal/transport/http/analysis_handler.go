package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"movieweek/internal/config"
	apierrors "movieweek/internal/errors"
	"movieweek/internal/exporter"
	"movieweek/internal/middleware"
	"movieweek/pkg/contracts/domain"
)

const (
	// multipartOverhead allows for boundaries and part headers on top of the
	// file size limit.
	multipartOverhead = 1 << 20

	// multipartMemory is held in memory before parts spill to disk.
	multipartMemory = 8 << 20
)

// AnalysisHandler serves box-office analyses over HTTP
type AnalysisHandler struct {
	service      AnalysisServiceInterface
	exporter     *exporter.AnalysisExporter
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service AnalysisServiceInterface, exp *exporter.AnalysisExporter, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		exporter:     exp,
		logger:       logger.With(slog.String("component", "analysis_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the analysis routes
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(middleware.ContentTypeValidator("multipart/form-data")).Post("/", h.Analyze)
	r.Get("/remote", h.AnalyzeRemote)

	return r
}

// Analyze handles POST /api/analysis with a multipart upload
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	reqID := chimw.GetReqID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.service.MaxUploadBytes()+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(config.UploadFormField)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrMissingFile)
		return
	}
	defer file.Close()

	h.logger.InfoContext(r.Context(), "analysis upload received",
		slog.String("request_id", reqID),
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size))

	analysis, err := h.service.AnalyzeUpload(r.Context(), header.Filename, file)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.respond(w, r, analysis)
}

// AnalyzeRemote handles GET /api/analysis/remote
func (h *AnalysisHandler) AnalyzeRemote(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "remote analysis requested",
		slog.String("request_id", chimw.GetReqID(r.Context())))

	analysis, err := h.service.AnalyzeRemote(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.respond(w, r, analysis)
}

// respond writes the analysis as JSON, or as CSV when ?format=csv is given.
// ?section picks the CSV table (weekday or category).
func (h *AnalysisHandler) respond(w http.ResponseWriter, r *http.Request, analysis *domain.Analysis) {
	switch format := strings.ToLower(r.URL.Query().Get("format")); format {
	case "", "json":
		render.JSON(w, r, map[string]interface{}{
			"status": "success",
			"data":   analysis,
		})
	case "csv":
		h.respondCSV(w, r, analysis)
	default:
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", fmt.Sprintf("unsupported format %q", format)))
	}
}

func (h *AnalysisHandler) respondCSV(w http.ResponseWriter, r *http.Request, analysis *domain.Analysis) {
	section, err := exporter.ParseSection(r.URL.Query().Get("section"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("section", err.Error()))
		return
	}

	if _, err := h.exporter.Options(analysis, section); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("section", err.Error()))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "movieweek-"+string(section)+".csv"))
	if err := h.exporter.Export(w, analysis, section); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to write csv response", slog.String("error", err.Error()))
	}
}

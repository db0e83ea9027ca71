package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gota/gota/dataframe"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "movieweek/internal/errors"
	"movieweek/internal/infrastructure"
	"movieweek/pkg/contracts/domain"
)

// ErrLoadFailed is matched by every failure to turn a source into clean
// records, whatever the stage.
var ErrLoadFailed = errors.New("failed to load box-office data")

// Pipeline stage names used in spans, logs and failure metrics.
const (
	StageFetch     = "fetch"
	StageLoad      = "load"
	StageNormalize = "normalize"
	StageCoerce    = "coerce"
	StageAggregate = "aggregate"
)

// Pipeline runs load, normalize, coerce and aggregate over one source.
// It holds no per-run state and is safe for concurrent use.
type Pipeline struct {
	loader  *Loader
	fetcher *Fetcher
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.Metrics
	now     func() time.Time
}

// PipelineOption configures a Pipeline
type PipelineOption func(*Pipeline)

// WithFetcher enables remote sources
func WithFetcher(f *Fetcher) PipelineOption {
	return func(p *Pipeline) { p.fetcher = f }
}

// WithTracer sets the tracer used for stage spans
func WithTracer(t trace.Tracer) PipelineOption {
	return func(p *Pipeline) { p.tracer = t }
}

// WithMetrics sets the instruments runs are recorded on
func WithMetrics(m *infrastructure.Metrics) PipelineOption {
	return func(p *Pipeline) { p.metrics = m }
}

// WithClock overrides the time source for Analysis.GeneratedAt
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) { p.now = now }
}

// NewPipeline creates a pipeline
func NewPipeline(logger *slog.Logger, opts ...PipelineOption) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		loader:  NewLoader(logger),
		logger:  logger.With(slog.String("component", "pipeline")),
		tracer:  otel.Tracer(infrastructure.InstrumentationName),
		metrics: infrastructure.NoopMetrics(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RemoteURL returns the configured remote address, or "" without a fetcher.
func (p *Pipeline) RemoteURL() string {
	if p.fetcher == nil {
		return ""
	}
	return p.fetcher.URL()
}

// RunRemote fetches the remote export and analyses it.
func (p *Pipeline) RunRemote(ctx context.Context) (*domain.Analysis, error) {
	if p.fetcher == nil {
		return nil, apperrors.NewConfigError("remote source is not configured", nil)
	}
	return p.Run(ctx, Source{
		Name:   p.fetcher.URL(),
		Format: FormatCSV,
		Origin: OriginRemote,
	})
}

// Run analyses src. The returned Analysis is complete; on error nothing is
// returned. Failures before aggregation are *errors.AppError values that
// also match ErrLoadFailed.
func (p *Pipeline) Run(ctx context.Context, src Source) (*domain.Analysis, error) {
	start := time.Now()

	ctx, span := p.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("source.name", src.Name),
		attribute.String("source.format", string(src.Format)),
		attribute.String("source.origin", string(src.Origin)),
	))
	defer span.End()

	analysis, stats, stage, err := p.run(ctx, src)
	duration := time.Since(start)
	p.metrics.RecordPipelineRun(ctx, string(src.Origin), duration, stats, stage)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.logger.WarnContext(ctx, "Box-office analysis failed",
			slog.String("source", src.Name),
			slog.String("stage", stage),
			slog.String("error", err.Error()))
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("rows.read", stats.RowsRead),
		attribute.Int("rows.kept", stats.RowsKept),
	)
	p.logger.InfoContext(ctx, "Box-office analysis complete",
		slog.String("source", src.Name),
		slog.Int("rows_read", stats.RowsRead),
		slog.Int("rows_kept", stats.RowsKept),
		slog.Int("rows_dropped", stats.RowsDroppedByDate),
		slog.Int("attendance_zeroed", stats.AttendanceZeroed),
		slog.Int("revenue_zeroed", stats.RevenueZeroed),
		slog.Bool("has_category", analysis.HasCategory),
		slog.Duration("duration", duration))

	return analysis, nil
}

func (p *Pipeline) run(ctx context.Context, src Source) (*domain.Analysis, domain.LoadStats, string, error) {
	var stats domain.LoadStats

	if src.Origin == OriginRemote && src.Data == nil {
		if p.fetcher == nil {
			return nil, stats, StageFetch, apperrors.NewConfigError("remote source is not configured", nil)
		}
		data, err := traceStage(ctx, p.tracer, StageFetch, func(ctx context.Context) ([]byte, error) {
			return p.fetcher.Fetch(ctx)
		})
		if err != nil {
			return nil, stats, StageFetch, fetchError(err, p.fetcher.URL())
		}
		src.Data = data
	}

	raw, err := traceStage(ctx, p.tracer, StageLoad, func(ctx context.Context) (loaded, error) {
		df, err := p.loader.Load(ctx, src)
		return loaded{df: df}, err
	})
	if err != nil {
		return nil, stats, StageLoad, loadError(err, src)
	}

	normalized, err := traceStage(ctx, p.tracer, StageNormalize, func(context.Context) (loaded, error) {
		df, hasCategory, err := Normalize(raw.df)
		return loaded{df: df, hasCategory: hasCategory}, err
	})
	if err != nil {
		return nil, stats, StageNormalize, apperrors.NewSchemaError(
			"table does not have the daily box-office columns", loadFailed(err))
	}

	records, err := traceStage(ctx, p.tracer, StageCoerce, func(context.Context) ([]domain.CleanRecord, error) {
		var err error
		var recs []domain.CleanRecord
		recs, stats, err = Coerce(normalized.df, normalized.hasCategory)
		return recs, err
	})
	if stats.RowsDroppedByDate > 0 {
		p.logger.WarnContext(ctx, "Dropped rows with unparseable dates",
			slog.String("source", src.Name),
			slog.Int("dropped", stats.RowsDroppedByDate),
			slog.Int("rows_read", stats.RowsRead))
	}
	if err != nil {
		return nil, stats, StageCoerce, apperrors.NewParsingError(
			"no row has a parseable release date", loadFailed(err))
	}

	agg, err := traceStage(ctx, p.tracer, StageAggregate, func(context.Context) (Aggregates, error) {
		return Aggregate(records, normalized.hasCategory)
	})
	if err != nil {
		return nil, stats, StageAggregate, fmt.Errorf("aggregate %s: %w", src.Name, err)
	}

	return &domain.Analysis{
		Source:      src.Name,
		Stats:       stats,
		Weekdays:    agg.Weekdays,
		MaxByDay:    agg.MaxByDay,
		MinByDay:    agg.MinByDay,
		HasCategory: normalized.hasCategory,
		Categories:  agg.Categories,
		GeneratedAt: p.now().UTC(),
	}, stats, "", nil
}

// loaded carries a table between stages.
type loaded struct {
	df          dataframe.DataFrame
	hasCategory bool
}

func traceStage[T any](ctx context.Context, tracer trace.Tracer, stage string, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := tracer.Start(ctx, "pipeline."+stage)
	defer span.End()

	out, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

func loadFailed(cause error) error {
	return fmt.Errorf("%w: %w", ErrLoadFailed, cause)
}

func loadError(err error, src Source) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, ErrUnsupportedFormat) {
		return apperrors.NewLoadError("unsupported source format", loadFailed(err)).
			WithContext("format", string(src.Format))
	}
	return apperrors.NewParsingError("could not read the box-office file", loadFailed(err)).
		WithContext("source", src.Name).
		WithContext("format", string(src.Format))
}

func fetchError(err error, url string) error {
	if errors.Is(err, ErrSourceTooLarge) {
		return apperrors.NewTooLargeError("remote box-office data is too large", loadFailed(err)).
			WithContext("url", url)
	}
	return apperrors.NewNetworkError("could not fetch remote box-office data", loadFailed(err)).
		WithContext("url", url)
}

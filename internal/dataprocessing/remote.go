package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"movieweek/internal/config"
)

var (
	// ErrUnexpectedStatus is returned when the remote source answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected response status")
	// ErrSourceTooLarge is returned when a body exceeds the configured size limit.
	ErrSourceTooLarge = errors.New("source exceeds size limit")
)

// Fetcher downloads the remote box-office export. Concurrent calls share a
// single request that runs detached from any one caller's cancellation and is
// bounded by the fetch timeout. There is no retry.
type Fetcher struct {
	url        string
	userAgent  string
	maxBytes   int64
	timeout    time.Duration
	httpClient *http.Client
	group      singleflight.Group
	logger     *slog.Logger
}

// NewFetcher creates a fetcher for the configured remote URL
func NewFetcher(cfg config.SourceConfig, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		url:        cfg.RemoteURL,
		userAgent:  cfg.UserAgent,
		maxBytes:   cfg.MaxUploadBytes,
		timeout:    cfg.FetchTimeout,
		httpClient: &http.Client{},
		logger:     logger.With(slog.String("component", "fetcher")),
	}
}

// URL returns the address the fetcher downloads from
func (f *Fetcher) URL() string {
	return f.url
}

// Fetch downloads the export body. A caller whose ctx ends stops waiting with
// ctx.Err(); the shared request keeps running for the other callers.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	ch := f.group.DoChan(f.url, func() (interface{}, error) {
		fetchCtx := context.WithoutCancel(ctx)
		if f.timeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(fetchCtx, f.timeout)
			defer cancel()
		}
		return f.fetch(fetchCtx)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for %s: %w", f.url, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			f.logger.DebugContext(ctx, "Shared in-flight remote fetch", slog.String("url", f.url))
		}
		return res.Val.([]byte), nil
	}
}

func (f *Fetcher) fetch(ctx context.Context) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", f.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d from %s", ErrUnexpectedStatus, resp.StatusCode, f.url)
	}

	var reader io.Reader = resp.Body
	if f.maxBytes > 0 {
		reader = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if f.maxBytes > 0 && int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrSourceTooLarge, f.maxBytes)
	}

	f.logger.InfoContext(ctx, "Fetched remote box-office data",
		slog.String("url", f.url),
		slog.Int("bytes", len(body)),
		slog.Duration("duration", time.Since(start)))

	return body, nil
}

package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"movieweek/pkg/contracts"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	remoteURL string
	ready     func() bool
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a new health service. ready reports whether the
// pipeline is wired; nil means always ready.
func NewHealthService(version, buildTime, remoteURL string, ready func() bool, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	if ready == nil {
		ready = func() bool { return true }
	}

	logger.Debug("HealthService initialized",
		slog.String("version", version),
		slog.String("remote_url", remoteURL))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		remoteURL: remoteURL,
		ready:     ready,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck returns readiness status
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]interface{}{
			"pipeline":      hs.checkPipeline(),
			"remote_source": hs.checkRemoteSource(),
		},
	}

	for name, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status != "ready" {
			status.Status = "not_ready"
			hs.logger.WarnContext(ctx, "Readiness check failed",
				slog.String("service", name),
				slog.String("message", sh.Message))
		}
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":      hs.version,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}

	if hs.buildTime != "" && hs.buildTime != "unknown" {
		result["build_time"] = hs.buildTime
	}

	info := contracts.GetVersionInfo()
	result["git_commit"] = info.GitCommit
	result["api_version"] = info.APIVersion
	result["data_format"] = info.DataFormat

	return result
}

func (hs *HealthService) checkPipeline() ServiceHealth {
	if !hs.ready() {
		return ServiceHealth{Status: "not_ready", Message: "pipeline is not initialized"}
	}
	return ServiceHealth{Status: "ready"}
}

func (hs *HealthService) checkRemoteSource() ServiceHealth {
	if hs.remoteURL == "" {
		return ServiceHealth{Status: "not_ready", Message: "remote source URL is not configured"}
	}
	return ServiceHealth{Status: "ready", Message: hs.remoteURL}
}

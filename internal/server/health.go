package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Houeta/employee-gateway/internal/lib/logger/sl"
	"github.com/Houeta/employee-gateway/internal/models"
)

const probeTimeout = 5 * time.Second

// HealthChecker reports whether the upstream employee API answers a HEAD probe.
type HealthChecker struct {
	upstreamURL string
	httpClient  *http.Client
	log         *slog.Logger
}

func NewHealthChecker(upstreamURL string, log *slog.Logger) *HealthChecker {
	return &HealthChecker{
		upstreamURL: upstreamURL,
		httpClient:  &http.Client{Timeout: probeTimeout},
		log:         log,
	}
}

func (h *HealthChecker) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	h.log.DebugContext(ctx, "Performing health checks...")

	status := map[string]string{"service": "ok"}
	overallStatus := http.StatusOK

	probe, err := http.NewRequestWithContext(ctx, http.MethodHead, h.upstreamURL, nil)
	if err != nil {
		status["upstream"] = "unreachable"
		overallStatus = http.StatusServiceUnavailable
		h.log.ErrorContext(ctx, "Health check failed: invalid upstream URL", "url", h.upstreamURL, sl.Err(err))
		h.write(writer, req, overallStatus, status)
		return
	}
	probe.Header.Set("User-Agent", models.UserAgent)

	resp, err := h.httpClient.Do(probe)
	switch {
	case err != nil:
		status["upstream"] = "unreachable"
		overallStatus = http.StatusServiceUnavailable
		h.log.WarnContext(ctx, "Health check failed: upstream unreachable", "url", h.upstreamURL, sl.Err(err))
	case resp.StatusCode >= http.StatusBadRequest:
		status["upstream"] = "degraded"
		overallStatus = http.StatusServiceUnavailable
		h.log.WarnContext(ctx, "Health check failed: upstream returned error status",
			"url", h.upstreamURL, "status_code", resp.StatusCode)
	default:
		status["upstream"] = "ok"
	}
	if resp != nil {
		if err = resp.Body.Close(); err != nil {
			h.log.WarnContext(ctx, "Failed to close response body", sl.Err(err))
		}
	}

	h.write(writer, req, overallStatus, status)
}

func (h *HealthChecker) write(writer http.ResponseWriter, req *http.Request, code int, status map[string]string) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(code)
	if err := json.NewEncoder(writer).Encode(status); err != nil {
		h.log.ErrorContext(req.Context(), "Failed to write health check response", sl.Err(err))
	}

	h.log.DebugContext(req.Context(), "Health checks completed", "status", code)
}

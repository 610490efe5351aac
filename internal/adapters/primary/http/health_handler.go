package http

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

const healthCheckTimeout = 5 * time.Second

// HealthChecker is a backend that can be pinged.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Gauge reports a live count owned by this process, e.g. connected
// websocket clients.
type Gauge func() int

// HealthHandler serves liveness and readiness checks. Checks are keyed by
// backend name ("postgres", "redis"); the memory store registers none.
type HealthHandler struct {
	checks    map[string]HealthChecker
	gauges    map[string]Gauge
	startTime time.Time
	version   string
}

type HealthOption func(*HealthHandler)

// WithGauge adds a named count to the detailed /health report.
func WithGauge(name string, g Gauge) HealthOption {
	return func(h *HealthHandler) {
		h.gauges[name] = g
	}
}

func NewHealthHandler(checks map[string]HealthChecker, version string, opts ...HealthOption) *HealthHandler {
	h := &HealthHandler{
		checks:    checks,
		gauges:    make(map[string]Gauge),
		startTime: time.Now(),
		version:   version,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Version   string           `json:"version,omitempty"`
	Uptime    string           `json:"uptime,omitempty"`
	Checks    map[string]Check `json:"checks,omitempty"`
}

// DetailedHealthResponse adds process gauges and runtime figures.
type DetailedHealthResponse struct {
	HealthResponse
	Realtime   map[string]int `json:"realtime,omitempty"`
	Goroutines int            `json:"goroutines"`
	HeapBytes  uint64         `json:"heap_bytes"`
	NumGC      uint32         `json:"num_gc"`
}

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// HandleLiveness handles GET /health/live. It never touches a backend.
func (h *HealthHandler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleReadiness handles GET /health/ready
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	resp, healthy := h.report(r.Context())
	if !healthy {
		resp.Status = "unhealthy"
	}
	WriteJSON(w, readinessStatus(healthy), resp)
}

// HandleHealth handles GET /health
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp, healthy := h.report(r.Context())
	if !healthy {
		resp.Status = "degraded"
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	detailed := DetailedHealthResponse{
		HealthResponse: resp,
		Goroutines:     runtime.NumGoroutine(),
		HeapBytes:      mem.HeapAlloc,
		NumGC:          mem.NumGC,
	}
	if len(h.gauges) > 0 {
		detailed.Realtime = make(map[string]int, len(h.gauges))
		for name, g := range h.gauges {
			detailed.Realtime[name] = g()
		}
	}

	WriteJSON(w, readinessStatus(healthy), detailed)
}

func readinessStatus(healthy bool) int {
	if healthy {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}

func (h *HealthHandler) report(ctx context.Context) (HealthResponse, bool) {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	checks, healthy := h.runChecks(ctx)
	return HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    checks,
	}, healthy
}

// runChecks pings every backend concurrently. A slow backend costs at most
// the context deadline, not the sum of all of them.
func (h *HealthHandler) runChecks(ctx context.Context) (map[string]Check, bool) {
	if len(h.checks) == 0 {
		return nil, true
	}

	type result struct {
		name  string
		check Check
	}
	results := make([]result, 0, len(h.checks))
	for name := range h.checks {
		results = append(results, result{name: name})
	}

	var g errgroup.Group
	for i := range results {
		dep := h.checks[results[i].name]
		g.Go(func() error {
			results[i].check = ping(ctx, dep)
			return nil
		})
	}
	_ = g.Wait()

	checks := make(map[string]Check, len(results))
	healthy := true
	for _, res := range results {
		checks[res.name] = res.check
		healthy = healthy && res.check.Status == "healthy"
	}
	return checks, healthy
}

func ping(ctx context.Context, dep HealthChecker) Check {
	if dep == nil {
		return Check{Status: "unhealthy", Message: "Dependency not configured"}
	}

	start := time.Now()
	if err := dep.Ping(ctx); err != nil {
		return Check{Status: "unhealthy", Message: err.Error(), Latency: time.Since(start).String()}
	}
	return Check{Status: "healthy", Latency: time.Since(start).String()}
}

func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HandleHealth)
	r.Get("/health/live", h.HandleLiveness)
	r.Get("/health/ready", h.HandleReadiness)
}

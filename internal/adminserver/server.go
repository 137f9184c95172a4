// Package adminserver implements the supplemental admin surface
// SPEC_FULL.md §6 adds on top of spec.md's unchanged CLI: when
// `watch --daemon` is given an --admin-addr, this loopback-only
// labstack/echo/v4 server exposes GET /healthz and GET /metrics so an
// operator or local Prometheus scrape can see pipeline health without
// tailing logs. It serves no conversation content and is off unless
// explicitly requested.
package adminserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/aicf-dev/aicf/internal/cycle"
)

// Server is the admin HTTP surface. It holds no reference to any
// conversation content: only the health snapshot and the metrics
// registry, both populated solely from internal/cycle.Summary values.
type Server struct {
	echo    *echo.Echo
	health  *HealthState
	metrics *Metrics
	logger  *zap.Logger
	addr    string
}

// NewServer builds a Server bound to addr (expected to be a loopback
// address, e.g. "127.0.0.1:9191" — nothing here enforces that, callers
// choose the bind address per SPEC_FULL.md §6's "binds to loopback
// only by default").
func NewServer(addr string, health *HealthState, metrics *Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{echo: e, health: health, metrics: metrics, logger: logger, addr: addr}
	e.GET("/healthz", s.handleHealthz)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))
	return s
}

// OnCycle is the internal/cycle.Loop.OnCycle-shaped hook that keeps
// this server's state current: call it from the watch command's loop
// wiring.
func (s *Server) OnCycle(summary cycle.Summary, err error) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	errCount := 0
	for _, n := range summary.Errors {
		errCount += n
	}
	s.health.record(!summary.Skipped, time.Now(), errCount, errMsg)
	if !summary.Skipped {
		s.metrics.Observe(summary)
	}
}

type healthzResponse struct {
	Status          string    `json:"status"`
	LockHeld        bool      `json:"lock_held"`
	LastCycleAt     time.Time `json:"last_cycle_at"`
	LastCycleErrors int       `json:"last_cycle_errors"`
	LastError       string    `json:"last_error,omitempty"`
}

func (s *Server) handleHealthz(c echo.Context) error {
	snap := s.health.Snapshot()
	status := "ok"
	code := http.StatusOK
	if snap.LastCycleErrors > 0 {
		status = "degraded"
	}
	if snap.LastError != "" {
		status = "error"
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, healthzResponse{
		Status:          status,
		LockHeld:        snap.LockHeld,
		LastCycleAt:     snap.LastCycleAt,
		LastCycleErrors: snap.LastCycleErrors,
		LastError:       snap.LastError,
	})
}

// Start runs the server until it errors or is shut down. Call it from
// a goroutine; use Shutdown for a graceful stop.
func (s *Server) Start() error {
	if err := s.echo.Start(s.addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("admin server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Package health serves liveness and readiness probes for a flight session.
// Readiness means the assets have loaded and the loop is still producing
// frames.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-flightgl/pkg/engine"
)

// Probe states reported by /ready.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// readyTimeout bounds one /ready request.
const readyTimeout = 5 * time.Second

// HealthCheck is one readiness condition.
type HealthCheck interface {
	Name() string
	Check(ctx context.Context) error
}

// Report is the /ready body. Failing lists the failed checks in
// registration order.
type Report struct {
	Status  string                     `json:"status"`
	Checks  map[string]ComponentHealth `json:"checks"`
	Failing []string                   `json:"failing,omitempty"`
}

// ComponentHealth is one check's result.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker runs the readiness checks of a flight session.
type HealthChecker struct {
	mu     sync.RWMutex
	checks []HealthCheck
}

// NewHealthChecker creates a checker with the given checks.
func NewHealthChecker(checks ...HealthCheck) *HealthChecker {
	hc := &HealthChecker{}
	for _, c := range checks {
		hc.AddCheck(c)
	}
	return hc
}

// AddCheck registers check, replacing any check with the same name in place.
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	for i, c := range hc.checks {
		if c.Name() == check.Name() {
			hc.checks[i] = check
			return
		}
	}
	hc.checks = append(hc.checks, check)
}

// CheckHealth runs every check in registration order. The session is
// healthy only when all of them pass.
func (hc *HealthChecker) CheckHealth(ctx context.Context) Report {
	hc.mu.RLock()
	checks := append([]HealthCheck(nil), hc.checks...)
	hc.mu.RUnlock()

	report := Report{
		Status: StatusHealthy,
		Checks: make(map[string]ComponentHealth, len(checks)),
	}
	for _, check := range checks {
		if err := check.Check(ctx); err != nil {
			report.Status = StatusUnhealthy
			report.Failing = append(report.Failing, check.Name())
			report.Checks[check.Name()] = ComponentHealth{Status: StatusUnhealthy, Message: err.Error()}
			continue
		}
		report.Checks[check.Name()] = ComponentHealth{Status: StatusHealthy}
	}
	return report
}

// LivenessHandler answers 200 while the process can serve HTTP at all.
func (hc *HealthChecker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ReadinessHandler answers 200 once assets are loaded and the loop is
// producing frames, 503 otherwise.
func (hc *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	report := hc.CheckHealth(ctx)
	code := http.StatusOK
	if report.Status != StatusHealthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, report)
}

// Handler returns a mux serving /health and /ready.
func (hc *HealthChecker) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", hc.LivenessHandler)
	mux.HandleFunc("/ready", hc.ReadinessHandler)
	return mux
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// AssetsHealthCheck fails until the asset barrier has been passed.
type AssetsHealthCheck struct {
	loaded func() bool
}

// NewAssetsHealthCheck creates a health check for asset loading.
func NewAssetsHealthCheck(loaded func() bool) *AssetsHealthCheck {
	return &AssetsHealthCheck{loaded: loaded}
}

// Name returns the name of this health check.
func (a *AssetsHealthCheck) Name() string {
	return "assets"
}

// Check verifies that every asset has loaded.
func (a *AssetsHealthCheck) Check(ctx context.Context) error {
	if !a.loaded() {
		return fmt.Errorf("assets are not loaded")
	}
	return nil
}

// LoopHealthCheck fails when the simulation loop is idle or has not
// completed a frame recently.
type LoopHealthCheck struct {
	stats func() engine.LoopStats
	stale time.Duration
	now   func() time.Time
}

// NewLoopHealthCheck creates a health check that tolerates up to stale
// without a frame.
func NewLoopHealthCheck(stats func() engine.LoopStats, stale time.Duration) *LoopHealthCheck {
	return &LoopHealthCheck{
		stats: stats,
		stale: stale,
		now:   time.Now,
	}
}

// Name returns the name of this health check.
func (l *LoopHealthCheck) Name() string {
	return "loop"
}

// Check verifies that the loop is running and recently produced a frame.
func (l *LoopHealthCheck) Check(ctx context.Context) error {
	stats := l.stats()
	if stats.Status != engine.LoopRunning {
		return fmt.Errorf("simulation loop is %s", stats.Status)
	}
	if since := l.now().Sub(stats.LastFrameAt); since > l.stale {
		return fmt.Errorf("no frame for %s (limit %s)", since.Round(time.Millisecond), l.stale)
	}
	return nil
}

// BreakerHealthCheck fails while the asset circuit breaker is open.
type BreakerHealthCheck struct {
	state func() gobreaker.State
}

// NewBreakerHealthCheck creates a health check for a circuit breaker.
func NewBreakerHealthCheck(state func() gobreaker.State) *BreakerHealthCheck {
	return &BreakerHealthCheck{state: state}
}

// Name returns the name of this health check.
func (b *BreakerHealthCheck) Name() string {
	return "asset_breaker"
}

// Check verifies that the breaker is not open.
func (b *BreakerHealthCheck) Check(ctx context.Context) error {
	if state := b.state(); state == gobreaker.StateOpen {
		return fmt.Errorf("circuit breaker is %s", state)
	}
	return nil
}

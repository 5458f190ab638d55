// pkg/engine/loop.go
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/opd-ai/go-flightgl/pkg/event"
	"github.com/opd-ai/go-flightgl/pkg/logging"
)

// Loop defaults.
const (
	DefaultTimestepMs = 1000.0 / 60.0
	DefaultMaxFPS     = 60.0
	DefaultMaxSteps   = 240
	initialFPS        = 60.0
)

// LoopStatus is the loop's lifecycle state.
type LoopStatus int

const (
	LoopIdle LoopStatus = iota
	LoopRunning
)

func (s LoopStatus) String() string {
	switch s {
	case LoopIdle:
		return "idle"
	case LoopRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Clock reports the current time in milliseconds.
type Clock interface {
	Now() float64
}

// Stepper advances the simulation by one fixed step of dt seconds.
type Stepper interface {
	Update(dt float64)
}

// Drawer renders once per accepted frame. interpolation is the unspent
// fraction of a timestep.
type Drawer interface {
	Draw(interpolation float64)
}

// Scheduler arranges for fn to run on the next host frame.
type Scheduler interface {
	Schedule(fn func())
}

// LoopConfig holds the loop timing parameters.
type LoopConfig struct {
	TimestepMs float64
	MaxFPS     float64
	MaxSteps   int
}

// DefaultLoopConfig returns 60 Hz steps, a 60 FPS ceiling and a 240 step cap.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		TimestepMs: DefaultTimestepMs,
		MaxFPS:     DefaultMaxFPS,
		MaxSteps:   DefaultMaxSteps,
	}
}

// LoopStats is a snapshot of the loop counters, safe to read from any
// goroutine.
type LoopStats struct {
	Status      LoopStatus
	FPS         float64
	Frames      uint64
	LastSteps   int
	TotalSteps  uint64
	CapHits     uint64
	LastFrameAt time.Time
}

// Loop is a fixed-timestep driver. Each Frame call accumulates elapsed
// time, runs whole steps up to MaxSteps, draws once and reschedules itself.
// Frame must only be called from the scheduler's goroutine.
type Loop struct {
	cfg       LoopConfig
	clock     Clock
	stepper   Stepper
	drawer    Drawer
	scheduler Scheduler

	status           LoopStatus
	lastFrameTime    float64
	lastFPSUpdate    float64
	delta            float64
	fps              float64
	framesThisSecond int
	lastSteps        int
	totalSteps       uint64
	capHits          uint64
	frames           uint64

	bus    *event.Bus
	logger *logging.Logger
	ctx    context.Context

	statsMu sync.RWMutex
	stats   LoopStats
}

// NewLoop creates an idle loop. bus and logger may be nil.
func NewLoop(cfg LoopConfig, clock Clock, stepper Stepper, drawer Drawer, scheduler Scheduler, bus *event.Bus, logger *logging.Logger) *Loop {
	if logger == nil {
		logger = logging.Discard()
	}
	if cfg.TimestepMs <= 0 {
		cfg.TimestepMs = DefaultTimestepMs
	}
	if cfg.MaxFPS <= 0 {
		cfg.MaxFPS = DefaultMaxFPS
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}

	l := &Loop{
		cfg:       cfg,
		clock:     clock,
		stepper:   stepper,
		drawer:    drawer,
		scheduler: scheduler,
		fps:       initialFPS,
		bus:       bus,
		logger:    logger,
		ctx:       context.Background(),
	}
	l.stats = LoopStats{Status: LoopIdle, FPS: initialFPS}
	return l
}

// SetContext sets the context whose session ID is attached to loop logs.
func (l *Loop) SetContext(ctx context.Context) {
	l.ctx = ctx
}

// Start moves the loop from Idle to Running and schedules the first frame.
// Calling it again has no effect.
func (l *Loop) Start() {
	if l.status == LoopRunning {
		return
	}
	l.status = LoopRunning
	l.publishStats()

	l.logger.Info(l.ctx, "simulation loop started",
		"timestep_ms", l.cfg.TimestepMs,
		"max_fps", l.cfg.MaxFPS,
		"max_steps", l.cfg.MaxSteps,
	)
	l.bus.Publish(event.NewLoopEvent(event.LoopStarted, l, 0, 0, 0))

	l.scheduler.Schedule(l.Frame)
}

// Frame is the per host frame callback. Frames before Start are ignored.
func (l *Loop) Frame() {
	if l.status != LoopRunning {
		return
	}

	now := l.clock.Now()

	// Frame-rate ceiling.
	if now < l.lastFrameTime+1000/l.cfg.MaxFPS {
		l.scheduler.Schedule(l.Frame)
		return
	}

	l.delta += now - l.lastFrameTime
	l.lastFrameTime = now

	if now >= l.lastFPSUpdate+1000 {
		l.fps = 0.25*float64(l.framesThisSecond) + 0.75*l.fps
		l.lastFPSUpdate = now
		l.framesThisSecond = 0
	}
	l.framesThisSecond++

	steps := 0
	dt := l.cfg.TimestepMs / 1000
	for l.delta >= l.cfg.TimestepMs {
		l.stepper.Update(dt)
		l.delta -= l.cfg.TimestepMs
		steps++
		if steps >= l.cfg.MaxSteps {
			l.dropBacklog(steps)
			break
		}
	}
	l.lastSteps = steps
	l.totalSteps += uint64(steps)

	l.drawer.Draw(l.delta / l.cfg.TimestepMs)
	l.frames++
	l.publishStats()

	l.scheduler.Schedule(l.Frame)
}

// dropBacklog drops the unsimulated time after the step cap is reached.
func (l *Loop) dropBacklog(steps int) {
	dropped := l.delta
	l.delta = 0
	l.capHits++

	l.logger.Warn(l.ctx, "step cap reached, dropping accumulated time",
		"steps", steps,
		"dropped_ms", dropped,
	)
	l.bus.Publish(event.NewLoopEvent(event.StepCapReached, l, steps, dropped, l.totalSteps+uint64(steps)))
}

func (l *Loop) publishStats() {
	l.statsMu.Lock()
	l.stats = LoopStats{
		Status:      l.status,
		FPS:         l.fps,
		Frames:      l.frames,
		LastSteps:   l.lastSteps,
		TotalSteps:  l.totalSteps,
		CapHits:     l.capHits,
		LastFrameAt: time.Now(),
	}
	l.statsMu.Unlock()
}

// Stats returns the counters as of the last completed frame.
func (l *Loop) Stats() LoopStats {
	l.statsMu.RLock()
	defer l.statsMu.RUnlock()
	return l.stats
}

// Running reports whether Start has been called.
func (l *Loop) Running() bool { return l.Stats().Status == LoopRunning }

// FPS returns the smoothed frame rate.
func (l *Loop) FPS() float64 { return l.fps }

// Delta returns the unspent simulation time in milliseconds.
func (l *Loop) Delta() float64 { return l.delta }

// LastSteps returns the number of steps run by the last accepted frame.
func (l *Loop) LastSteps() int { return l.lastSteps }

// TotalSteps returns the number of steps run since Start.
func (l *Loop) TotalSteps() uint64 { return l.totalSteps }

// CapHits returns how many frames hit the step cap.
func (l *Loop) CapHits() uint64 { return l.capHits }

// Frames returns the number of accepted frames.
func (l *Loop) Frames() uint64 { return l.frames }

// Config returns the loop timing parameters.
func (l *Loop) Config() LoopConfig { return l.cfg }

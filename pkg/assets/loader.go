// pkg/assets/loader.go
package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gopxl/beep"

	"github.com/opd-ai/go-flightgl/pkg/audio"
	"github.com/opd-ai/go-flightgl/pkg/config"
	"github.com/opd-ai/go-flightgl/pkg/event"
	"github.com/opd-ai/go-flightgl/pkg/logging"
	"github.com/opd-ai/go-flightgl/pkg/scene"
)

// ErrNotReady is returned by Bundle before loading has finished.
var ErrNotReady = errors.New("assets not ready")

// Bundle is everything a flight needs from disk or the network.
type Bundle struct {
	HitSound  *beep.Buffer
	ShipModel *scene.Mesh
}

// Loader fetches the configured assets once and then acts as a barrier:
// Ready is closed when the load has finished, successfully or not.
type Loader struct {
	cfg     config.AssetsConfig
	fetcher *Fetcher
	rate    beep.SampleRate
	timeout time.Duration

	ready  chan struct{}
	once   sync.Once
	mu     sync.RWMutex
	bundle *Bundle
	err    error

	bus    *event.Bus
	logger *logging.Logger
}

// NewLoader creates a loader for cfg using env's breaker and retry
// settings. bus and logger may be nil.
func NewLoader(cfg config.AssetsConfig, env *config.EnvironmentConfig, bus *event.Bus, logger *logging.Logger) *Loader {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Loader{
		cfg:     cfg,
		fetcher: NewFetcher(env, logger),
		rate:    audio.SampleRate,
		timeout: env.AssetTimeout,
		ready:   make(chan struct{}),
		bus:     bus,
		logger:  logger,
	}
}

// Fetcher exposes the loader's fetcher so its breaker state can be reported.
func (l *Loader) Fetcher() *Fetcher { return l.fetcher }

// Load fetches and decodes the hit sound and ship model concurrently. Only
// the first call does any work; later calls return its result.
func (l *Loader) Load(ctx context.Context) (*Bundle, error) {
	l.once.Do(func() {
		bundle, err := l.load(ctx)

		l.mu.Lock()
		l.bundle, l.err = bundle, err
		l.mu.Unlock()
		close(l.ready)
	})
	return l.result()
}

func (l *Loader) load(ctx context.Context) (*Bundle, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	start := time.Now()
	l.logger.Info(ctx, "loading assets",
		"hit_sound", l.cfg.HitSound,
		"ship_model", l.cfg.ShipModel,
	)

	var (
		wg       sync.WaitGroup
		bundle   Bundle
		soundErr error
		modelErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		bundle.HitSound, soundErr = l.loadSound(ctx)
	}()
	go func() {
		defer wg.Done()
		bundle.ShipModel, modelErr = l.loadModel(ctx)
	}()
	wg.Wait()

	if err := errors.Join(soundErr, modelErr); err != nil {
		l.logger.Error(ctx, "asset loading failed", err, "elapsed", time.Since(start))
		return nil, err
	}

	elapsed := time.Since(start)
	l.logger.Info(ctx, "assets loaded", "elapsed", elapsed)
	l.bus.Publish(event.NewAssetsEvent(l, l.sources(), elapsed))
	return &bundle, nil
}

// loadSound returns a nil buffer when no hit sound is configured.
func (l *Loader) loadSound(ctx context.Context) (*beep.Buffer, error) {
	if l.cfg.HitSound == "" {
		return nil, nil
	}
	data, err := l.fetcher.Fetch(ctx, l.cfg.HitSound)
	if err != nil {
		return nil, err
	}
	return audio.LoadBuffer(io.NopCloser(bytes.NewReader(data)), l.cfg.HitSound, l.rate)
}

// loadModel falls back to a small cube when no ship model is configured.
func (l *Loader) loadModel(ctx context.Context) (*scene.Mesh, error) {
	if l.cfg.ShipModel == "" {
		return scene.NewBoxStar(scene.StarSize), nil
	}
	data, err := l.fetcher.Fetch(ctx, l.cfg.ShipModel)
	if err != nil {
		return nil, err
	}
	mesh, err := scene.DecodeMesh(bytes.NewReader(data), l.cfg.ShipModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load ship model: %w", err)
	}
	return mesh, nil
}

func (l *Loader) sources() []string {
	var out []string
	for _, s := range []string{l.cfg.HitSound, l.cfg.ShipModel} {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Ready is closed once loading has finished.
func (l *Loader) Ready() <-chan struct{} { return l.ready }

// Wait blocks until loading finishes or ctx is done.
func (l *Loader) Wait(ctx context.Context) (*Bundle, error) {
	select {
	case <-l.ready:
		return l.result()
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for assets: %w", ctx.Err())
	}
}

// Bundle returns the loaded assets, ErrNotReady while loading is still in
// progress, or the load error.
func (l *Loader) Bundle() (*Bundle, error) {
	select {
	case <-l.ready:
		return l.result()
	default:
		return nil, ErrNotReady
	}
}

// Loaded reports whether loading finished without error.
func (l *Loader) Loaded() bool {
	b, err := l.Bundle()
	return err == nil && b != nil
}

func (l *Loader) result() (*Bundle, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.bundle, l.err
}

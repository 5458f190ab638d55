// cmd/flightgl/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-flightgl/pkg/assets"
	"github.com/opd-ai/go-flightgl/pkg/audio"
	"github.com/opd-ai/go-flightgl/pkg/collision"
	"github.com/opd-ai/go-flightgl/pkg/config"
	"github.com/opd-ai/go-flightgl/pkg/engine"
	"github.com/opd-ai/go-flightgl/pkg/event"
	"github.com/opd-ai/go-flightgl/pkg/health"
	"github.com/opd-ai/go-flightgl/pkg/input"
	"github.com/opd-ai/go-flightgl/pkg/logging"
	"github.com/opd-ai/go-flightgl/pkg/render"
	engorender "github.com/opd-ai/go-flightgl/pkg/render/engo"
)

// logResponderCooldown keeps a silent session from logging every tick of a
// long graze.
const logResponderCooldown = 500 * time.Millisecond

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	rendererName := flag.String("renderer", "", "Renderer type: 'terminal', 'engo' or 'null' (overrides FLIGHTGL_RENDERER)")
	duration := flag.Duration("duration", 0, "Stop after this long (0 runs until quit)")
	logPath := flag.String("log", "", "Write logs to this file instead of stdout")
	width := flag.Int("width", 1024, "Window width (Engo only)")
	height := flag.Int("height", 768, "Window height (Engo only)")
	flag.Parse()

	logger := logging.NewLogger()
	if *logPath != "" {
		file, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.Error(context.Background(), "Failed to open log file", err, "log_path", *logPath)
			os.Exit(1)
		}
		defer file.Close()
		logger = logging.NewLoggerWithWriter(file, logging.ParseLevel(os.Getenv(logging.LevelEnvVar)))
	}
	ctx := logging.WithSessionID(context.Background(), logging.GenerateSessionID())

	// Create default configuration file if requested
	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	flightConfig, env, err := loadConfiguration(ctx, logger, *configPath)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err,
			"config_path", *configPath,
		)
		os.Exit(1)
	}
	if *rendererName != "" {
		env.Renderer = *rendererName
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if *duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			logger.Info(ctx, "Shutdown signal received")
			cancel()
		case <-ctx.Done():
		}
	}()

	bus := event.NewEventBus()
	loader := assets.NewLoader(flightConfig.Assets, env, bus, logger)

	// The loop is created after the assets arrive; health reports it as
	// stale until then.
	var loop atomic.Pointer[engine.Loop]
	loopStats := func() engine.LoopStats {
		if l := loop.Load(); l != nil {
			return l.Stats()
		}
		return engine.LoopStats{}
	}

	healthServer := startHealthServer(ctx, logger, env, loader, loopStats)

	go loader.Load(ctx)
	bundle, err := loader.Wait(ctx)
	if err != nil {
		logger.Error(ctx, "Failed to load assets", err)
		shutdown(ctx, logger, healthServer)
		os.Exit(1)
	}

	responder, closeAudio := newResponder(ctx, logger, env, flightConfig, bundle)
	defer closeAudio()

	keyboard := input.NewKeyboard()
	deps := engine.FlightDeps{
		Signal:    input.Select(nil, keyboard),
		Responder: responder,
		ShipModel: bundle.ShipModel,
		Bus:       bus,
		Logger:    logger,
		Ctx:       ctx,
	}

	logger.Info(ctx, "Starting flight",
		"renderer", env.Renderer,
		"asteroids", flightConfig.Environment.Asteroids,
		"planets", flightConfig.Environment.Planets,
	)

	switch env.Renderer {
	case config.RendererEngo:
		runEngo(ctx, logger, flightConfig, deps, keyboard, bus, *width, *height, loop.Store)
	case config.RendererNull:
		runHeadless(ctx, flightConfig, deps, nil, bus, render.NewNullRenderer(logger), loop.Store)
	default:
		if err := runTerminal(ctx, cancel, logger, flightConfig, deps, keyboard, bus, loop.Store); err != nil {
			logger.Error(ctx, "Terminal front end failed", err)
			shutdown(ctx, logger, healthServer)
			os.Exit(1)
		}
	}

	logger.Info(ctx, "Flight ended")
	shutdown(ctx, logger, healthServer)
}

// loadConfiguration reads the flight file, falling back to defaults when it
// does not exist, and applies the environment on top.
func loadConfiguration(ctx context.Context, logger *logging.Logger, path string) (*config.FlightConfig, *config.EnvironmentConfig, error) {
	var flightConfig *config.FlightConfig

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
		flightConfig = config.DefaultConfig()
	} else {
		flightConfig, err = config.LoadConfig(path)
		if err != nil {
			return nil, nil, err
		}
	}

	env, err := config.LoadConfigFromEnv()
	if err != nil {
		return nil, nil, logging.WrapError(err, "failed to read environment configuration")
	}
	if err := config.ApplyEnvironmentOverrides(flightConfig); err != nil {
		return nil, nil, logging.WrapError(err, "failed to apply environment configuration")
	}
	return flightConfig, env, nil
}

// startHealthServer serves /health and /ready on env.HealthAddr. It returns
// nil when no address is configured.
func startHealthServer(ctx context.Context, logger *logging.Logger, env *config.EnvironmentConfig, loader *assets.Loader, stats func() engine.LoopStats) *http.Server {
	if env.HealthAddr == "" {
		return nil
	}

	healthChecker := health.NewHealthChecker()
	healthChecker.AddCheck(health.NewAssetsHealthCheck(loader.Loaded))
	healthChecker.AddCheck(health.NewLoopHealthCheck(stats,
		time.Duration(env.FrameStaleSeconds*float64(time.Second))))
	healthChecker.AddCheck(health.NewBreakerHealthCheck(loader.Fetcher().State))

	healthServer := &http.Server{
		Addr:         env.HealthAddr,
		Handler:      healthChecker.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info(ctx, "Starting health check server",
			"address", env.HealthAddr,
		)
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "Health check server failed", err)
		}
	}()
	return healthServer
}

func shutdown(ctx context.Context, logger *logging.Logger, healthServer *http.Server) {
	if healthServer == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Health check server shutdown failed", err)
	}
}

// newResponder plays the hit sound on the speaker when audio is enabled and
// a sound was loaded, and otherwise logs hits.
func newResponder(ctx context.Context, logger *logging.Logger, env *config.EnvironmentConfig, cfg *config.FlightConfig, bundle *assets.Bundle) (collision.HitResponder, func()) {
	if env.AudioEnabled && bundle.HitSound != nil {
		player := audio.NewHitPlayer(bundle.HitSound, cfg.Collision.HitVolume, logger)
		player.SetContext(ctx)

		output := audio.NewSpeakerOutput(audio.SampleRate)
		err := output.Start(player)
		if err == nil {
			return player, func() {
				player.Stop()
				output.Close()
			}
		}
		logger.Warn(ctx, "Audio unavailable, logging hits instead", "error", err.Error())
	}

	responder := audio.NewLogResponder(logResponderCooldown, logger)
	responder.SetContext(ctx)
	return responder, func() {}
}

// runHeadless drives the flight from a ticker until ctx ends. keys, if set,
// has its synthesised releases expired on every tick.
func runHeadless(ctx context.Context, cfg *config.FlightConfig, deps engine.FlightDeps, keys *input.TcellKeys, bus *event.Bus, renderer render.Renderer, started func(*engine.Loop)) {
	deps.Renderer = renderer
	flight := engine.NewFlight(cfg, deps)

	scheduler := engine.NewTickerScheduler(0)
	loop := flight.NewLoop(engine.NewWallClock(), scheduler, bus)
	started(loop)
	loop.Start()

	var onTick func()
	if keys != nil {
		onTick = func() { keys.Expire(time.Now()) }
	}
	_ = scheduler.Run(ctx, onTick)
}

// runTerminal owns the terminal for the life of the flight. Quitting from
// the keyboard cancels ctx.
func runTerminal(ctx context.Context, cancel context.CancelFunc, logger *logging.Logger, cfg *config.FlightConfig, deps engine.FlightDeps, keyboard *input.Keyboard, bus *event.Bus, started func(*engine.Loop)) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return logging.WrapError(err, "failed to create screen")
	}
	if err := screen.Init(); err != nil {
		return logging.WrapError(err, "failed to initialise screen")
	}
	defer screen.Fini()

	keys := input.NewTcellKeys(keyboard, 0)
	renderer := render.NewTerminalRenderer(screen, keys, render.DefaultRadarRange, logger)
	renderer.SetContext(ctx)

	go func() {
		renderer.Listen()
		cancel()
	}()

	runHeadless(ctx, cfg, deps, keys, bus, renderer, started)
	return nil
}

// runEngo hands the main goroutine to engo. The loop is pumped from the
// scene's update so every step runs on the GL thread.
func runEngo(ctx context.Context, logger *logging.Logger, cfg *config.FlightConfig, deps engine.FlightDeps, keyboard *input.Keyboard, bus *event.Bus, width, height int, started func(*engine.Loop)) {
	renderer := engorender.NewEngoRenderer(engorender.DefaultRadarRange, logger)
	renderer.SetContext(ctx)
	deps.Renderer = renderer

	flight := engine.NewFlight(cfg, deps)
	scheduler := engine.NewManualScheduler()
	loop := flight.NewLoop(engine.NewWallClock(), scheduler, bus)
	started(loop)
	loop.Start()

	scene := engorender.NewFlightScene(engorender.SceneOptions{
		Keyboard: keyboard,
		Renderer: renderer,
		Pump:     scheduler.Pump,
		OnResize: flight.Resize,
		Logger:   logger,
		Ctx:      ctx,
	})

	go func() {
		<-ctx.Done()
		engorender.Quit()
	}()

	engorender.Run("FlightGL", width, height, scene)
}

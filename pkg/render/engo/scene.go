// pkg/render/engo/scene.go
package engo

import (
	"context"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-flightgl/pkg/input"
	"github.com/opd-ai/go-flightgl/pkg/logging"
)

// SceneOptions wires a FlightScene to the simulation.
type SceneOptions struct {
	Keyboard *input.Keyboard
	Renderer *EngoRenderer

	// Pump runs the queued loop frames; it is called once per engo frame.
	Pump func() int

	// OnResize, if set, receives the game size when the scene starts.
	OnResize func(width, height int)

	// OnExit, if set, runs when the scene is left.
	OnExit func()

	Logger *logging.Logger
	Ctx    context.Context
}

// FlightScene is the engo scene for a flight session.
type FlightScene struct {
	opts SceneOptions

	world  *ecs.World
	system *FlightSystem
	input  *InputSystem
}

// NewFlightScene creates a scene. A missing keyboard or renderer is
// replaced with a fresh one.
func NewFlightScene(opts SceneOptions) *FlightScene {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Ctx == nil {
		opts.Ctx = context.Background()
	}
	if opts.Keyboard == nil {
		opts.Keyboard = input.NewKeyboard()
	}
	if opts.Renderer == nil {
		opts.Renderer = NewEngoRenderer(DefaultRadarRange, opts.Logger)
	}
	return &FlightScene{opts: opts}
}

// Type returns the scene type (required by Engo)
func (scene *FlightScene) Type() string {
	return "FlightScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *FlightScene) Preload() {}

// Setup is called when the scene starts (required by Engo)
func (scene *FlightScene) Setup(u engo.Updater) {
	world, ok := u.(*ecs.World)
	if !ok {
		scene.opts.Logger.Error(scene.opts.Ctx, "engo updater is not an ecs world")
		return
	}
	scene.world = world

	common.SetBackground(backgroundColor)

	renderSystem := &common.RenderSystem{}
	world.AddSystem(renderSystem)

	width, height := engo.GameWidth(), engo.GameHeight()
	scene.opts.Renderer.Attach(renderSystem, LoadSprites(), width, height)
	if scene.opts.OnResize != nil {
		scene.opts.OnResize(int(width), int(height))
	}

	SetupInputBindings()
	scene.input = NewInputSystem(scene.opts.Keyboard, nil, engo.Exit)
	world.AddSystem(scene.input)

	scene.system = NewFlightSystem(scene.opts.Pump, scene.opts.Renderer.Camera(), engoScroll)
	world.AddSystem(scene.system)

	scene.opts.Logger.Info(scene.opts.Ctx, "flight scene started",
		"width", width,
		"height", height,
	)
}

// Exit is called when the scene is exiting (required by Engo)
func (scene *FlightScene) Exit() {
	scene.opts.Renderer.Detach()
	scene.opts.Logger.Info(scene.opts.Ctx, "flight scene exited")
	if scene.opts.OnExit != nil {
		scene.opts.OnExit()
	}
}

// Run opens a window and blocks until it closes.
func Run(title string, width, height int, scene *FlightScene) {
	engo.Run(engo.RunOptions{
		Title:  title,
		Width:  width,
		Height: height,
		VSync:  true,
	}, scene)
}

// Quit asks a running window to close.
func Quit() { engo.Exit() }

func engoScroll() float32 { return engo.Input.Mouse.ScrollY }

// FlightSystem is the host frame callback: every engo update pumps the
// loop's scheduler so Loop.Frame runs once per displayed frame.
type FlightSystem struct {
	pump   func() int
	camera *RadarCamera
	scroll func() float32

	updates uint64
	frames  uint64
}

// NewFlightSystem creates the system. scroll may be nil to disable wheel
// zoom of the radar.
func NewFlightSystem(pump func() int, camera *RadarCamera, scroll func() float32) *FlightSystem {
	return &FlightSystem{pump: pump, camera: camera, scroll: scroll}
}

// Remove satisfies the ecs.System interface
func (fs *FlightSystem) Remove(basic ecs.BasicEntity) {}

// Update zooms the radar from the wheel and runs the loop frame.
func (fs *FlightSystem) Update(dt float32) {
	fs.updates++
	if fs.scroll != nil && fs.camera != nil {
		fs.camera.HandleScroll(fs.scroll())
	}
	if fs.pump != nil {
		fs.frames += uint64(fs.pump())
	}
}

// Updates returns how many engo frames the system has seen.
func (fs *FlightSystem) Updates() uint64 { return fs.updates }

// Frames returns how many loop callbacks have been pumped.
func (fs *FlightSystem) Frames() uint64 { return fs.frames }

// pkg/engine/flight.go
package engine

import (
	"context"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-flightgl/pkg/camera"
	"github.com/opd-ai/go-flightgl/pkg/collision"
	"github.com/opd-ai/go-flightgl/pkg/config"
	"github.com/opd-ai/go-flightgl/pkg/environment"
	"github.com/opd-ai/go-flightgl/pkg/event"
	"github.com/opd-ai/go-flightgl/pkg/input"
	"github.com/opd-ai/go-flightgl/pkg/logging"
	"github.com/opd-ai/go-flightgl/pkg/physics"
	"github.com/opd-ai/go-flightgl/pkg/render"
	"github.com/opd-ai/go-flightgl/pkg/scene"
)

// Ship model placement relative to the camera.
const (
	shipScale     = 10
	cameraStartZ  = -250
	defaultAspect = 16.0 / 9.0
)

var (
	axisX = mgl64.Vec3{1, 0, 0}
	axisY = mgl64.Vec3{0, 1, 0}
	axisZ = mgl64.Vec3{0, 0, 1}
)

// FlightDeps are the collaborators a Flight is composed from.
type FlightDeps struct {
	Signal    input.Signal
	Responder collision.HitResponder
	Renderer  render.Renderer
	ShipModel *scene.Mesh // nil selects the box star placeholder

	Bus    *event.Bus
	Logger *logging.Logger
	Ctx    context.Context
}

// Flight is the per-tick composition of input, environment, physics and
// collision. It is the loop's Stepper and Drawer and owns every piece of
// simulation state; nothing is shared through package variables.
type Flight struct {
	cfg config.FlightConfig

	signal    input.Signal
	ship      *physics.Ship
	camera    *camera.Camera
	field     *environment.Field
	detector  *collision.Detector
	responder collision.HitResponder
	renderer  render.Renderer

	model  *scene.Mesh
	hitBox *scene.Mesh

	thrust     float64
	thrustStep float64
	loop       *Loop

	logger *logging.Logger
	ctx    context.Context
}

// NewFlight builds the camera rig, obstacle field, integrator and collision
// detector from cfg.
func NewFlight(cfg *config.FlightConfig, deps FlightDeps) *Flight {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	ctx := deps.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	signal := deps.Signal
	if signal == nil {
		signal = input.NewKeyboard()
	}
	renderer := deps.Renderer
	if renderer == nil {
		renderer = render.NewNullRenderer(logger)
	}
	thrustStep := cfg.Physics.ThrustStep
	if thrustStep <= 0 {
		thrustStep = input.DefaultThrustStep
	}

	cam := camera.New(cfg.Camera.FOV, defaultAspect, cfg.Camera.Near, cfg.Camera.Far)
	cam.Position = mgl64.Vec3{0, 0, cameraStartZ}

	model := deps.ShipModel
	if model == nil {
		model = scene.NewBoxStar(scene.StarSize)
	}
	model.Scale = mgl64.Vec3{shipScale, shipScale, shipScale}
	model.Position = mgl64.Vec3{0, 0, cfg.Camera.Distance}
	model.SetParent(cam)

	hitBox := scene.NewHitBox()
	if size := cfg.Assets.HitBoxSize; size > 0 {
		hitBox = scene.NewBox("hitbox", size, size, size)
	}
	hitBox.Position = mgl64.Vec3{0, 0, cfg.Camera.Distance}
	hitBox.SetParent(cam)

	f := &Flight{
		cfg:    *cfg,
		signal: signal,
		ship: physics.New(physics.Params{
			Drag:             cfg.Physics.Drag,
			MinVelocity:      cfg.Physics.MinVelocity,
			MaxVelocity:      cfg.Physics.MaxVelocity,
			ModelMaxRotation: cfg.Physics.ModelMaxRotation,
		}),
		camera: cam,
		field: environment.New(cfg.Environment, cam,
			environment.WithEventBus(deps.Bus),
			environment.WithLogger(ctx, logger),
		),
		detector: collision.NewDetector(deps.Responder,
			collision.WithThreshold(cfg.Collision.Threshold),
			collision.WithDoubleSided(cfg.Collision.DoubleSided),
			collision.WithEventBus(deps.Bus),
			collision.WithLogger(ctx, logger),
		),
		responder:  deps.Responder,
		renderer:   renderer,
		model:      model,
		hitBox:     hitBox,
		thrustStep: thrustStep,
		logger:     logger,
		ctx:        ctx,
	}
	return f
}

// NewLoop creates a loop that steps and draws this flight. The loop's
// counters are reported in every rendered frame.
func (f *Flight) NewLoop(clock Clock, scheduler Scheduler, bus *event.Bus) *Loop {
	l := NewLoop(LoopConfig{
		TimestepMs: f.cfg.Loop.TimestepMs,
		MaxFPS:     f.cfg.Loop.MaxFPS,
		MaxSteps:   f.cfg.Loop.MaxSteps,
	}, clock, f, f, scheduler, bus, f.logger)
	l.SetContext(f.ctx)
	f.loop = l
	return l
}

// Update advances one fixed step: input, environment, thrust, physics,
// then collision against the refreshed obstacle list.
func (f *Flight) Update(dt float64) {
	f.signal.Update()
	f.field.Update(dt)

	f.thrust = input.Thrust(f.signal, f.thrustStep)
	f.ship.SetControls(f.thrust, f.signal.Roll(), f.signal.Pitch(), f.signal.Yaw())
	f.ship.Update(dt)

	f.detector.SetObstacles(f.field.Obstacles())
	f.detector.SetTrackedMesh(f.hitBox)
	f.detector.Update(dt)
}

// Draw moves the camera rig from the integrator state, tilts the model and
// hands a frame to the renderer.
func (f *Flight) Draw(interpolation float64) {
	f.placeModel()
	f.moveCamera()
	f.tiltModel()
	f.renderer.Render(f.frame(interpolation))
}

// placeModel pulls the ship and hit box back as the zoom factor grows.
func (f *Flight) placeModel() {
	z := f.cfg.Camera.Distance + f.signal.ZoomFactor()*f.cfg.Camera.DistanceMultiplier
	f.model.Position[2] = z
	f.hitBox.Position[2] = z
}

func (f *Flight) moveCamera() {
	switch {
	case f.signal.IsVariableThruster():
		f.camera.TranslateZ(f.ship.Velocity())
	case f.signal.IsForwardPressed():
		f.camera.TranslateZ(f.thrustStep)
	case f.signal.IsBackwardPressed():
		f.camera.TranslateZ(-f.thrustStep)
	}

	c := f.cfg.Camera
	f.camera.RotateY(-f.ship.YawRad() * c.YawIntensity)
	f.camera.RotateX(f.ship.PitchRad() * c.PitchIntensity)
	f.camera.RotateZ(-f.ship.RollRad() * c.RollIntensity)
}

// tiltModel resets the model rotation and turns it yaw, pitch, roll about
// its local axes.
func (f *Flight) tiltModel() {
	tilt := f.modelTilt()
	f.model.Rotation = mgl64.QuatRotate(tilt.Y(), axisY).
		Mul(mgl64.QuatRotate(tilt.X(), axisX)).
		Mul(mgl64.QuatRotate(tilt.Z(), axisZ))
}

// modelTilt returns pitch, yaw and roll in radians.
func (f *Flight) modelTilt() mgl64.Vec3 {
	c := f.cfg.Camera
	return mgl64.Vec3{
		f.ship.PitchOnAxis() * c.OnAxisPitch,
		f.ship.YawOnAxis() * c.OnAxisYaw,
		f.ship.RollOnAxis() * c.OnAxisRoll,
	}
}

func (f *Flight) frame(interpolation float64) render.Frame {
	fr := render.Frame{
		Interpolation:  interpolation,
		Ship:           f.ship.Snapshot(),
		Thrust:         f.thrust,
		ZoomFactor:     f.signal.ZoomFactor(),
		ModelTilt:      f.modelTilt(),
		CameraPosition: f.camera.Position,
		View:           f.camera.ViewMatrix(),
		Contacts:       f.field.Contacts(),
		Hits:           f.detector.Hits(),
		Recycled:       f.field.Recycled(),
	}
	if f.responder != nil {
		fr.HitActive = f.responder.Active()
	}
	if f.loop != nil {
		fr.FPS = f.loop.FPS()
		fr.Steps = f.loop.LastSteps()
		fr.TotalSteps = f.loop.TotalSteps()
		fr.CapHits = f.loop.CapHits()
	}
	return fr
}

// Resize updates the camera aspect ratio for a new viewport.
func (f *Flight) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	f.camera.SetAspect(float64(width) / float64(height))
	f.logger.Debug(f.ctx, "viewport resized", "width", width, "height", height)
}

// Ship returns the flight integrator.
func (f *Flight) Ship() *physics.Ship { return f.ship }

// Camera returns the camera rig.
func (f *Flight) Camera() *camera.Camera { return f.camera }

// Field returns the obstacle field.
func (f *Flight) Field() *environment.Field { return f.field }

// Detector returns the collision detector.
func (f *Flight) Detector() *collision.Detector { return f.detector }

// Model returns the ship model attached to the camera.
func (f *Flight) Model() *scene.Mesh { return f.model }

// HitBox returns the collision stand-in attached to the camera.
func (f *Flight) HitBox() *scene.Mesh { return f.hitBox }

// Thrust returns the throttle applied by the last step.
func (f *Flight) Thrust() float64 { return f.thrust }

package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DegToRad is the fixed degree-to-radian factor applied by the *Rad and
// on-axis getters.
const DegToRad = 0.0174533

var (
	axisX = mgl64.Vec3{1, 0, 0}
	axisY = mgl64.Vec3{0, 1, 0}
	axisZ = mgl64.Vec3{0, 0, 1}
)

// Params holds the integrator constants.
type Params struct {
	Drag             float64
	MinVelocity      float64
	MaxVelocity      float64
	ModelMaxRotation float64 // fraction of a turn
}

// DefaultParams returns the stock flight constants.
func DefaultParams() Params {
	return Params{
		Drag:             0.8,
		MinVelocity:      -100,
		MaxVelocity:      -1,
		ModelMaxRotation: 15.0 / 360.0,
	}
}

// Controls is one control sample. Values are not range checked.
type Controls struct {
	Thrust float64
	Roll   float64
	Pitch  float64
	Yaw    float64
}

// State is a value copy of the integrator state.
type State struct {
	Velocity float64
	Rotation mgl64.Quat
	OnAxis   mgl64.Vec3
	Controls Controls
}

// Ship integrates orientation and forward speed from per-tick controls.
//
// The rotation is rebuilt from the latest control sample every tick rather
// than integrated, so orientation depends only on the last SetControls call.
// Velocity is negative (forward is -Z) and kept in [MinVelocity, MaxVelocity].
type Ship struct {
	params   Params
	controls Controls
	rotation mgl64.Quat
	onAxis   mgl64.Vec3
	velocity float64
}

// New creates a Ship at rest: identity rotation, velocity at MaxVelocity.
func New(params Params) *Ship {
	return &Ship{
		params:   params,
		rotation: mgl64.QuatIdent(),
		velocity: params.MaxVelocity,
	}
}

// SetControls stores the control sample consumed by the next Update.
func (s *Ship) SetControls(thrust, roll, pitch, yaw float64) {
	s.controls = Controls{Thrust: thrust, Roll: roll, Pitch: pitch, Yaw: yaw}
}

// Controls returns the stored control sample.
func (s *Ship) Controls() Controls {
	return s.controls
}

// Update advances one fixed step. dt is accepted for the loop contract; the
// integrator is per-tick and does not scale by it.
func (s *Ship) Update(dt float64) {
	s.updateRotation()
	s.updateVelocity()
}

func (s *Ship) updateRotation() {
	c := s.controls

	roll := mgl64.QuatRotate(c.Roll, axisZ)
	pitch := mgl64.QuatRotate(c.Pitch, axisX)
	yaw := mgl64.QuatRotate(c.Yaw, axisY)
	s.rotation = roll.Mul(pitch).Mul(yaw).Normalize()

	// Min-only clamp: large negative inputs pass through.
	limit := s.params.ModelMaxRotation
	s.onAxis = mgl64.Vec3{
		math.Min(c.Pitch*DegToRad, limit),
		math.Min(c.Yaw*DegToRad, limit),
		math.Min(c.Roll*DegToRad, limit),
	}
}

func (s *Ship) updateVelocity() {
	if s.controls.Thrust == 0 {
		s.velocity += s.params.Drag
	} else {
		s.velocity += s.controls.Thrust
	}

	s.velocity = math.Min(s.velocity, s.params.MaxVelocity)
	s.velocity = math.Max(s.velocity, s.params.MinVelocity)
}

// Velocity returns the forward speed.
func (s *Ship) Velocity() float64 { return s.velocity }

// Pitch returns the x component of the composed rotation.
func (s *Ship) Pitch() float64 { return s.rotation.X() }

// Yaw returns the y component of the composed rotation.
func (s *Ship) Yaw() float64 { return s.rotation.Y() }

// Roll returns the z component of the composed rotation.
func (s *Ship) Roll() float64 { return s.rotation.Z() }

func (s *Ship) PitchRad() float64 { return s.Pitch() * DegToRad }
func (s *Ship) YawRad() float64   { return s.Yaw() * DegToRad }
func (s *Ship) RollRad() float64  { return s.Roll() * DegToRad }

// PitchOnAxis returns the clamped model pitch tilt.
func (s *Ship) PitchOnAxis() float64 { return s.onAxis.X() }

// YawOnAxis returns the clamped model yaw tilt, negated to match the camera
// rotation convention.
func (s *Ship) YawOnAxis() float64 { return -s.onAxis.Y() }

// RollOnAxis returns the clamped model roll tilt, negated like YawOnAxis.
func (s *Ship) RollOnAxis() float64 { return -s.onAxis.Z() }

// Rotation returns the full composed quaternion. The Pitch/Yaw/Roll getters
// drop W; use this when the whole orientation is needed.
func (s *Ship) Rotation() mgl64.Quat { return s.rotation }

// Snapshot returns a copy of the current state.
func (s *Ship) Snapshot() State {
	return State{
		Velocity: s.velocity,
		Rotation: s.rotation,
		OnAxis:   s.onAxis,
		Controls: s.controls,
	}
}

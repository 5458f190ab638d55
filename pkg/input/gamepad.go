// pkg/input/gamepad.go
package input

import (
	"math"
	"sync"
)

// PadState is one polled snapshot of a gamepad.
type PadState struct {
	ID        string
	Connected bool
	Axes      []float64
	Buttons   []bool
}

// Axis returns axis i, or 0 when the pad does not report it.
func (p PadState) Axis(i int) float64 {
	if i < 0 || i >= len(p.Axes) {
		return 0
	}
	return p.Axes[i]
}

// Button returns button i, or false when the pad does not report it.
func (p PadState) Button(i int) bool {
	if i < 0 || i >= len(p.Buttons) {
		return false
	}
	return p.Buttons[i]
}

// PadSource reports the currently attached pads, indexed by slot.
type PadSource interface {
	Pads() []PadState
}

// PadFunc adapts a function to PadSource.
type PadFunc func() []PadState

func (f PadFunc) Pads() []PadState { return f() }

// Unmapped marks a profile control the device does not have.
const Unmapped = -1

// Profile maps a device's axes and buttons onto Signal. Axis values are
// rounded to Decimals places.
type Profile struct {
	Name     string
	IDPrefix string
	Decimals int

	YawAxis   int
	PitchAxis int
	RollAxis  int

	// ThrottleAxis, when mapped, makes the pad a variable thruster whose
	// value is the rounded axis times ThrottleScale.
	ThrottleAxis  int
	ThrottleScale float64

	ZoomInButton   int
	ZoomOutButton  int
	TopButton      int
	BottomButton   int
	LeftButton     int
	RightButton    int
	ForwardButton  int
	BackwardButton int
}

// PS3Profile maps a PlayStation 3 controller.
var PS3Profile = Profile{
	Name:           "ps3",
	IDPrefix:       "PLAYSTATION",
	Decimals:       1,
	YawAxis:        2,
	PitchAxis:      1,
	RollAxis:       0,
	ThrottleAxis:   Unmapped,
	ZoomInButton:   5,
	ZoomOutButton:  4,
	TopButton:      12,
	BottomButton:   13,
	LeftButton:     14,
	RightButton:    15,
	ForwardButton:  6,
	BackwardButton: 7,
}

// X52Profile maps a Saitek X52 HOTAS. Its throttle lever drives thrust.
var X52Profile = Profile{
	Name:           "x52",
	IDPrefix:       "Saitek X52 Flight Control System",
	Decimals:       2,
	YawAxis:        5,
	PitchAxis:      1,
	RollAxis:       0,
	ThrottleAxis:   2,
	ThrottleScale:  DefaultThrustStep,
	ZoomInButton:   5,
	ZoomOutButton:  4,
	TopButton:      12,
	BottomButton:   13,
	LeftButton:     14,
	RightButton:    15,
	ForwardButton:  Unmapped,
	BackwardButton: Unmapped,
}

// Profiles lists the known devices in selection order.
var Profiles = []Profile{PS3Profile, X52Profile}

// Gamepad reads one pad slot through a profile.
type Gamepad struct {
	profile Profile
	source  PadSource
	index   int

	mu    sync.RWMutex
	state PadState
}

// NewGamepad binds profile to slot index of source.
func NewGamepad(profile Profile, source PadSource, index int) *Gamepad {
	return &Gamepad{profile: profile, source: source, index: index}
}

// Profile returns the bound profile.
func (g *Gamepad) Profile() Profile { return g.profile }

// Update polls the source. A missing or disconnected pad reads as centred.
func (g *Gamepad) Update() {
	var state PadState
	if pads := g.source.Pads(); g.index < len(pads) && pads[g.index].Connected {
		state = pads[g.index]
	}
	g.mu.Lock()
	g.state = state
	g.mu.Unlock()
}

func (g *Gamepad) snapshot() PadState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

func (g *Gamepad) axis(i int) float64 {
	if i == Unmapped {
		return 0
	}
	return round(g.snapshot().Axis(i), g.profile.Decimals)
}

func (g *Gamepad) button(i int) bool {
	if i == Unmapped {
		return false
	}
	return g.snapshot().Button(i)
}

func (g *Gamepad) Yaw() float64   { return g.axis(g.profile.YawAxis) }
func (g *Gamepad) Pitch() float64 { return g.axis(g.profile.PitchAxis) }
func (g *Gamepad) Roll() float64  { return g.axis(g.profile.RollAxis) }

func (g *Gamepad) Thruster() float64 {
	return g.axis(g.profile.ThrottleAxis) * g.profile.ThrottleScale
}

func (g *Gamepad) IsVariableThruster() bool { return g.profile.ThrottleAxis != Unmapped }

func (g *Gamepad) IsForwardPressed() bool  { return g.button(g.profile.ForwardButton) }
func (g *Gamepad) IsBackwardPressed() bool { return g.button(g.profile.BackwardButton) }
func (g *Gamepad) IsZoomIn() bool          { return g.button(g.profile.ZoomInButton) }
func (g *Gamepad) IsZoomOut() bool         { return g.button(g.profile.ZoomOutButton) }

// ZoomFactor is always 0; pads keep the ship at its base distance.
func (g *Gamepad) ZoomFactor() float64 { return 0 }

func (g *Gamepad) IsTopView() bool    { return g.button(g.profile.TopButton) }
func (g *Gamepad) IsBottomView() bool { return g.button(g.profile.BottomButton) }
func (g *Gamepad) IsLeftView() bool   { return g.button(g.profile.LeftButton) }
func (g *Gamepad) IsRightView() bool  { return g.button(g.profile.RightButton) }

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

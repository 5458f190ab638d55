// pkg/input/signal.go
package input

import "strings"

// Signal is the per-tick control surface read by the flight composition.
// Yaw, Pitch and Roll are normalised deflections in [-1, 1].
type Signal interface {
	Update()

	Yaw() float64
	Pitch() float64
	Roll() float64

	// Thruster is only meaningful when IsVariableThruster reports true.
	Thruster() float64
	IsVariableThruster() bool
	IsForwardPressed() bool
	IsBackwardPressed() bool

	IsZoomIn() bool
	IsZoomOut() bool
	ZoomFactor() float64

	IsTopView() bool
	IsBottomView() bool
	IsLeftView() bool
	IsRightView() bool
}

// DefaultThrustStep is the discrete throttle applied while forward or
// backward is held.
const DefaultThrustStep = 10.0

// Thrust resolves the throttle for this tick. Discrete signals give +step
// for forward, -step for backward and 0 otherwise; variable signals report
// their analog thruster.
func Thrust(sig Signal, step float64) float64 {
	if sig.IsVariableThruster() {
		return sig.Thruster()
	}
	switch {
	case sig.IsForwardPressed():
		return step
	case sig.IsBackwardPressed():
		return -step
	default:
		return 0
	}
}

// Select returns a gamepad signal for the first connected pad with a known
// profile, or keyboard when none matches.
func Select(source PadSource, keyboard *Keyboard) Signal {
	if source != nil {
		for i, pad := range source.Pads() {
			if !pad.Connected {
				continue
			}
			if profile, ok := ProfileFor(pad.ID); ok {
				return NewGamepad(profile, source, i)
			}
		}
	}
	return keyboard
}

// ProfileFor finds the profile whose ID prefix matches id.
func ProfileFor(id string) (Profile, bool) {
	for _, p := range Profiles {
		if strings.HasPrefix(id, p.IDPrefix) {
			return p, true
		}
	}
	return Profile{}, false
}

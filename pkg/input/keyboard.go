// pkg/input/keyboard.go
package input

import (
	"math"
	"sync"
)

// Key codes understood by Keyboard.
const (
	KeyW         = "KeyW"
	KeyS         = "KeyS"
	KeyA         = "KeyA"
	KeyD         = "KeyD"
	KeyQ         = "KeyQ"
	KeyE         = "KeyE"
	KeyT         = "KeyT"
	KeyB         = "KeyB"
	KeyL         = "KeyL"
	KeyR         = "KeyR"
	KeyArrowUp   = "ArrowUp"
	KeyArrowDown = "ArrowDown"
)

// KeyboardRate is the deflection added per key event.
const KeyboardRate = 0.03

// Keyboard accumulates axis deflection from key events. Each press of an
// axis key moves that axis by KeyboardRate, so held keys with auto-repeat
// keep steering. Deflection stays where it was left on release.
type Keyboard struct {
	mu         sync.RWMutex
	yaw        float64
	pitch      float64
	roll       float64
	zoomFactor float64
	active     map[string]bool
}

// NewKeyboard creates a centred keyboard signal.
func NewKeyboard() *Keyboard {
	return &Keyboard{active: make(map[string]bool)}
}

// SetKey records a key transition. Safe to call from an input goroutine.
func (k *Keyboard) SetKey(code string, pressed bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	switch code {
	case KeyW:
		if pressed {
			k.pitch = math.Min(1, k.pitch+KeyboardRate)
		}
	case KeyS:
		if pressed {
			k.pitch = math.Max(-1, k.pitch-KeyboardRate)
		}
	case KeyA:
		if pressed {
			k.roll = math.Min(1, k.roll+KeyboardRate)
		}
	case KeyD:
		if pressed {
			k.roll = math.Max(-1, k.roll-KeyboardRate)
		}
	case KeyQ:
		if pressed {
			k.yaw = math.Min(1, k.yaw+KeyboardRate)
		}
	case KeyE:
		if pressed {
			k.yaw = math.Max(-1, k.yaw-KeyboardRate)
		}
	default:
		k.active[code] = pressed
	}
}

// Pressed reports the state of a non-axis key.
func (k *Keyboard) Pressed(code string) bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.active[code]
}

// Update steps the zoom factor while a zoom key is held.
func (k *Keyboard) Update() {
	k.mu.Lock()
	defer k.mu.Unlock()

	switch {
	case k.active[KeyArrowDown]:
		k.zoomFactor = math.Min(1, k.zoomFactor+KeyboardRate)
	case k.active[KeyArrowUp]:
		k.zoomFactor = math.Max(0, k.zoomFactor-KeyboardRate)
	}
}

func (k *Keyboard) Yaw() float64 {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.yaw
}

func (k *Keyboard) Pitch() float64 {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.pitch
}

func (k *Keyboard) Roll() float64 {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.roll
}

// Thruster is always 0: the keyboard throttle is discrete.
func (k *Keyboard) Thruster() float64 { return 0 }

func (k *Keyboard) IsVariableThruster() bool { return false }

// IsForwardPressed shares the zoom-in key.
func (k *Keyboard) IsForwardPressed() bool { return k.IsZoomIn() }

// IsBackwardPressed shares the zoom-out key.
func (k *Keyboard) IsBackwardPressed() bool { return k.IsZoomOut() }

func (k *Keyboard) IsZoomIn() bool  { return k.Pressed(KeyArrowDown) }
func (k *Keyboard) IsZoomOut() bool { return k.Pressed(KeyArrowUp) }

// ZoomFactor is in [0, 1].
func (k *Keyboard) ZoomFactor() float64 {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.zoomFactor
}

func (k *Keyboard) IsTopView() bool    { return k.Pressed(KeyT) }
func (k *Keyboard) IsBottomView() bool { return k.Pressed(KeyB) }
func (k *Keyboard) IsLeftView() bool   { return k.Pressed(KeyL) }
func (k *Keyboard) IsRightView() bool  { return k.Pressed(KeyR) }

// pkg/input/tcell.go
package input

import (
	"sync"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// DefaultKeyHold is how long a terminal key counts as held after its last
// event. Terminals report presses and auto-repeat but never releases.
const DefaultKeyHold = 150 * time.Millisecond

// KeyCode maps a tcell key event onto a Keyboard code.
func KeyCode(ev *tcell.EventKey) (string, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return KeyArrowUp, true
	case tcell.KeyDown:
		return KeyArrowDown, true
	case tcell.KeyRune:
		r := unicode.ToUpper(ev.Rune())
		if r >= 'A' && r <= 'Z' {
			return "Key" + string(r), true
		}
	}
	return "", false
}

// TcellKeys feeds tcell key events into a Keyboard and synthesises
// releases for keys that stop repeating.
type TcellKeys struct {
	keyboard *Keyboard
	hold     time.Duration

	mu   sync.Mutex
	seen map[string]time.Time
}

// NewTcellKeys creates an adapter. hold <= 0 selects DefaultKeyHold.
func NewTcellKeys(keyboard *Keyboard, hold time.Duration) *TcellKeys {
	if hold <= 0 {
		hold = DefaultKeyHold
	}
	return &TcellKeys{
		keyboard: keyboard,
		hold:     hold,
		seen:     make(map[string]time.Time),
	}
}

// Handle presses the key for ev. It reports whether the key is mapped.
func (t *TcellKeys) Handle(ev *tcell.EventKey, now time.Time) bool {
	code, ok := KeyCode(ev)
	if !ok {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seen[code] = now
	t.keyboard.SetKey(code, true)
	return true
}

// Expire releases every key not seen within the hold window. Presses and
// releases happen under the same lock, so a key pressed again while Expire
// runs stays down.
func (t *TcellKeys) Expire(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for code, at := range t.seen {
		if now.Sub(at) >= t.hold {
			delete(t.seen, code)
			t.keyboard.SetKey(code, false)
		}
	}
}

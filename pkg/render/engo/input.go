// pkg/render/engo/input.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-flightgl/pkg/input"
)

// Held keys repeat like a desktop keyboard: a pause, then a steady rate.
const (
	keyRepeatDelay    float32 = 0.5
	keyRepeatInterval float32 = 1.0 / 30.0

	quitButton = "quit"
)

// Binding maps an engo key onto a keyboard code. The code doubles as the
// engo button name.
type Binding struct {
	Code string
	Key  engo.Key
}

// Bindings are the flight controls.
var Bindings = []Binding{
	{input.KeyW, engo.KeyW},
	{input.KeyS, engo.KeyS},
	{input.KeyA, engo.KeyA},
	{input.KeyD, engo.KeyD},
	{input.KeyQ, engo.KeyQ},
	{input.KeyE, engo.KeyE},
	{input.KeyT, engo.KeyT},
	{input.KeyB, engo.KeyB},
	{input.KeyL, engo.KeyL},
	{input.KeyR, engo.KeyR},
	{input.KeyArrowUp, engo.KeyArrowUp},
	{input.KeyArrowDown, engo.KeyArrowDown},
}

// SetupInputBindings registers the flight buttons with engo.
func SetupInputBindings() {
	for _, b := range Bindings {
		engo.Input.RegisterButton(b.Code, b.Key)
	}
	engo.Input.RegisterButton(quitButton, engo.KeyEscape)
}

// ButtonState is one button's state for the current frame.
type ButtonState struct {
	Down         bool
	JustPressed  bool
	JustReleased bool
}

// ButtonReader reports button state by name.
type ButtonReader interface {
	Button(name string) ButtonState
}

// engoButtons reads engo's input manager.
type engoButtons struct{}

func (engoButtons) Button(name string) ButtonState {
	b := engo.Input.Button(name)
	return ButtonState{
		Down:         b.Down(),
		JustPressed:  b.JustPressed(),
		JustReleased: b.JustReleased(),
	}
}

type repeat struct {
	held float32
	next float32
}

// InputSystem turns engo button state into keyboard events, synthesising
// auto-repeat for held keys so steering keeps accumulating.
type InputSystem struct {
	keyboard *input.Keyboard
	buttons  ButtonReader
	quit     func()

	held map[string]*repeat
}

// NewInputSystem creates an input system. buttons nil reads engo.Input;
// quit, if set, runs when Escape is pressed.
func NewInputSystem(keyboard *input.Keyboard, buttons ButtonReader, quit func()) *InputSystem {
	if buttons == nil {
		buttons = engoButtons{}
	}
	return &InputSystem{
		keyboard: keyboard,
		buttons:  buttons,
		quit:     quit,
		held:     make(map[string]*repeat),
	}
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update polls every binding once per engo frame.
func (is *InputSystem) Update(dt float32) {
	for _, b := range Bindings {
		is.apply(b.Code, is.buttons.Button(b.Code), dt)
	}

	if is.quit != nil && is.buttons.Button(quitButton).JustPressed {
		is.quit()
	}
}

func (is *InputSystem) apply(code string, state ButtonState, dt float32) {
	switch {
	case state.JustPressed:
		is.keyboard.SetKey(code, true)
		is.held[code] = &repeat{next: keyRepeatDelay}
	case state.JustReleased:
		is.keyboard.SetKey(code, false)
		delete(is.held, code)
	case state.Down:
		r, ok := is.held[code]
		if !ok {
			r = &repeat{next: keyRepeatDelay}
			is.held[code] = r
		}
		r.held += dt
		for r.held >= r.next {
			is.keyboard.SetKey(code, true)
			r.next += keyRepeatInterval
		}
	}
}

// Held returns the number of keys currently held.
func (is *InputSystem) Held() int { return len(is.held) }

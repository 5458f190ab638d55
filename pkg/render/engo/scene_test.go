// pkg/render/engo/scene_test.go
package engo

import (
	"testing"

	"github.com/opd-ai/go-flightgl/pkg/input"
)

func TestNewFlightScene(t *testing.T) {
	keyboard := input.NewKeyboard()
	renderer := NewEngoRenderer(10000, nil)

	scene := NewFlightScene(SceneOptions{Keyboard: keyboard, Renderer: renderer})

	if scene.opts.Keyboard != keyboard {
		t.Error("Expected keyboard to be set correctly")
	}
	if scene.opts.Renderer != renderer {
		t.Error("Expected renderer to be set correctly")
	}
	if scene.opts.Logger == nil || scene.opts.Ctx == nil {
		t.Error("Expected logger and context defaults")
	}
}

func TestNewFlightScene_Defaults(t *testing.T) {
	scene := NewFlightScene(SceneOptions{})

	if scene.opts.Keyboard == nil {
		t.Error("Expected a default keyboard")
	}
	if scene.opts.Renderer == nil {
		t.Fatal("Expected a default renderer")
	}
	if scene.opts.Renderer.Camera().Range() != DefaultRadarRange {
		t.Errorf("Range() = %f, want %f", scene.opts.Renderer.Camera().Range(), DefaultRadarRange)
	}
}

func TestFlightScene_Type(t *testing.T) {
	scene := NewFlightScene(SceneOptions{})

	if got := scene.Type(); got != "FlightScene" {
		t.Errorf("Expected Type() to return %q, got %q", "FlightScene", got)
	}
}

func TestFlightScene_ExitRunsCallback(t *testing.T) {
	exits := 0
	scene := NewFlightScene(SceneOptions{OnExit: func() { exits++ }})

	scene.Exit()
	if exits != 1 {
		t.Errorf("OnExit called %d times, want 1", exits)
	}
}

func TestFlightSystem_Update(t *testing.T) {
	pumped := 0
	pump := func() int {
		pumped++
		return 1
	}
	camera := NewRadarCamera(20000)
	scroll := float32(0)

	fs := NewFlightSystem(pump, camera, func() float32 { return scroll })

	for i := 0; i < 3; i++ {
		fs.Update(1.0 / 60)
	}
	if pumped != 3 || fs.Frames() != 3 || fs.Updates() != 3 {
		t.Errorf("pumped %d, Frames() %d, Updates() %d, want 3", pumped, fs.Frames(), fs.Updates())
	}
	if camera.Range() != 20000 {
		t.Errorf("no scroll changed range to %f", camera.Range())
	}

	scroll = 10 // factor 2
	fs.Update(1.0 / 60)
	if camera.Range() != 10000 {
		t.Errorf("Range() = %f after scrolling in, want 10000", camera.Range())
	}
}

func TestFlightSystem_NilCollaborators(t *testing.T) {
	fs := NewFlightSystem(nil, nil, nil)
	fs.Update(1.0 / 60)
	if fs.Updates() != 1 || fs.Frames() != 0 {
		t.Errorf("Updates() = %d Frames() = %d", fs.Updates(), fs.Frames())
	}
}

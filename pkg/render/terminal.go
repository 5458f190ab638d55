package render

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-flightgl/pkg/input"
	"github.com/opd-ai/go-flightgl/pkg/logging"
	"github.com/opd-ai/go-flightgl/pkg/radar"
)

// Terminal layout.
const (
	hudWidth = 28

	// DefaultRadarRange is the radar half-width in world units.
	DefaultRadarRange = 20000.0
)

// TerminalRenderer draws a text HUD and an overhead radar on a tcell
// screen, and feeds the screen's key events into the keyboard signal.
type TerminalRenderer struct {
	screen     tcell.Screen
	keys       *input.TcellKeys
	radarRange float64

	mu sync.Mutex

	hudStyle    tcell.Style
	alertStyle  tcell.Style
	planetStyle tcell.Style
	frameStyle  tcell.Style

	logger *logging.Logger
	ctx    context.Context
}

// NewTerminalRenderer creates a renderer on an initialised screen. keys may
// be nil when input comes from elsewhere; radarRange <= 0 selects
// DefaultRadarRange.
func NewTerminalRenderer(screen tcell.Screen, keys *input.TcellKeys, radarRange float64, logger *logging.Logger) *TerminalRenderer {
	if radarRange <= 0 {
		radarRange = DefaultRadarRange
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &TerminalRenderer{
		screen:      screen,
		keys:        keys,
		radarRange:  radarRange,
		hudStyle:    tcell.StyleDefault,
		alertStyle:  tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
		planetStyle: tcell.StyleDefault.Foreground(tcell.ColorYellow),
		frameStyle:  tcell.StyleDefault.Dim(true),
		logger:      logger,
		ctx:         context.Background(),
	}
}

// SetContext sets the context whose session ID is attached to logs.
func (r *TerminalRenderer) SetContext(ctx context.Context) { r.ctx = ctx }

// Render implements Renderer.
func (r *TerminalRenderer) Render(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.screen.Clear()
	width, height := r.screen.Size()

	for row, line := range hudLines(f) {
		if row >= height {
			break
		}
		style := r.hudStyle
		if row == 0 && f.HitActive {
			style = r.alertStyle
		}
		r.drawText(0, row, line, style)
	}

	r.drawRadar(f, width, height)
	r.screen.Show()
}

func hudLines(f Frame) []string {
	status := "FLIGHTGL"
	if f.HitActive {
		status = "FLIGHTGL  ** HIT **"
	}
	c := f.Ship.Controls
	return []string{
		status,
		"",
		fmt.Sprintf("velocity %9.2f", f.Ship.Velocity),
		fmt.Sprintf("thrust   %9.2f", f.Thrust),
		fmt.Sprintf("yaw      %+9.3f", c.Yaw),
		fmt.Sprintf("pitch    %+9.3f", c.Pitch),
		fmt.Sprintf("roll     %+9.3f", c.Roll),
		fmt.Sprintf("on-axis  %+.2f %+.2f %+.2f", f.Ship.OnAxis.X(), f.Ship.OnAxis.Y(), f.Ship.OnAxis.Z()),
		fmt.Sprintf("zoom     %9.2f", f.ZoomFactor),
		"",
		fmt.Sprintf("fps      %9.1f", f.FPS),
		fmt.Sprintf("steps    %4d %9d", f.Steps, f.TotalSteps),
		fmt.Sprintf("cap hits %9d", f.CapHits),
		fmt.Sprintf("recycled %9d", f.Recycled),
		fmt.Sprintf("hits     %9d", f.Hits),
		"",
		"W/S pitch  A/D roll  Q/E yaw",
		"Up/Down zoom  Esc quit",
	}
}

func (r *TerminalRenderer) drawText(x, y int, text string, style tcell.Style) {
	for _, ch := range text {
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

// drawRadar frames the area right of the HUD and plots the contacts in it.
func (r *TerminalRenderer) drawRadar(f Frame, width, height int) {
	scope := radar.Scope{
		Width:  width - hudWidth - 2,
		Height: height - 2,
		Range:  r.radarRange,
	}
	grid := scope.Plot(radar.Project(f.View, f.Contacts, r.radarRange))
	if grid == nil {
		return
	}

	left, right := hudWidth, width-1
	bottom := height - 1
	for x := left; x <= right; x++ {
		r.screen.SetContent(x, 0, '-', nil, r.frameStyle)
		r.screen.SetContent(x, bottom, '-', nil, r.frameStyle)
	}
	for y := 0; y <= bottom; y++ {
		ch := '|'
		if y == 0 || y == bottom {
			ch = '+'
		}
		r.screen.SetContent(left, y, ch, nil, r.frameStyle)
		r.screen.SetContent(right, y, ch, nil, r.frameStyle)
	}

	for row, line := range grid {
		for col, ch := range line {
			style := r.hudStyle
			if ch == radar.Planet.Glyph() {
				style = r.planetStyle
			}
			r.screen.SetContent(left+1+col, 1+row, ch, nil, style)
		}
	}
}

// HandleEvent processes one screen event and reports whether the user asked
// to quit.
func (r *TerminalRenderer) HandleEvent(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		}
		if r.keys != nil {
			r.keys.Handle(ev, now)
		}
	case *tcell.EventResize:
		r.mu.Lock()
		r.screen.Sync()
		r.mu.Unlock()
		w, h := ev.Size()
		r.logger.Debug(r.ctx, "terminal resized", "width", w, "height", h)
	}
	return false
}

// Listen reads screen events until the user quits or the screen is
// finalised. It blocks and belongs on its own goroutine.
func (r *TerminalRenderer) Listen() {
	for {
		ev := r.screen.PollEvent()
		if ev == nil {
			return
		}
		if r.HandleEvent(ev, time.Now()) {
			r.logger.Info(r.ctx, "quit requested from terminal")
			return
		}
	}
}

// pkg/render/engo/hud.go
package engo

import (
	"image/color"
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-flightgl/pkg/render"
)

// HUD layout in pixels.
const (
	gaugeHeight  = 10
	gaugeSpacing = 6
	hudLayer     = 10

	maxGaugeVelocity = 100.0
	maxGaugeThrust   = 100.0
)

var (
	velocityColor = color.RGBA{0, 200, 255, 255}
	thrustColor   = color.RGBA{0, 255, 120, 255}
	reverseColor  = color.RGBA{255, 140, 0, 255}
	zoomColor     = color.RGBA{180, 180, 255, 255}
	alertColor    = color.RGBA{255, 0, 0, 160}
)

// entitySink is the part of common.RenderSystem the front end needs.
type entitySink interface {
	Add(basic *ecs.BasicEntity, rc *common.RenderComponent, space *common.SpaceComponent)
	Remove(basic ecs.BasicEntity)
}

// sprite is a renderable entity.
type sprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

func newSprite(d common.Drawable, c color.Color, pos engo.Point, w, h float32) *sprite {
	s := &sprite{BasicEntity: ecs.NewBasic()}
	s.RenderComponent = common.RenderComponent{Drawable: d, Color: c}
	s.SpaceComponent = common.SpaceComponent{Position: pos, Width: w, Height: h}
	return s
}

// gauge is a horizontal bar whose width follows a value in [0, 1].
type gauge struct {
	*sprite
	length float32
}

func newGauge(c color.Color, pos engo.Point, length float32) *gauge {
	return &gauge{
		sprite: newSprite(common.Rectangle{}, c, pos, 0, gaugeHeight),
		length: length,
	}
}

func (g *gauge) set(fraction float64) {
	fraction = math.Max(0, math.Min(1, fraction))
	g.Width = float32(fraction) * g.length
	g.Hidden = g.Width == 0
}

// HUD draws velocity, thrust and zoom gauges and a full screen flash while
// a hit sound is playing.
type HUD struct {
	velocity *gauge
	thrust   *gauge
	zoom     *gauge
	alert    *sprite
}

// NewHUD lays out the gauges from origin, each length pixels long, and
// sizes the hit flash to the screen.
func NewHUD(origin engo.Point, length float32, screen engo.Point) *HUD {
	row := func(i int) engo.Point {
		return engo.Point{X: origin.X, Y: origin.Y + float32(i)*(gaugeHeight+gaugeSpacing)}
	}
	h := &HUD{
		velocity: newGauge(velocityColor, row(0), length),
		thrust:   newGauge(thrustColor, row(1), length),
		zoom:     newGauge(zoomColor, row(2), length),
		alert: newSprite(common.Rectangle{BorderWidth: 8, BorderColor: alertColor},
			color.Transparent, engo.Point{}, screen.X, screen.Y),
	}
	h.alert.Hidden = true
	for _, s := range h.sprites() {
		s.SetZIndex(hudLayer)
	}
	return h
}

func (h *HUD) sprites() []*sprite {
	return []*sprite{h.velocity.sprite, h.thrust.sprite, h.zoom.sprite, h.alert}
}

// Attach adds the HUD entities to sink.
func (h *HUD) Attach(sink entitySink) {
	for _, s := range h.sprites() {
		sink.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	}
}

// Detach removes the HUD entities from sink.
func (h *HUD) Detach(sink entitySink) {
	for _, s := range h.sprites() {
		sink.Remove(s.BasicEntity)
	}
}

// Update sizes the gauges from a frame.
func (h *HUD) Update(f render.Frame) {
	h.velocity.set(math.Abs(f.Ship.Velocity) / maxGaugeVelocity)

	h.thrust.set(math.Abs(f.Thrust) / maxGaugeThrust)
	if f.Thrust < 0 {
		h.thrust.Color = reverseColor
	} else {
		h.thrust.Color = thrustColor
	}

	h.zoom.set(f.ZoomFactor)
	h.alert.Hidden = !f.HitActive
}

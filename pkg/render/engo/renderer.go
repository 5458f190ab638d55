// pkg/render/engo/renderer.go
package engo

import (
	"context"
	"image/color"

	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-flightgl/pkg/logging"
	"github.com/opd-ai/go-flightgl/pkg/radar"
	"github.com/opd-ai/go-flightgl/pkg/render"
)

const (
	hudMargin   = 16
	gaugeLength = 200
	radarLayer  = 1
)

var spriteTint = color.White

// EngoRenderer implements render.Renderer with an overhead radar of the
// obstacle field and a gauge HUD, drawn by engo's render system. Render is
// called from the engo update goroutine through the loop.
type EngoRenderer struct {
	sink    entitySink
	camera  *RadarCamera
	sprites *Sprites
	hud     *HUD

	ship *sprite
	dots []*sprite

	frames  uint64
	visible int

	logger *logging.Logger
	ctx    context.Context
}

// NewEngoRenderer creates a renderer showing rangeUnits around the ship.
// It draws nothing until Attach.
func NewEngoRenderer(rangeUnits float64, logger *logging.Logger) *EngoRenderer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &EngoRenderer{
		camera: NewRadarCamera(rangeUnits),
		logger: logger,
		ctx:    context.Background(),
	}
}

// SetContext sets the context whose session ID is attached to logs.
func (r *EngoRenderer) SetContext(ctx context.Context) { r.ctx = ctx }

// Camera returns the radar camera.
func (r *EngoRenderer) Camera() *RadarCamera { return r.camera }

// Attach lays the scope and HUD out on a width x height screen and adds
// their entities to sink. sprites may be nil.
func (r *EngoRenderer) Attach(sink entitySink, sprites *Sprites, width, height float32) {
	r.sink = sink
	r.sprites = sprites

	size := height - 2*hudMargin
	if w := width - 2*hudMargin; w < size {
		size = w
	}
	r.camera.SetViewport(engo.Point{X: width / 2, Y: height / 2}, size)

	r.hud = NewHUD(engo.Point{X: hudMargin, Y: hudMargin}, gaugeLength, engo.Point{X: width, Y: height})
	r.hud.Attach(sink)

	marker := sprites.ShipMarker()
	w, h := float32(len(shipPattern[0])), float32(len(shipPattern))
	r.ship = newSprite(marker, tint(marker, shipColor), centred(r.camera.Center(), w, h), w, h)
	r.ship.SetZIndex(radarLayer + 1)
	sink.Add(&r.ship.BasicEntity, &r.ship.RenderComponent, &r.ship.SpaceComponent)

	r.logger.Info(r.ctx, "engo renderer attached",
		"width", width,
		"height", height,
		"radar_range", r.camera.Range(),
	)
}

// Detach removes every entity the renderer added.
func (r *EngoRenderer) Detach() {
	if r.sink == nil {
		return
	}
	for _, d := range r.dots {
		r.sink.Remove(d.BasicEntity)
	}
	if r.ship != nil {
		r.sink.Remove(r.ship.BasicEntity)
	}
	if r.hud != nil {
		r.hud.Detach(r.sink)
	}
	r.dots = nil
	r.sink = nil
}

// Render implements render.Renderer.
func (r *EngoRenderer) Render(f render.Frame) {
	r.frames++
	if r.sink == nil {
		return
	}

	blips := radar.Project(f.View, f.Contacts, 0)
	n := 0
	for _, b := range blips {
		if !r.camera.Contains(b.Point) {
			continue
		}
		r.place(r.dot(n), b)
		n++
	}
	for i := n; i < len(r.dots); i++ {
		r.dots[i].Hidden = true
	}
	r.visible = n

	r.hud.Update(f)
}

// dot returns pooled dot i, growing the pool as needed.
func (r *EngoRenderer) dot(i int) *sprite {
	for len(r.dots) <= i {
		d := newSprite(r.sprites.For(radar.Asteroid), spriteTint, engo.Point{}, 0, 0)
		d.Hidden = true
		d.SetZIndex(radarLayer)
		r.sink.Add(&d.BasicEntity, &d.RenderComponent, &d.SpaceComponent)
		r.dots = append(r.dots, d)
	}
	return r.dots[i]
}

func (r *EngoRenderer) place(d *sprite, b radar.Blip) {
	size := blipSize(b.Kind)
	d.Drawable = r.sprites.For(b.Kind)
	d.Color = tint(d.Drawable, kindColor(b.Kind))
	d.Width, d.Height = size, size
	d.Position = centred(r.camera.WorldToScreen(b.Point), size, size)
	d.Hidden = false
}

// tint colours fallback rectangles; textures carry their own colour.
func tint(d common.Drawable, c color.Color) color.Color {
	if _, ok := d.(common.Rectangle); ok {
		return c
	}
	return spriteTint
}

// Frames returns the number of frames rendered.
func (r *EngoRenderer) Frames() uint64 { return r.frames }

// Visible returns how many contacts the last frame showed.
func (r *EngoRenderer) Visible() int { return r.visible }

func centred(p engo.Point, w, h float32) engo.Point {
	return engo.Point{X: p.X - w/2, Y: p.Y - h/2}
}

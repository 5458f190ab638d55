// pkg/render/engo/assets.go
package engo

import (
	"image"
	"image/color"

	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-flightgl/pkg/radar"
)

// Sprite colours.
var (
	backgroundColor = color.NRGBA{R: 4, G: 4, B: 16, A: 255}
	asteroidColor   = color.NRGBA{R: 170, G: 170, B: 170, A: 255}
	planetColor     = color.NRGBA{R: 240, G: 200, B: 60, A: 255}
	shipColor       = color.NRGBA{R: 80, G: 220, B: 255, A: 255}
)

var asteroidPattern = [][]int{
	{0, 1, 1, 0},
	{1, 1, 1, 1},
	{1, 1, 1, 1},
	{0, 1, 1, 0},
}

var planetPattern = [][]int{
	{0, 0, 0, 1, 1, 1, 1, 1, 1, 0, 0, 0},
	{0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0},
	{0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0},
	{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	{0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0},
	{0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0},
	{0, 0, 0, 1, 1, 1, 1, 1, 1, 0, 0, 0},
}

// shipPattern points up the screen, which is ahead on the scope.
var shipPattern = [][]int{
	{0, 0, 0, 0, 1, 1, 0, 0, 0, 0},
	{0, 0, 0, 0, 1, 1, 0, 0, 0, 0},
	{0, 0, 0, 1, 1, 1, 1, 0, 0, 0},
	{0, 0, 0, 1, 1, 1, 1, 0, 0, 0},
	{0, 0, 1, 1, 1, 1, 1, 1, 0, 0},
	{0, 0, 1, 1, 1, 1, 1, 1, 0, 0},
	{0, 1, 1, 1, 1, 1, 1, 1, 1, 0},
	{0, 1, 1, 1, 1, 1, 1, 1, 1, 0},
	{1, 1, 1, 1, 0, 0, 1, 1, 1, 1},
	{1, 1, 0, 0, 0, 0, 0, 0, 1, 1},
}

// Sprites holds the radar drawables. A nil entry falls back to a plain
// rectangle tinted with the entity colour.
type Sprites struct {
	Asteroid common.Drawable
	Planet   common.Drawable
	Ship     common.Drawable
}

// LoadSprites uploads the radar sprites. It needs a GL context, so call it
// from a scene's Setup.
func LoadSprites() *Sprites {
	return &Sprites{
		Asteroid: textureFrom(patternImage(asteroidPattern, asteroidColor)),
		Planet:   textureFrom(patternImage(planetPattern, planetColor)),
		Ship:     textureFrom(patternImage(shipPattern, shipColor)),
	}
}

// For returns the drawable for a contact kind.
func (s *Sprites) For(kind radar.Kind) common.Drawable {
	var d common.Drawable
	if s != nil {
		switch kind {
		case radar.Planet:
			d = s.Planet
		default:
			d = s.Asteroid
		}
	}
	if d == nil {
		return common.Rectangle{}
	}
	return d
}

// ShipMarker returns the drawable for the scope centre.
func (s *Sprites) ShipMarker() common.Drawable {
	if s == nil || s.Ship == nil {
		return common.Rectangle{}
	}
	return s.Ship
}

// patternImage renders a 0/1 pixel pattern as a transparent image with the
// set pixels in c.
func patternImage(pattern [][]int, c color.NRGBA) *image.NRGBA {
	height := len(pattern)
	width := 0
	for _, row := range pattern {
		if len(row) > width {
			width = len(row)
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y, row := range pattern {
		for x, pixel := range row {
			if pixel == 1 {
				img.SetNRGBA(x, y, c)
			}
		}
	}
	return img
}

func textureFrom(img *image.NRGBA) common.Drawable {
	return common.NewTextureSingle(common.NewImageObject(img))
}

// kindColor tints fallback rectangles.
func kindColor(kind radar.Kind) color.Color {
	if kind == radar.Planet {
		return planetColor
	}
	return asteroidColor
}

// blipSize is the on-screen edge length of a contact in pixels.
func blipSize(kind radar.Kind) float32 {
	if kind == radar.Planet {
		return float32(len(planetPattern))
	}
	return float32(len(asteroidPattern))
}

// pkg/render/engo/camera.go
package engo

import (
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-flightgl/pkg/radar"
)

// Radar zoom limits in world units.
const (
	DefaultRadarRange = 20000.0
	minRadarRange     = 2000.0
	maxRadarRange     = 80000.0
	scrollZoomStep    = 0.1
)

// RadarCamera maps radar-plane positions onto the square scope on screen
// and owns the scope's zoom.
type RadarCamera struct {
	center     engo.Point
	size       float32
	rangeUnits float64
	minRange   float64
	maxRange   float64
}

// NewRadarCamera creates a camera showing rangeUnits either side of the
// ship. rangeUnits <= 0 selects DefaultRadarRange.
func NewRadarCamera(rangeUnits float64) *RadarCamera {
	if rangeUnits <= 0 {
		rangeUnits = DefaultRadarRange
	}
	cam := &RadarCamera{
		minRange: minRadarRange,
		maxRange: maxRadarRange,
	}
	cam.SetRange(rangeUnits)
	return cam
}

// SetViewport places the scope: center in screen pixels, size is the edge
// length of the square scope.
func (rc *RadarCamera) SetViewport(center engo.Point, size float32) {
	rc.center = center
	rc.size = size
}

// Center returns the screen position of the ship marker.
func (rc *RadarCamera) Center() engo.Point { return rc.center }

// Size returns the scope edge length in pixels.
func (rc *RadarCamera) Size() float32 { return rc.size }

// Range returns the half-width of the scope in world units.
func (rc *RadarCamera) Range() float64 { return rc.rangeUnits }

// SetRange sets the scope half-width, clamped to the zoom limits.
func (rc *RadarCamera) SetRange(rangeUnits float64) {
	rc.rangeUnits = rc.clampRange(rangeUnits)
}

// ZoomBy magnifies the scope by factor; factors above 1 zoom in.
func (rc *RadarCamera) ZoomBy(factor float64) {
	if factor <= 0 {
		return
	}
	rc.SetRange(rc.rangeUnits / factor)
}

// HandleScroll zooms by a mouse wheel delta.
func (rc *RadarCamera) HandleScroll(scrollY float32) {
	if scrollY == 0 {
		return
	}
	rc.ZoomBy(1 + float64(scrollY)*scrollZoomStep)
}

// SetZoomLimits sets the minimum and maximum range and re-clamps.
func (rc *RadarCamera) SetZoomLimits(min, max float64) {
	rc.minRange = min
	rc.maxRange = max
	rc.rangeUnits = rc.clampRange(rc.rangeUnits)
}

func (rc *RadarCamera) clampRange(r float64) float64 {
	if r < rc.minRange {
		return rc.minRange
	}
	if r > rc.maxRange {
		return rc.maxRange
	}
	return r
}

// Contains reports whether p falls inside the square scope.
func (rc *RadarCamera) Contains(p radar.Point) bool {
	return p.X >= -rc.rangeUnits && p.X <= rc.rangeUnits &&
		p.Y >= -rc.rangeUnits && p.Y <= rc.rangeUnits
}

// WorldToScreen converts a radar-plane point to screen pixels. Ahead of the
// ship is up the screen.
func (rc *RadarCamera) WorldToScreen(p radar.Point) engo.Point {
	scale := float64(rc.size) / 2 / rc.rangeUnits
	return engo.Point{
		X: rc.center.X + float32(p.X*scale),
		Y: rc.center.Y - float32(p.Y*scale),
	}
}

// ScreenToWorld converts screen pixels back to the radar plane.
func (rc *RadarCamera) ScreenToWorld(s engo.Point) radar.Point {
	scale := float64(rc.size) / 2 / rc.rangeUnits
	return radar.Point{
		X: float64(s.X-rc.center.X) / scale,
		Y: -float64(s.Y-rc.center.Y) / scale,
	}
}

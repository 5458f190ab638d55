// pkg/radar/radar.go
package radar

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind classifies a contact for display.
type Kind int

const (
	Asteroid Kind = iota
	Planet
)

// Glyph is the terminal symbol for the kind.
func (k Kind) Glyph() rune {
	switch k {
	case Planet:
		return 'O'
	default:
		return '.'
	}
}

// ShipGlyph marks the radar centre.
const ShipGlyph = '+'

// Contact is an obstacle position in world space.
type Contact struct {
	Position mgl64.Vec3
	Kind     Kind
}

// Blip is a contact projected onto the radar plane.
type Blip struct {
	Point    Point
	Kind     Kind
	Distance float64
}

// Project maps contacts into the camera's horizontal plane using the
// world-to-camera matrix view. Camera space looks down -Z, so -z becomes
// ahead. Contacts farther than rangeUnits on the plane are dropped; a
// non-positive range keeps everything. Blips are returned nearest first.
func Project(view mgl64.Mat4, contacts []Contact, rangeUnits float64) []Blip {
	blips := make([]Blip, 0, len(contacts))
	for _, c := range contacts {
		local := mgl64.TransformCoordinate(c.Position, view)
		p := Point{X: local.X(), Y: -local.Z()}
		if rangeUnits > 0 && p.Length() > rangeUnits {
			continue
		}
		blips = append(blips, Blip{Point: p, Kind: c.Kind, Distance: local.Len()})
	}
	sort.SliceStable(blips, func(i, j int) bool {
		return blips[i].Distance < blips[j].Distance
	})
	return blips
}

// Scope rasterises blips onto a character grid centred on the ship.
type Scope struct {
	Width  int
	Height int
	Range  float64
}

// Index builds a quadtree covering the scope.
func (s Scope) Index(blips []Blip) *QuadTree {
	qt := NewQuadTree(Rect{Width: 2 * s.Range, Height: 2 * s.Range}, 8)
	for _, b := range blips {
		qt.Insert(b)
	}
	return qt
}

// Cell returns the radar-plane area covered by grid cell (col, row). Row 0
// is the top of the grid, which is ahead of the ship.
func (s Scope) Cell(col, row int) Rect {
	cw := 2 * s.Range / float64(s.Width)
	ch := 2 * s.Range / float64(s.Height)
	return Rect{
		Center: Point{
			X: -s.Range + (float64(col)+0.5)*cw,
			Y: s.Range - (float64(row)+0.5)*ch,
		},
		Width:  cw,
		Height: ch,
	}
}

// Plot returns Height rows of Width glyphs. Planets win over asteroids in a
// shared cell and the centre cell shows the ship.
func (s Scope) Plot(blips []Blip) [][]rune {
	if s.Width <= 0 || s.Height <= 0 || s.Range <= 0 {
		return nil
	}
	grid := make([][]rune, s.Height)
	qt := s.Index(blips)

	for row := range grid {
		grid[row] = make([]rune, s.Width)
		for col := range grid[row] {
			grid[row][col] = ' '
			for _, b := range qt.Query(s.Cell(col, row)) {
				grid[row][col] = b.Kind.Glyph()
				if b.Kind == Planet {
					break
				}
			}
		}
	}
	grid[s.Height/2][s.Width/2] = ShipGlyph
	return grid
}

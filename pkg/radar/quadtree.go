// pkg/radar/quadtree.go
package radar

// maxDepth stops subdivision when many blips share one position.
const maxDepth = 12

// Rect is an axis-aligned area on the radar plane
type Rect struct {
	Center Point
	Width  float64
	Height float64
}

// Contains reports whether point lies in the half-open rectangle.
func (r Rect) Contains(point Point) bool {
	return point.X >= r.Center.X-r.Width/2 &&
		point.X < r.Center.X+r.Width/2 &&
		point.Y >= r.Center.Y-r.Height/2 &&
		point.Y < r.Center.Y+r.Height/2
}

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return !(other.Center.X-other.Width/2 > r.Center.X+r.Width/2 ||
		other.Center.X+other.Width/2 < r.Center.X-r.Width/2 ||
		other.Center.Y-other.Height/2 > r.Center.Y+r.Height/2 ||
		other.Center.Y+other.Height/2 < r.Center.Y-r.Height/2)
}

// QuadTree indexes blips for per-cell radar lookups
type QuadTree struct {
	Boundary  Rect
	Capacity  int
	Blips     []Blip
	Divided   bool
	NorthWest *QuadTree
	NorthEast *QuadTree
	SouthWest *QuadTree
	SouthEast *QuadTree

	depth int
}

// NewQuadTree creates a new quad tree with the given boundary and capacity
func NewQuadTree(boundary Rect, capacity int) *QuadTree {
	if capacity < 1 {
		capacity = 1
	}
	return &QuadTree{
		Boundary: boundary,
		Capacity: capacity,
		Blips:    make([]Blip, 0, capacity),
	}
}

// Insert adds a blip. It returns false when the blip is outside the boundary.
func (qt *QuadTree) Insert(blip Blip) bool {
	if !qt.Boundary.Contains(blip.Point) {
		return false
	}

	if !qt.Divided && (len(qt.Blips) < qt.Capacity || qt.depth >= maxDepth) {
		qt.Blips = append(qt.Blips, blip)
		return true
	}

	if !qt.Divided {
		qt.Subdivide()
	}

	return qt.NorthWest.Insert(blip) ||
		qt.NorthEast.Insert(blip) ||
		qt.SouthWest.Insert(blip) ||
		qt.SouthEast.Insert(blip)
}

// Subdivide splits the quadtree into four quadrants
func (qt *QuadTree) Subdivide() {
	x := qt.Boundary.Center.X
	y := qt.Boundary.Center.Y
	w := qt.Boundary.Width / 2
	h := qt.Boundary.Height / 2

	nw := Rect{Center: Point{X: x - w/2, Y: y + h/2}, Width: w, Height: h}
	ne := Rect{Center: Point{X: x + w/2, Y: y + h/2}, Width: w, Height: h}
	sw := Rect{Center: Point{X: x - w/2, Y: y - h/2}, Width: w, Height: h}
	se := Rect{Center: Point{X: x + w/2, Y: y - h/2}, Width: w, Height: h}

	qt.NorthWest = qt.child(nw)
	qt.NorthEast = qt.child(ne)
	qt.SouthWest = qt.child(sw)
	qt.SouthEast = qt.child(se)
	qt.Divided = true
}

func (qt *QuadTree) child(boundary Rect) *QuadTree {
	c := NewQuadTree(boundary, qt.Capacity)
	c.depth = qt.depth + 1
	return c
}

// Query returns every blip inside area
func (qt *QuadTree) Query(area Rect) []Blip {
	var found []Blip
	qt.query(area, &found)
	return found
}

func (qt *QuadTree) query(area Rect, found *[]Blip) {
	if !qt.Boundary.Intersects(area) {
		return
	}

	for _, b := range qt.Blips {
		if area.Contains(b.Point) {
			*found = append(*found, b)
		}
	}

	if !qt.Divided {
		return
	}

	qt.NorthWest.query(area, found)
	qt.NorthEast.query(area, found)
	qt.SouthWest.query(area, found)
	qt.SouthEast.query(area, found)
}

// Len returns the number of blips stored in the tree
func (qt *QuadTree) Len() int {
	n := len(qt.Blips)
	if qt.Divided {
		n += qt.NorthWest.Len() + qt.NorthEast.Len() + qt.SouthWest.Len() + qt.SouthEast.Len()
	}
	return n
}

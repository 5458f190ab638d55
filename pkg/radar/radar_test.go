package radar

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestPoint_Arithmetic(t *testing.T) {
	a := Point{X: 3, Y: 4}
	b := Point{X: 1, Y: -2}

	tests := []struct {
		name string
		got  Point
		want Point
	}{
		{"add", a.Add(b), Point{X: 4, Y: 2}},
		{"sub", a.Sub(b), Point{X: 2, Y: 6}},
		{"scale", a.Scale(2), Point{X: 6, Y: 8}},
		{"scale zero", a.Scale(0), Point{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if a.Length() != 5 {
		t.Errorf("Length = %f, want 5", a.Length())
	}
}

func TestPoint_Bearing(t *testing.T) {
	tests := []struct {
		name  string
		point Point
		want  float64
	}{
		{"dead ahead", Point{X: 0, Y: 1}, 0},
		{"right", Point{X: 1, Y: 0}, math.Pi / 2},
		{"left", Point{X: -1, Y: 0}, -math.Pi / 2},
		{"behind", Point{X: 0, Y: -1}, math.Pi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.point.Bearing(); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Bearing = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestRect_Contains(t *testing.T) {
	r := Rect{Center: Point{}, Width: 10, Height: 10}

	tests := []struct {
		name  string
		point Point
		want  bool
	}{
		{"centre", Point{}, true},
		{"lower edge inclusive", Point{X: -5, Y: -5}, true},
		{"upper edge exclusive", Point{X: 5, Y: 0}, false},
		{"outside", Point{X: 20, Y: 20}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.point); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.point, got, tt.want)
			}
		})
	}
}

func TestRect_Intersects(t *testing.T) {
	r := Rect{Center: Point{}, Width: 10, Height: 10}

	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"same", r, true},
		{"overlapping", Rect{Center: Point{X: 8}, Width: 10, Height: 10}, true},
		{"inside", Rect{Center: Point{X: 1, Y: 1}, Width: 2, Height: 2}, true},
		{"disjoint", Rect{Center: Point{X: 20}, Width: 10, Height: 10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuadTree_InsertAndSubdivide(t *testing.T) {
	qt := NewQuadTree(Rect{Width: 100, Height: 100}, 2)

	if qt.Insert(Blip{Point: Point{X: 60, Y: 0}}) {
		t.Error("Insert should fail outside the boundary")
	}

	for _, p := range []Point{{X: 10, Y: 10}, {X: -10, Y: -10}, {X: 30, Y: -30}} {
		if !qt.Insert(Blip{Point: p}) {
			t.Fatalf("Insert(%v) failed", p)
		}
	}

	if !qt.Divided {
		t.Fatal("tree should subdivide past capacity")
	}
	if qt.NorthEast.Boundary != (Rect{Center: Point{X: 25, Y: 25}, Width: 50, Height: 50}) {
		t.Errorf("unexpected north east boundary %v", qt.NorthEast.Boundary)
	}
	if qt.Len() != 3 {
		t.Errorf("Len = %d, want 3", qt.Len())
	}
}

func TestQuadTree_CoincidentBlipsTerminate(t *testing.T) {
	qt := NewQuadTree(Rect{Width: 100, Height: 100}, 1)
	for i := 0; i < 50; i++ {
		if !qt.Insert(Blip{Point: Point{X: 1, Y: 1}}) {
			t.Fatalf("insert %d failed", i)
		}
	}
	if qt.Len() != 50 {
		t.Errorf("Len = %d, want 50", qt.Len())
	}
	if got := len(qt.Query(Rect{Center: Point{X: 1, Y: 1}, Width: 1, Height: 1})); got != 50 {
		t.Errorf("Query found %d, want 50", got)
	}
}

func TestQuadTree_Query(t *testing.T) {
	qt := NewQuadTree(Rect{Width: 100, Height: 100}, 1)
	points := []Point{{X: -40, Y: 40}, {X: 40, Y: 40}, {X: -40, Y: -40}, {X: 40, Y: -40}, {X: 1, Y: 1}}
	for _, p := range points {
		qt.Insert(Blip{Point: p})
	}

	tests := []struct {
		name string
		area Rect
		want int
	}{
		{"everything", Rect{Width: 100, Height: 100}, 5},
		{"north east quadrant", Rect{Center: Point{X: 25, Y: 25}, Width: 50, Height: 50}, 2},
		{"single point", Rect{Center: Point{X: -40, Y: -40}, Width: 2, Height: 2}, 1},
		{"outside", Rect{Center: Point{X: 500}, Width: 10, Height: 10}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(qt.Query(tt.area)); got != tt.want {
				t.Errorf("Query found %d, want %d", got, tt.want)
			}
		})
	}
}

func TestProject(t *testing.T) {
	// Camera at (0, 0, 500) looking down -Z.
	view := mgl64.Translate3D(0, 0, -500)
	contacts := []Contact{
		{Position: mgl64.Vec3{0, 0, -1500}, Kind: Planet},
		{Position: mgl64.Vec3{300, 0, 100}, Kind: Asteroid},
		{Position: mgl64.Vec3{0, 0, 100000}, Kind: Asteroid},
	}

	blips := Project(view, contacts, 5000)
	if len(blips) != 2 {
		t.Fatalf("expected 2 blips in range, got %d", len(blips))
	}

	near := blips[0]
	if near.Kind != Asteroid || math.Abs(near.Point.X-300) > 1e-9 || math.Abs(near.Point.Y-400) > 1e-9 {
		t.Errorf("unexpected nearest blip %+v", near)
	}
	if math.Abs(near.Distance-500) > 1e-9 {
		t.Errorf("Distance = %f, want 500", near.Distance)
	}

	far := blips[1]
	if far.Kind != Planet || math.Abs(far.Point.Y-2000) > 1e-9 {
		t.Errorf("unexpected far blip %+v", far)
	}

	if got := Project(view, contacts, 0); len(got) != 3 {
		t.Errorf("unlimited range kept %d blips, want 3", len(got))
	}
}

func TestScope_Plot(t *testing.T) {
	scope := Scope{Width: 11, Height: 11, Range: 1100}
	blips := []Blip{
		{Point: Point{X: 0, Y: 1000}, Kind: Asteroid},
		{Point: Point{X: -1000, Y: -1000}, Kind: Planet},
		{Point: Point{X: 1000, Y: 0}, Kind: Asteroid},
		{Point: Point{X: 1010, Y: 10}, Kind: Planet},
	}

	grid := scope.Plot(blips)
	if len(grid) != 11 || len(grid[0]) != 11 {
		t.Fatalf("grid is %dx%d, want 11x11", len(grid[0]), len(grid))
	}

	tests := []struct {
		name     string
		col, row int
		want     rune
	}{
		{"ship at centre", 5, 5, ShipGlyph},
		{"asteroid ahead", 5, 0, '.'},
		{"planet behind left", 0, 10, 'O'},
		{"planet wins shared cell", 10, 5, 'O'},
		{"empty cell", 2, 2, ' '},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := grid[tt.row][tt.col]; got != tt.want {
				t.Errorf("cell (%d,%d) = %q, want %q", tt.col, tt.row, got, tt.want)
			}
		})
	}

	if (Scope{}).Plot(blips) != nil {
		t.Error("empty scope should plot nothing")
	}
}

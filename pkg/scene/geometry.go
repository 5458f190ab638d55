package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Stock geometry sizes.
const (
	HitBoxSize = 100.0
	StarSize   = 25.0

	AsteroidRadius    = 25.0
	AsteroidWidthSeg  = 5
	AsteroidHeightSeg = 8

	PlanetRadius    = 3000.0
	PlanetWidthSeg  = 25
	PlanetHeightSeg = 25
)

// box faces as outward counter-clockwise quads over corner index
// x + 2y + 4z (0 = negative side, 1 = positive side)
var boxQuads = [6][4]int{
	{1, 3, 7, 5}, // +X
	{0, 4, 6, 2}, // -X
	{2, 6, 7, 3}, // +Y
	{0, 1, 5, 4}, // -Y
	{4, 5, 7, 6}, // +Z
	{0, 2, 3, 1}, // -Z
}

// NewBox builds an axis-aligned box centred on the origin.
func NewBox(name string, width, height, depth float64) *Mesh {
	hx, hy, hz := width/2, height/2, depth/2

	vertices := make([]mgl64.Vec3, 8)
	for i := range vertices {
		v := mgl64.Vec3{-hx, -hy, -hz}
		if i&1 != 0 {
			v[0] = hx
		}
		if i&2 != 0 {
			v[1] = hy
		}
		if i&4 != 0 {
			v[2] = hz
		}
		vertices[i] = v
	}

	indices := make([]int, 0, 36)
	for _, q := range boxQuads {
		indices = append(indices, q[0], q[1], q[2], q[0], q[2], q[3])
	}

	return NewMesh(name, vertices, indices)
}

// NewHitBox builds the cube that stands in for the ship during collision.
func NewHitBox() *Mesh {
	return NewBox("hitbox", HitBoxSize, HitBoxSize, HitBoxSize)
}

// NewBoxStar builds the small cube used for background stars.
func NewBoxStar(size float64) *Mesh {
	return NewBox("star", size, size, size)
}

// NewSphere builds a UV sphere with widthSegments around the equator and
// heightSegments from pole to pole. Degenerate pole triangles are skipped.
func NewSphere(name string, radius float64, widthSegments, heightSegments int) *Mesh {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}

	var vertices []mgl64.Vec3
	grid := make([][]int, heightSegments+1)

	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		row := make([]int, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			vertices = append(vertices, mgl64.Vec3{
				-radius * math.Cos(u*2*math.Pi) * math.Sin(v*math.Pi),
				radius * math.Cos(v*math.Pi),
				radius * math.Sin(u*2*math.Pi) * math.Sin(v*math.Pi),
			})
			row[ix] = len(vertices) - 1
		}
		grid[iy] = row
	}

	var indices []int
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]

			if iy != 0 {
				indices = append(indices, a, b, d)
			}
			if iy != heightSegments-1 {
				indices = append(indices, b, c, d)
			}
		}
	}

	return NewMesh(name, vertices, indices)
}

// NewAsteroid builds the low-poly asteroid sphere.
func NewAsteroid() *Mesh {
	return NewSphere("asteroid", AsteroidRadius, AsteroidWidthSeg, AsteroidHeightSeg)
}

// NewPlanet builds a planet sphere.
func NewPlanet() *Mesh {
	return NewSphere("planet", PlanetRadius, PlanetWidthSeg, PlanetHeightSeg)
}

package collision

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-flightgl/pkg/scene"
)

// Ray is an origin and a unit direction.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectsSphere reports whether the ray passes within s.
func (r Ray) IntersectsSphere(s scene.Sphere) bool {
	toCenter := s.Center.Sub(r.Origin)
	along := toCenter.Dot(r.Direction)
	d2 := toCenter.Dot(toCenter) - along*along
	r2 := s.Radius * s.Radius
	if d2 > r2 {
		return false
	}
	// Sphere entirely behind the origin.
	thc := math.Sqrt(r2 - d2)
	return along+thc >= 0
}

// IntersectTriangle returns the distance to triangle (a, b, c). With
// backfaceCulling set, triangles seen from behind (clockwise from the ray's
// point of view) are ignored.
func (r Ray) IntersectTriangle(a, b, c mgl64.Vec3, backfaceCulling bool) (float64, bool) {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	normal := edge1.Cross(edge2)

	ddn := r.Direction.Dot(normal)
	var sign float64
	switch {
	case ddn > 0:
		if backfaceCulling {
			return 0, false
		}
		sign = 1
	case ddn < 0:
		sign = -1
		ddn = -ddn
	default:
		return 0, false
	}

	diff := r.Origin.Sub(a)
	ddqxe2 := sign * r.Direction.Dot(diff.Cross(edge2))
	if ddqxe2 < 0 {
		return 0, false
	}
	dde1xq := sign * r.Direction.Dot(edge1.Cross(diff))
	if dde1xq < 0 {
		return 0, false
	}
	if ddqxe2+dde1xq > ddn {
		return 0, false
	}

	qdn := -sign * diff.Dot(normal)
	if qdn < 0 {
		return 0, false
	}
	return qdn / ddn, true
}

// Intersection is one ray hit.
type Intersection struct {
	Distance float64
	Point    mgl64.Vec3
	Object   scene.Obstacle
	Face     int
}

// Raycaster intersects a ray with obstacles between Near and Far.
type Raycaster struct {
	Ray         Ray
	Near        float64
	Far         float64
	DoubleSided bool
}

// NewRaycaster creates a raycaster with near 0 and far +Inf.
func NewRaycaster(origin, direction mgl64.Vec3) *Raycaster {
	return &Raycaster{
		Ray:  Ray{Origin: origin, Direction: direction.Normalize()},
		Near: 0,
		Far:  math.Inf(1),
	}
}

// Set points the raycaster along a new ray. direction is normalised.
func (rc *Raycaster) Set(origin, direction mgl64.Vec3) {
	rc.Ray = Ray{Origin: origin, Direction: direction.Normalize()}
}

// IntersectObject returns the hits on one obstacle, nearest first.
func (rc *Raycaster) IntersectObject(obj scene.Obstacle) []Intersection {
	var hits []Intersection
	rc.intersect(obj, &hits)
	sortByDistance(hits)
	return hits
}

// IntersectObjects returns the hits on all obstacles, nearest first.
func (rc *Raycaster) IntersectObjects(objs []scene.Obstacle) []Intersection {
	var hits []Intersection
	for _, obj := range objs {
		if obj == nil {
			continue
		}
		rc.intersect(obj, &hits)
	}
	sortByDistance(hits)
	return hits
}

func (rc *Raycaster) intersect(obj scene.Obstacle, hits *[]Intersection) {
	if !rc.Ray.IntersectsSphere(obj.BoundingSphere()) {
		return
	}

	world := obj.WorldMatrix()
	local := obj.Vertices()
	indices := obj.Indices()

	vertices := make([]mgl64.Vec3, len(local))
	for i, v := range local {
		vertices[i] = mgl64.TransformCoordinate(v, world)
	}

	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := vertices[indices[i]], vertices[indices[i+1]], vertices[indices[i+2]]
		t, ok := rc.Ray.IntersectTriangle(a, b, c, !rc.DoubleSided)
		if !ok || t < rc.Near || t > rc.Far {
			continue
		}
		*hits = append(*hits, Intersection{
			Distance: t,
			Point:    rc.Ray.At(t),
			Object:   obj,
			Face:     i / 3,
		})
	}
}

func sortByDistance(hits []Intersection) {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
}

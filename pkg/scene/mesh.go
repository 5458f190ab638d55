// Package scene holds the triangle meshes the collision detector and the
// environment work with: local geometry plus a position/rotation/scale
// transform and an optional parent such as the camera rig.
package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Parent is anything a mesh can be attached to.
type Parent interface {
	WorldMatrix() mgl64.Mat4
}

// Tracked is a mesh whose vertices are cast as collision rays.
type Tracked interface {
	WorldPosition() mgl64.Vec3
	WorldMatrix() mgl64.Mat4
	Vertices() []mgl64.Vec3
}

// Obstacle is a mesh rays are intersected against.
type Obstacle interface {
	WorldMatrix() mgl64.Mat4
	Vertices() []mgl64.Vec3
	Indices() []int
	BoundingSphere() Sphere
}

// Sphere is a world-space bounding sphere.
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

// Mesh is indexed triangle geometry with a local transform.
type Mesh struct {
	Name     string
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3

	vertices []mgl64.Vec3
	indices  []int
	parent   Parent

	// local bounding sphere, computed once from the geometry
	localCenter mgl64.Vec3
	localRadius float64
}

// NewMesh creates a mesh from local vertices and triangle indices (three per
// face, counter-clockwise when seen from the front).
func NewMesh(name string, vertices []mgl64.Vec3, indices []int) *Mesh {
	m := &Mesh{
		Name:     name,
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
		vertices: vertices,
		indices:  indices,
	}
	m.computeBounds()
	return m
}

func (m *Mesh) computeBounds() {
	if len(m.vertices) == 0 {
		return
	}
	lo, hi := m.vertices[0], m.vertices[0]
	for _, v := range m.vertices[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], v[i])
			hi[i] = math.Max(hi[i], v[i])
		}
	}
	m.localCenter = lo.Add(hi).Mul(0.5)
	for _, v := range m.vertices {
		m.localRadius = math.Max(m.localRadius, v.Sub(m.localCenter).Len())
	}
}

// Vertices returns the local-space vertices. Callers must not modify them.
func (m *Mesh) Vertices() []mgl64.Vec3 { return m.vertices }

// Indices returns the triangle index list.
func (m *Mesh) Indices() []int { return m.indices }

// SetParent attaches the mesh to p; nil detaches it.
func (m *Mesh) SetParent(p Parent) { m.parent = p }

// Parent returns the current parent or nil.
func (m *Mesh) Parent() Parent { return m.parent }

// LocalMatrix composes translation, rotation and scale.
func (m *Mesh) LocalMatrix() mgl64.Mat4 {
	return mgl64.Translate3D(m.Position.X(), m.Position.Y(), m.Position.Z()).
		Mul4(m.Rotation.Mat4()).
		Mul4(mgl64.Scale3D(m.Scale.X(), m.Scale.Y(), m.Scale.Z()))
}

// WorldMatrix is the parent's world matrix times the local matrix.
func (m *Mesh) WorldMatrix() mgl64.Mat4 {
	local := m.LocalMatrix()
	if m.parent == nil {
		return local
	}
	return m.parent.WorldMatrix().Mul4(local)
}

// WorldPosition returns the mesh origin in world space.
func (m *Mesh) WorldPosition() mgl64.Vec3 {
	return m.WorldMatrix().Col(3).Vec3()
}

// WorldVertices returns every vertex transformed to world space.
func (m *Mesh) WorldVertices() []mgl64.Vec3 {
	world := m.WorldMatrix()
	out := make([]mgl64.Vec3, len(m.vertices))
	for i, v := range m.vertices {
		out[i] = mgl64.TransformCoordinate(v, world)
	}
	return out
}

// BoundingSphere returns the world-space bounding sphere. The radius is
// scaled by the largest axis scale of the world matrix.
func (m *Mesh) BoundingSphere() Sphere {
	world := m.WorldMatrix()
	return Sphere{
		Center: mgl64.TransformCoordinate(m.localCenter, world),
		Radius: m.localRadius * maxScale(world),
	}
}

func maxScale(world mgl64.Mat4) float64 {
	sx := world.Col(0).Vec3().Len()
	sy := world.Col(1).Vec3().Len()
	sz := world.Col(2).Vec3().Len()
	return math.Max(sx, math.Max(sy, sz))
}

// DistanceTo returns the distance from the mesh world position to p.
func (m *Mesh) DistanceTo(p mgl64.Vec3) float64 {
	return m.WorldPosition().Sub(p).Len()
}

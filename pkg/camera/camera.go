// Package camera provides the perspective camera rig the ship and hit box
// hang off. The camera looks down its local -Z axis.
package camera

import (
	"github.com/go-gl/mathgl/mgl64"
)

var (
	axisX = mgl64.Vec3{1, 0, 0}
	axisY = mgl64.Vec3{0, 1, 0}
	axisZ = mgl64.Vec3{0, 0, 1}
)

// Camera is a perspective camera with a quaternion orientation.
type Camera struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat

	fov    float64 // vertical, degrees
	aspect float64
	near   float64
	far    float64
}

// New creates a camera at the origin looking down -Z.
func New(fov, aspect, near, far float64) *Camera {
	if aspect <= 0 {
		aspect = 1
	}
	return &Camera{
		Orientation: mgl64.QuatIdent(),
		fov:         fov,
		aspect:      aspect,
		near:        near,
		far:         far,
	}
}

// SetAspect updates the aspect ratio after a resize.
func (c *Camera) SetAspect(aspect float64) {
	if aspect > 0 {
		c.aspect = aspect
	}
}

// Aspect returns the current aspect ratio.
func (c *Camera) Aspect() float64 { return c.aspect }

// RotateX rotates about the camera's local X axis.
func (c *Camera) RotateX(angle float64) { c.rotateOnAxis(axisX, angle) }

// RotateY rotates about the camera's local Y axis.
func (c *Camera) RotateY(angle float64) { c.rotateOnAxis(axisY, angle) }

// RotateZ rotates about the camera's local Z axis.
func (c *Camera) RotateZ(angle float64) { c.rotateOnAxis(axisZ, angle) }

func (c *Camera) rotateOnAxis(axis mgl64.Vec3, angle float64) {
	c.Orientation = c.Orientation.Mul(mgl64.QuatRotate(angle, axis)).Normalize()
}

// TranslateZ moves along the camera's local Z axis. Negative distances move
// forward.
func (c *Camera) TranslateZ(distance float64) {
	c.Position = c.Position.Add(c.Orientation.Rotate(axisZ).Mul(distance))
}

// Forward returns the world-space viewing direction.
func (c *Camera) Forward() mgl64.Vec3 {
	return c.Orientation.Rotate(axisZ.Mul(-1))
}

// WorldMatrix places the camera in the world. It satisfies scene.Parent so
// meshes can ride along with the camera.
func (c *Camera) WorldMatrix() mgl64.Mat4 {
	return mgl64.Translate3D(c.Position.X(), c.Position.Y(), c.Position.Z()).
		Mul4(c.Orientation.Mat4())
}

// Matrix is an alias of WorldMatrix.
func (c *Camera) Matrix() mgl64.Mat4 { return c.WorldMatrix() }

// ViewMatrix is the inverse of the world matrix.
func (c *Camera) ViewMatrix() mgl64.Mat4 {
	return c.Orientation.Inverse().Mat4().
		Mul4(mgl64.Translate3D(-c.Position.X(), -c.Position.Y(), -c.Position.Z()))
}

// Projection returns the perspective projection matrix.
func (c *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.fov), c.aspect, c.near, c.far)
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.Projection().Mul4(c.ViewMatrix())
}

// Frustum returns the current view frustum.
func (c *Camera) Frustum() Frustum {
	return NewFrustum(c.ViewProjection())
}

// ToCameraSpace transforms a world point into camera space.
func (c *Camera) ToCameraSpace(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, c.ViewMatrix())
}

// ToWorld transforms a camera-space point into world space.
func (c *Camera) ToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, c.WorldMatrix())
}

// Package environment owns the obstacle field the ship flies through.
// Asteroids that fall far behind the camera are recycled back into view so a
// fixed number of meshes fills an endless field.
package environment

import (
	"context"
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-flightgl/pkg/camera"
	"github.com/opd-ai/go-flightgl/pkg/config"
	"github.com/opd-ai/go-flightgl/pkg/event"
	"github.com/opd-ai/go-flightgl/pkg/logging"
	"github.com/opd-ai/go-flightgl/pkg/radar"
	"github.com/opd-ai/go-flightgl/pkg/scene"
)

const (
	spawnSpread = 0.75
	spawnDepth  = 0.8
)

// Field holds the asteroids and planets around the camera.
type Field struct {
	layout config.EnvironmentLayout
	camera *camera.Camera
	rng    *rand.Rand

	asteroids []*scene.Mesh
	planets   []*scene.Mesh
	recycled  uint64

	bus    *event.Bus
	logger *logging.Logger
	ctx    context.Context
}

// Option configures a Field.
type Option func(*Field)

// WithEventBus publishes ObstacleRecycled events on bus.
func WithEventBus(bus *event.Bus) Option {
	return func(f *Field) { f.bus = bus }
}

// WithLogger sets the logger and the context whose session ID it reports.
func WithLogger(ctx context.Context, logger *logging.Logger) Option {
	return func(f *Field) {
		f.ctx = ctx
		f.logger = logger
	}
}

// New scatters layout.Asteroids asteroids within layout.Radius and
// layout.Planets planets within Radius*PlanetRadiusMultiplier of the origin.
// A zero seed draws one from the clock.
func New(layout config.EnvironmentLayout, cam *camera.Camera, opts ...Option) *Field {
	seed := layout.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	if layout.PlanetRadiusMultiplier <= 0 {
		layout.PlanetRadiusMultiplier = 1
	}

	f := &Field{
		layout: layout,
		camera: cam,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		logger: logging.Discard(),
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.asteroids = make([]*scene.Mesh, 0, layout.Asteroids)
	for i := 0; i < layout.Asteroids; i++ {
		a := scene.NewAsteroid()
		a.Position = f.scatter(layout.Radius)
		f.asteroids = append(f.asteroids, a)
	}

	f.planets = make([]*scene.Mesh, 0, layout.Planets)
	for i := 0; i < layout.Planets; i++ {
		p := scene.NewPlanet()
		p.Position = f.scatter(layout.Radius * layout.PlanetRadiusMultiplier)
		f.planets = append(f.planets, p)
	}

	f.logger.Info(f.ctx, "environment created",
		"asteroids", len(f.asteroids),
		"planets", len(f.planets),
		"radius", layout.Radius,
		"seed", seed,
	)
	return f
}

// signed returns a whole number in [0, max] with a random sign.
func (f *Field) signed(max float64) float64 {
	n := math.Floor(f.rng.Float64() * (max + 1))
	if f.rng.Float64() > 0.5 {
		return n
	}
	return -n
}

func (f *Field) scatter(max float64) mgl64.Vec3 {
	return mgl64.Vec3{f.signed(max), f.signed(max), f.signed(max)}
}

// Update examines the RecycleBatch asteroids farthest from the camera and
// moves each one that is beyond Radius and outside the view frustum to a
// fresh spot around the camera. Asteroids are then sorted nearest first.
func (f *Field) Update(dt float64) {
	if len(f.asteroids) == 0 {
		return
	}
	frustum := f.camera.Frustum()

	recycled := 0
	last := len(f.asteroids) - 1
	for i := last; i >= 0 && last-i < f.layout.RecycleBatch; i-- {
		if f.recycle(f.asteroids[i], frustum) {
			recycled++
		}
	}
	f.sortByDistance()

	if recycled > 0 {
		f.recycled += uint64(recycled)
		f.logger.Debug(f.ctx, "asteroids recycled", "count", recycled, "total", f.recycled)
		f.bus.Publish(event.NewRecycleEvent(f, recycled))
	}
}

func (f *Field) recycle(a *scene.Mesh, frustum camera.Frustum) bool {
	if a.DistanceTo(f.camera.Position) <= f.layout.Radius {
		return false
	}
	bounds := a.BoundingSphere()
	if frustum.IntersectsSphere(bounds.Center, bounds.Radius) {
		return false
	}
	a.Position = f.respawnPosition()
	return true
}

// respawnPosition picks a point in camera space and returns it in world
// space. The depth sign follows the side of the origin the camera is on.
func (f *Field) respawnPosition() mgl64.Vec3 {
	r := f.layout.Radius
	z := r * spawnDepth
	if f.camera.Position.Z() < 0 {
		z = -z
	}
	local := mgl64.Vec3{f.signed(r * spawnSpread), f.signed(r * spawnSpread), z}
	return f.camera.ToWorld(local)
}

func (f *Field) sortByDistance() {
	origin := f.camera.Position
	sort.SliceStable(f.asteroids, func(i, j int) bool {
		return f.asteroids[i].DistanceTo(origin) < f.asteroids[j].DistanceTo(origin)
	})
}

// Obstacles returns a fresh list of asteroids followed by planets.
func (f *Field) Obstacles() []scene.Obstacle {
	out := make([]scene.Obstacle, 0, len(f.asteroids)+len(f.planets))
	for _, a := range f.asteroids {
		out = append(out, a)
	}
	for _, p := range f.planets {
		out = append(out, p)
	}
	return out
}

// Asteroids returns the asteroids in their current order.
func (f *Field) Asteroids() []*scene.Mesh {
	return append([]*scene.Mesh(nil), f.asteroids...)
}

// Planets returns the planets.
func (f *Field) Planets() []*scene.Mesh {
	return append([]*scene.Mesh(nil), f.planets...)
}

// Contacts lists every obstacle position for the radar.
func (f *Field) Contacts() []radar.Contact {
	out := make([]radar.Contact, 0, len(f.asteroids)+len(f.planets))
	for _, a := range f.asteroids {
		out = append(out, radar.Contact{Position: a.Position, Kind: radar.Asteroid})
	}
	for _, p := range f.planets {
		out = append(out, radar.Contact{Position: p.Position, Kind: radar.Planet})
	}
	return out
}

// Recycled returns the number of asteroids recycled since creation.
func (f *Field) Recycled() uint64 { return f.recycled }

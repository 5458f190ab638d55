// Package collision casts rays from a tracked mesh toward each of its
// vertices and fires a hit response when an obstacle is close.
package collision

import (
	"context"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-flightgl/pkg/event"
	"github.com/opd-ai/go-flightgl/pkg/logging"
	"github.com/opd-ai/go-flightgl/pkg/scene"
)

// DefaultThreshold is the hit distance in world units.
const DefaultThreshold = 1000.0

// Hit describes the vertex ray that triggered a response.
type Hit struct {
	Vertex   int
	Distance float64
	Point    mgl64.Vec3
	Tick     uint64
}

// HitResponder reacts to hits. While Active reports true no further hits
// are delivered.
type HitResponder interface {
	Active() bool
	Trigger(hit Hit)
}

// Detector is the ray-cast collision detector. It only reads the tracked
// mesh and obstacles; both may be replaced between ticks.
type Detector struct {
	tracked   scene.Tracked
	obstacles []scene.Obstacle
	responder HitResponder
	threshold float64
	raycaster *Raycaster

	bus    *event.Bus
	logger *logging.Logger
	ctx    context.Context

	tick uint64
	hits uint64
}

// Option configures a Detector.
type Option func(*Detector)

// WithThreshold sets the hit distance.
func WithThreshold(threshold float64) Option {
	return func(d *Detector) { d.threshold = threshold }
}

// WithDoubleSided makes back faces count as hits.
func WithDoubleSided(doubleSided bool) Option {
	return func(d *Detector) { d.raycaster.DoubleSided = doubleSided }
}

// WithEventBus publishes every trigger as event.HitDetected.
func WithEventBus(bus *event.Bus) Option {
	return func(d *Detector) { d.bus = bus }
}

// WithLogger sets the logger and the context used for its session ID.
func WithLogger(ctx context.Context, logger *logging.Logger) Option {
	return func(d *Detector) {
		d.ctx = ctx
		d.logger = logger
	}
}

// NewDetector creates a detector that reports to responder.
func NewDetector(responder HitResponder, opts ...Option) *Detector {
	d := &Detector{
		responder: responder,
		threshold: DefaultThreshold,
		raycaster: NewRaycaster(mgl64.Vec3{}, mgl64.Vec3{0, 0, -1}),
		logger:    logging.Discard(),
		ctx:       context.Background(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetTrackedMesh replaces the mesh whose vertices are cast. nil disables
// detection.
func (d *Detector) SetTrackedMesh(m scene.Tracked) {
	if mesh, ok := m.(*scene.Mesh); ok && mesh == nil {
		m = nil
	}
	d.tracked = m
}

// SetObstacles replaces the obstacle list.
func (d *Detector) SetObstacles(obstacles []scene.Obstacle) {
	d.obstacles = obstacles
}

// Hits returns how many times the responder has been triggered.
func (d *Detector) Hits() uint64 { return d.hits }

// Threshold returns the hit distance.
func (d *Detector) Threshold() float64 { return d.threshold }

// Update runs one detection pass. A missing mesh, a mesh without vertices
// or an empty obstacle list make it a no-op.
func (d *Detector) Update(dt float64) {
	d.tick++

	if d.tracked == nil || d.responder == nil || len(d.obstacles) == 0 {
		return
	}
	vertices := d.tracked.Vertices()
	if len(vertices) == 0 {
		return
	}

	origin := d.tracked.WorldPosition()
	world := d.tracked.WorldMatrix()

	for i, v := range vertices {
		direction := mgl64.TransformCoordinate(v, world).Sub(origin)
		if direction.Len() == 0 {
			continue
		}

		d.raycaster.Set(origin, direction)
		intersections := d.raycaster.IntersectObjects(d.obstacles)
		if len(intersections) == 0 {
			continue
		}

		nearest := intersections[0]
		if nearest.Distance < d.threshold && !d.responder.Active() {
			d.trigger(Hit{
				Vertex:   i,
				Distance: nearest.Distance,
				Point:    nearest.Point,
				Tick:     d.tick,
			})
			// At most one trigger per pass, even if the responder does
			// not latch.
			return
		}
	}
}

func (d *Detector) trigger(hit Hit) {
	d.hits++
	d.responder.Trigger(hit)

	d.logger.Debug(d.ctx, "collision hit",
		"vertex", hit.Vertex,
		"distance", hit.Distance,
		"tick", hit.Tick,
	)

	d.bus.Publish(event.NewHitEvent(d, hit.Vertex, hit.Distance,
		[3]float64{hit.Point.X(), hit.Point.Y(), hit.Point.Z()}, hit.Tick))
}

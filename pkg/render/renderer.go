// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-flightgl/pkg/logging"
	"github.com/opd-ai/go-flightgl/pkg/physics"
	"github.com/opd-ai/go-flightgl/pkg/radar"
)

// Frame is what a front end draws once per accepted loop frame.
type Frame struct {
	Interpolation float64

	Ship       physics.State
	Thrust     float64
	ZoomFactor float64
	ModelTilt  mgl64.Vec3 // pitch, yaw, roll applied to the model in radians

	CameraPosition mgl64.Vec3
	View           mgl64.Mat4
	Contacts       []radar.Contact

	FPS        float64
	Steps      int
	TotalSteps uint64
	CapHits    uint64

	Hits      uint64
	HitActive bool
	Recycled  uint64
}

// Renderer draws frames.
type Renderer interface {
	Render(f Frame)
}

// NullRenderer logs frames at debug level and draws nothing.
type NullRenderer struct {
	logger *logging.Logger
	ctx    context.Context
	frames uint64
}

// NewNullRenderer creates a NullRenderer. logger may be nil.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &NullRenderer{
		logger: logger,
		ctx:    context.Background(),
	}
}

// SetContext sets the context whose session ID is attached to logs.
func (d *NullRenderer) SetContext(ctx context.Context) { d.ctx = ctx }

// Render implements Renderer.
func (d *NullRenderer) Render(f Frame) {
	d.frames++
	d.logger.Debug(d.ctx, "frame rendered",
		"frame", d.frames,
		"velocity", f.Ship.Velocity,
		"thrust", f.Thrust,
		"fps", f.FPS,
		"steps", f.Steps,
		"contacts", len(f.Contacts),
		"hits", f.Hits,
	)
}

// Frames returns the number of frames rendered.
func (d *NullRenderer) Frames() uint64 { return d.frames }

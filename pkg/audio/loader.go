// pkg/audio/loader.go
package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"

	"github.com/opd-ai/go-flightgl/pkg/collision"
	"github.com/opd-ai/go-flightgl/pkg/logging"
)

// ErrUnsupportedFormat is returned for files that are neither Ogg Vorbis
// nor WAV.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// ErrEmptySound is returned for files that decode to no samples.
var ErrEmptySound = errors.New("sound has no samples")

const resampleQuality = 4

// LoadBuffer decodes an .ogg or .wav stream into memory at rate. name is
// only used to pick the decoder. rc is closed.
func LoadBuffer(rc io.ReadCloser, name string, rate beep.SampleRate) (*beep.Buffer, error) {
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".ogg":
		streamer, format, err = vorbis.Decode(rc)
	case ".wav":
		streamer, format, err = wav.Decode(rc)
	default:
		rc.Close()
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	defer streamer.Close()

	var source beep.Streamer = streamer
	if format.SampleRate != rate {
		source = beep.Resample(resampleQuality, format.SampleRate, rate, streamer)
	}

	buffer := beep.NewBuffer(beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2})
	buffer.Append(source)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if buffer.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptySound)
	}
	return buffer, nil
}

// LogResponder is a silent HitResponder that logs each hit and then stays
// active for a cooldown.
type LogResponder struct {
	mu       sync.Mutex
	cooldown time.Duration
	now      func() time.Time
	last     time.Time
	hits     uint64

	logger *logging.Logger
	ctx    context.Context
}

var _ collision.HitResponder = (*LogResponder)(nil)

// NewLogResponder creates a responder with the given cooldown.
func NewLogResponder(cooldown time.Duration, logger *logging.Logger) *LogResponder {
	if logger == nil {
		logger = logging.Discard()
	}
	return &LogResponder{
		cooldown: cooldown,
		now:      time.Now,
		logger:   logger,
		ctx:      context.Background(),
	}
}

// SetContext sets the context whose session ID is attached to logs.
func (r *LogResponder) SetContext(ctx context.Context) { r.ctx = ctx }

// Active reports whether the last hit is within the cooldown.
func (r *LogResponder) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hits > 0 && r.now().Sub(r.last) < r.cooldown
}

// Trigger logs the hit and restarts the cooldown.
func (r *LogResponder) Trigger(hit collision.Hit) {
	r.mu.Lock()
	r.last = r.now()
	r.hits++
	count := r.hits
	r.mu.Unlock()

	r.logger.Info(r.ctx, "collision",
		"vertex", hit.Vertex,
		"distance", hit.Distance,
		"tick", hit.Tick,
		"count", count,
	)
}

// Hits returns the number of triggers.
func (r *LogResponder) Hits() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hits
}

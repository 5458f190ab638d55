// Package audio plays the collision hit sound.
package audio

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/opd-ai/go-flightgl/pkg/collision"
	"github.com/opd-ai/go-flightgl/pkg/logging"
)

const (
	// SampleRate is the output rate every buffer is resampled to.
	SampleRate = beep.SampleRate(44100)

	// DefaultVolume is the linear gain of the hit sound.
	DefaultVolume = 0.5

	speakerLatency = 100 * time.Millisecond
)

// Output is where the player's mix is sent.
type Output interface {
	Start(s beep.Streamer) error
}

// HitPlayer is a collision.HitResponder that plays a preloaded buffer once
// per trigger. While the sound is playing further triggers are ignored.
type HitPlayer struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	buffer *beep.Buffer
	volume float64

	playing atomic.Bool
	plays   atomic.Uint64

	logger *logging.Logger
	ctx    context.Context
}

var _ collision.HitResponder = (*HitPlayer)(nil)

// NewHitPlayer creates a player for buffer at the given linear volume.
// logger may be nil.
func NewHitPlayer(buffer *beep.Buffer, volume float64, logger *logging.Logger) *HitPlayer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &HitPlayer{
		mixer:  &beep.Mixer{},
		buffer: buffer,
		volume: volume,
		logger: logger,
		ctx:    context.Background(),
	}
}

// SetContext sets the context whose session ID is attached to logs.
func (p *HitPlayer) SetContext(ctx context.Context) { p.ctx = ctx }

// Active reports whether the hit sound is still playing.
func (p *HitPlayer) Active() bool { return p.playing.Load() }

// Plays returns how many times the sound has started.
func (p *HitPlayer) Plays() uint64 { return p.plays.Load() }

// Trigger starts the hit sound unless it is already playing.
func (p *HitPlayer) Trigger(hit collision.Hit) {
	if p.buffer == nil || p.buffer.Len() == 0 {
		return
	}
	if !p.playing.CompareAndSwap(false, true) {
		return
	}
	p.plays.Add(1)

	sound := &effects.Volume{
		Streamer: p.buffer.Streamer(0, p.buffer.Len()),
		Base:     2,
		Volume:   math.Log2(p.volume),
		Silent:   p.volume <= 0,
	}
	done := beep.Callback(func() { p.playing.Store(false) })

	p.mu.Lock()
	p.mixer.Add(beep.Seq(sound, done))
	p.mu.Unlock()

	p.logger.Debug(p.ctx, "hit sound started",
		"vertex", hit.Vertex,
		"distance", hit.Distance,
		"tick", hit.Tick,
	)
}

// Stream mixes the active sounds. It never drains, so it can stay attached
// to an output for the life of the program.
func (p *HitPlayer) Stream(samples [][2]float64) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n, _ := p.mixer.Stream(samples)
	for i := n; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

// Err always returns nil.
func (p *HitPlayer) Err() error { return nil }

// Stop silences any playing sound.
func (p *HitPlayer) Stop() {
	p.mu.Lock()
	p.mixer.Clear()
	p.mu.Unlock()
	p.playing.Store(false)
}

// SpeakerOutput plays through the system audio device.
type SpeakerOutput struct {
	rate beep.SampleRate
}

// NewSpeakerOutput creates an output at rate.
func NewSpeakerOutput(rate beep.SampleRate) *SpeakerOutput {
	return &SpeakerOutput{rate: rate}
}

// Start initialises the speaker and plays s on it.
func (o *SpeakerOutput) Start(s beep.Streamer) error {
	if err := speaker.Init(o.rate, o.rate.N(speakerLatency)); err != nil {
		return logging.WrapError(err, "failed to initialise speaker")
	}
	speaker.Play(s)
	return nil
}

// Close stops everything playing on the speaker.
func (o *SpeakerOutput) Close() {
	speaker.Clear()
}

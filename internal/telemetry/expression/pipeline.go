package expression

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/internal/telemetry/window"
	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/pkg/types"
)

const (
	// DefaultInterval is the sampling period between detection ticks.
	DefaultInterval = 500 * time.Millisecond

	// historySize is the smoothing window: readings are averaged over the
	// last historySize samples.
	historySize = 10
)

// Config holds the pipeline dependencies. Source is required; a nil
// Detector puts the pipeline in fallback mode from the start.
type Config struct {
	Source   FrameSource
	Detector Detector
	Interval time.Duration
	Rand     *rand.Rand // synthesizer randomness, injectable for tests
	OnSample func(types.ExpressionSample)
	Now      func() time.Time
}

// Pipeline samples a frame at a fixed interval, scores it (or synthesizes a
// plausible sample when no detector is available), smooths over the recent
// history, and emits the smoothed reading.
type Pipeline struct {
	cfg   Config
	synth *synthesizer

	conf *window.Window
	eye  *window.Window
	eng  *window.Window

	mu       sync.Mutex
	running  bool
	degraded bool
	lastRaw  *types.ExpressionSample
	current  *types.ExpressionSample
	frames   int64

	cancel context.CancelFunc
	done   chan struct{}
}

func New(cfg Config) (*Pipeline, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("expression: frame source is required")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	p := &Pipeline{
		cfg:   cfg,
		synth: newSynthesizer(cfg.Rand),
		conf:  window.New(historySize),
		eye:   window.New(historySize),
		eng:   window.New(historySize),
	}
	if cfg.Detector == nil {
		p.degraded = true
	}
	return p, nil
}

// Start begins periodic sampling. Returns an error if already running.
func (p *Pipeline) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return fmt.Errorf("expression: pipeline already running")
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	go p.loop(ctx)
	return nil
}

// Stop cancels the sampling loop and waits for it to exit; no tick fires
// after Stop returns. Safe to call when not running.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	cancel()
	<-done
}

// CurrentReading returns the latest smoothed sample.
func (p *Pipeline) CurrentReading() (types.ExpressionSample, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return types.ExpressionSample{}, false
	}
	return *p.current, true
}

// Degraded reports whether the pipeline is running the fallback
// synthesizer because the detector is unavailable.
func (p *Pipeline) Degraded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.degraded
}

// Frames returns the number of samples produced so far.
func (p *Pipeline) Frames() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

// loop re-arms the timer only after a tick completes, so ticks never
// overlap even when detection is slow.
func (p *Pipeline) loop(ctx context.Context) {
	defer close(p.done)
	timer := time.NewTimer(p.cfg.Interval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		p.tick(ctx)
		timer.Reset(p.cfg.Interval)
	}
}

// tick runs one sampling pass. Skipped entirely while the video source is
// not ready. A no-face or transient detection failure leaves the smoothed
// reading unchanged.
func (p *Pipeline) tick(ctx context.Context) {
	if !p.cfg.Source.Ready() {
		return
	}
	now := p.cfg.Now()

	p.mu.Lock()
	degraded := p.degraded
	p.mu.Unlock()

	var sample types.ExpressionSample
	if degraded {
		sample = p.synthesize(now)
	} else {
		frame, ok := p.cfg.Source.Frame()
		if !ok {
			return
		}
		face, err := p.cfg.Detector.Detect(ctx, frame)
		switch {
		case errors.Is(err, ErrNoFace):
			return
		case errors.Is(err, ErrDetectorUnavailable):
			log.Printf("expression: detector unavailable, switching to fallback: %v", err)
			p.mu.Lock()
			p.degraded = true
			p.mu.Unlock()
			sample = p.synthesize(now)
		case err != nil:
			// Transient detection failure: skip smoothing this tick.
			return
		default:
			sample = scoreFace(face, now)
		}
	}

	p.conf.Push(sample.Confidence)
	p.eye.Push(sample.EyeContact)
	p.eng.Push(sample.Engagement)

	smoothed := types.ExpressionSample{
		Confidence:          p.conf.Mean(),
		EyeContact:          p.eye.Mean(),
		Emotion:             sample.Emotion,
		Engagement:          p.eng.Mean(),
		EmotionDistribution: sample.EmotionDistribution,
		CapturedAt:          sample.CapturedAt,
		Synthesized:         sample.Synthesized,
	}

	p.mu.Lock()
	p.lastRaw = &sample
	p.current = &smoothed
	p.frames++
	p.mu.Unlock()

	if p.cfg.OnSample != nil {
		p.cfg.OnSample(smoothed)
	}
}

func (p *Pipeline) synthesize(now time.Time) types.ExpressionSample {
	p.mu.Lock()
	prev := p.lastRaw
	p.mu.Unlock()
	if prev == nil {
		return p.synth.seed(now)
	}
	return p.synth.next(*prev, now)
}

package netquality

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/internal/telemetry/window"
	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/pkg/types"
)

const (
	// DefaultInterval is the probe period.
	DefaultInterval = 5 * time.Second

	// defaultLatency substitutes a failed probe so a single transport
	// error never stalls the estimator.
	defaultLatency = 50 * time.Millisecond

	// historySize is the jitter window over recent latencies.
	historySize = 10
)

// ConnInfo is host-reported connection metadata.
type ConnInfo struct {
	EffectiveType string
	DownlinkMbps  float64
}

// Connectivity exposes host connectivity status. Info's second return is
// false when the host exposes no connection metadata.
type Connectivity interface {
	Online() bool
	Info() (ConnInfo, bool)
}

// Config holds the estimator dependencies.
type Config struct {
	Conn     Connectivity
	Prober   Prober
	Interval time.Duration
	Now      func() time.Time
	OnSample func(types.NetworkQualitySample)
}

// Estimator periodically probes round-trip latency, combines it with
// connection metadata and rolling jitter into a single quality level.
type Estimator struct {
	cfg       Config
	latencies *window.Window

	mu      sync.Mutex
	running bool
	current *types.NetworkQualitySample

	cancel context.CancelFunc
	done   chan struct{}
}

func New(cfg Config) (*Estimator, error) {
	if cfg.Conn == nil {
		return nil, fmt.Errorf("netquality: connectivity source is required")
	}
	if cfg.Prober == nil {
		return nil, fmt.Errorf("netquality: prober is required")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Estimator{cfg: cfg, latencies: window.New(historySize)}, nil
}

// Activate runs one probe immediately, then one per interval. Returns an
// error if already active.
func (e *Estimator) Activate() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return fmt.Errorf("netquality: estimator already active")
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.done = make(chan struct{})
	e.running = true
	go e.loop(ctx)
	return nil
}

// Deactivate cancels the probe loop and waits for it to exit; no probe
// fires after Deactivate returns. Safe to call when not active.
func (e *Estimator) Deactivate() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	cancel, done := e.cancel, e.done
	e.mu.Unlock()

	cancel()
	<-done
}

// Current returns the latest quality sample.
func (e *Estimator) Current() (types.NetworkQualitySample, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return types.NetworkQualitySample{}, false
	}
	return *e.current, true
}

func (e *Estimator) loop(ctx context.Context) {
	defer close(e.done)
	// First probe immediately on activation.
	e.probe(ctx)
	timer := time.NewTimer(e.cfg.Interval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		e.probe(ctx)
		timer.Reset(e.cfg.Interval)
	}
}

// probe runs one measurement pass. Offline short-circuits before any
// latency measurement; a failed probe degrades to the default latency.
func (e *Estimator) probe(ctx context.Context) {
	now := e.cfg.Now()

	if !e.cfg.Conn.Online() {
		e.publish(types.NetworkQualitySample{
			Level:      LevelOffline,
			MeasuredAt: now.UnixMilli(),
		})
		return
	}

	rtt, err := e.cfg.Prober.Probe(ctx)
	if err != nil {
		rtt = defaultLatency
	}
	latencyMs := float64(rtt) / float64(time.Millisecond)
	e.latencies.Push(latencyMs)
	jitter := e.latencies.StdDev()

	effType := ""
	var bandwidth *float64
	if info, ok := e.cfg.Conn.Info(); ok {
		effType = info.EffectiveType
		if info.DownlinkMbps > 0 {
			b := info.DownlinkMbps
			bandwidth = &b
		}
	}

	const lossPct = 0 // no transport-level loss visibility
	score := combinedScore(latencyMs, effType, lossPct)

	e.publish(types.NetworkQualitySample{
		Level:         levelFor(score),
		LatencyMs:     int(math.Round(latencyMs)),
		JitterMs:      int(math.Round(jitter)),
		BandwidthMbps: bandwidth,
		PacketLossPct: lossPct,
		MeasuredAt:    now.UnixMilli(),
	})
}

func (e *Estimator) publish(s types.NetworkQualitySample) {
	e.mu.Lock()
	e.current = &s
	e.mu.Unlock()
	if e.cfg.OnSample != nil {
		e.cfg.OnSample(s)
	}
}

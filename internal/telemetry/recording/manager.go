package recording

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session states.
type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
	StatePaused    State = "paused"
	StateStopped   State = "stopped"
)

var (
	// ErrRecordingStart covers structural start failures: no stream, no
	// matching track, no codec, or the recorder rejecting. State is
	// unchanged when it is returned.
	ErrRecordingStart = errors.New("recording: start failed")

	// ErrRecordingRuntime marks a mid-session recorder failure. The
	// session is force-stopped with a best-effort artifact.
	ErrRecordingRuntime = errors.New("recording: runtime failure")
)

// Artifact is the finished result of a recording session.
type Artifact struct {
	Data            []byte
	Locator         string
	DurationSeconds int
	Codec           string
}

// Config holds the manager dependencies and callbacks.
type Config struct {
	Factory   RecorderFactory
	Supported func(codec string) bool
	Timeslice time.Duration // chunk flush hint passed to the recorder
	Now       func() time.Time

	// OnComplete receives the finished artifact after Stop (also after a
	// forced stop). An artifact with no chunks is still delivered.
	OnComplete func(Artifact)

	// OnError receives runtime failures (wrapped ErrRecordingRuntime).
	OnError func(error)

	// OnTick, if set, fires once per second with the elapsed seconds
	// while recording. Frozen while paused.
	OnTick func(seconds int)
}

// Manager drives the idle -> recording <-> paused -> stopped -> idle
// lifecycle of one capture session at a time. Chunk accumulation is
// append-only and order-preserving.
type Manager struct {
	cfg Config

	mu          sync.Mutex
	state       State
	mode        Mode
	codec       string
	rec         Recorder
	startedAt   time.Time // session epoch, wall clock
	activeSince time.Time
	accumulated time.Duration
	artifact    *Artifact

	tickCancel chan struct{}
	tickDone   chan struct{}

	chunkMu   sync.Mutex
	accepting bool
	chunks    [][]byte
}

func NewManager(cfg Config) *Manager {
	if cfg.Factory == nil {
		cfg.Factory = func(_ *Stream, _ string, _ func([]byte), _ func(error)) (Recorder, error) {
			return nil, fmt.Errorf("no recorder factory configured")
		}
	}
	if cfg.Timeslice <= 0 {
		cfg.Timeslice = time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Manager{cfg: cfg, state: StateIdle}
}

// Start negotiates a codec, resets the chunk buffer, and transitions to
// recording. On any failure state is unchanged and the error wraps
// ErrRecordingStart (or ErrUnsupportedCodec for a codec mismatch).
func (m *Manager) Start(stream *Stream, mode Mode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateRecording || m.state == StatePaused {
		return fmt.Errorf("%w: session already active", ErrRecordingStart)
	}
	if stream == nil {
		return fmt.Errorf("%w: no stream", ErrRecordingStart)
	}
	if !stream.HasLive(TrackAudio) {
		return fmt.Errorf("%w: no live audio track", ErrRecordingStart)
	}
	if mode == ModeAudioVideo && !stream.HasLive(TrackVideo) {
		return fmt.Errorf("%w: no live video track", ErrRecordingStart)
	}

	codec, err := Negotiate(m.cfg.Supported, PreferredCodecs(mode))
	if err != nil {
		return err
	}

	target := stream
	if mode == ModeAudio {
		target = stream.DeriveAudio()
	}

	rec, err := m.cfg.Factory(target, codec, m.appendChunk, m.runtimeError)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRecordingStart, err)
	}

	m.chunkMu.Lock()
	m.chunks = nil
	m.accepting = true
	m.chunkMu.Unlock()

	if err := rec.Start(m.cfg.Timeslice); err != nil {
		m.chunkMu.Lock()
		m.accepting = false
		m.chunkMu.Unlock()
		return fmt.Errorf("%w: recorder rejected: %v", ErrRecordingStart, err)
	}

	now := m.cfg.Now()
	m.state = StateRecording
	m.mode = mode
	m.codec = codec
	m.rec = rec
	m.startedAt = now
	m.activeSince = now
	m.accumulated = 0
	m.artifact = nil
	m.startTickerLocked()
	return nil
}

// Pause freezes the elapsed counter. No-op unless recording.
func (m *Manager) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateRecording {
		return
	}
	_ = m.rec.Pause()
	m.accumulated += m.cfg.Now().Sub(m.activeSince)
	m.state = StatePaused
}

// Resume restarts the elapsed counter. No-op unless paused.
func (m *Manager) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StatePaused {
		return
	}
	_ = m.rec.Resume()
	m.activeSince = m.cfg.Now()
	m.state = StateRecording
}

// Stop flushes buffered data, assembles the artifact, and transitions to
// stopped. No-op (nil artifact, no error) unless recording or paused.
func (m *Manager) Stop() (*Artifact, error) {
	m.mu.Lock()
	if m.state != StateRecording && m.state != StatePaused {
		m.mu.Unlock()
		return nil, nil
	}
	if m.state == StateRecording {
		m.accumulated += m.cfg.Now().Sub(m.activeSince)
	}
	// Transition before releasing the lock so a concurrent Pause, Stop, or
	// recorder runtime failure cannot pass the state check again.
	m.state = StateStopped
	rec := m.rec
	m.mu.Unlock()

	// Flush outside the lock: the recorder may deliver synchronously.
	rec.RequestData()
	if err := rec.Stop(); err != nil {
		log.Printf("recording: recorder stop: %v", err)
	}

	art := m.finalize()
	if m.cfg.OnComplete != nil {
		m.cfg.OnComplete(*art)
	}
	return art, nil
}

// Clear releases the artifact and chunk buffer and returns to idle. Safe
// from any state; an active session is stopped and discarded.
func (m *Manager) Clear() {
	m.mu.Lock()
	rec := m.rec
	active := m.state == StateRecording || m.state == StatePaused
	m.mu.Unlock()

	if active && rec != nil {
		_ = rec.Stop()
	}

	m.chunkMu.Lock()
	m.accepting = false
	m.chunks = nil
	m.chunkMu.Unlock()

	m.mu.Lock()
	cancel, done := m.detachTickerLocked()
	m.state = StateIdle
	m.mode = ""
	m.codec = ""
	m.rec = nil
	m.accumulated = 0
	m.artifact = nil
	m.mu.Unlock()
	stopTicker(cancel, done)
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Mode returns the active session's mode, if any.
func (m *Manager) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// Codec returns the negotiated codec, if any.
func (m *Manager) Codec() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codec
}

// StartedAt returns when the active or stopped session began.
func (m *Manager) StartedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startedAt
}

// Elapsed returns whole recorded seconds, excluding paused time.
func (m *Manager) Elapsed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.elapsedLocked()
}

func (m *Manager) elapsedLocked() int {
	d := m.accumulated
	if m.state == StateRecording {
		d += m.cfg.Now().Sub(m.activeSince)
	}
	return int(d / time.Second)
}

// CurrentArtifact returns the finished artifact after a stop.
func (m *Manager) CurrentArtifact() (*Artifact, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.artifact == nil {
		return nil, false
	}
	a := *m.artifact
	return &a, true
}

// appendChunk is the recorder data callback. Append-only, order-preserving.
func (m *Manager) appendChunk(chunk []byte) {
	m.chunkMu.Lock()
	defer m.chunkMu.Unlock()
	if !m.accepting {
		return
	}
	m.chunks = append(m.chunks, chunk)
}

// runtimeError is the recorder error callback: force a best-effort stop
// with whatever chunks were captured, then surface the failure.
func (m *Manager) runtimeError(cause error) {
	m.mu.Lock()
	if m.state != StateRecording && m.state != StatePaused {
		m.mu.Unlock()
		return
	}
	if m.state == StateRecording {
		m.accumulated += m.cfg.Now().Sub(m.activeSince)
	}
	// Same rule as Stop: stopped before unlocking, so later entrants no-op.
	m.state = StateStopped
	rec := m.rec
	m.mu.Unlock()

	if rec != nil {
		_ = rec.Stop()
	}

	art := m.finalize()
	err := fmt.Errorf("%w: %v", ErrRecordingRuntime, cause)
	log.Printf("recording: %v (kept %d bytes)", err, len(art.Data))
	if m.cfg.OnError != nil {
		m.cfg.OnError(err)
	}
	if m.cfg.OnComplete != nil {
		m.cfg.OnComplete(*art)
	}
}

// finalize concatenates all delivered chunks in delivery order, tags the
// artifact, and moves to stopped.
func (m *Manager) finalize() *Artifact {
	m.chunkMu.Lock()
	m.accepting = false
	var size int
	for _, c := range m.chunks {
		size += len(c)
	}
	data := make([]byte, 0, size)
	for _, c := range m.chunks {
		data = append(data, c...)
	}
	m.chunkMu.Unlock()

	m.mu.Lock()
	art := &Artifact{
		Data:            data,
		Locator:         "rec_" + uuid.NewString(),
		DurationSeconds: int(m.accumulated / time.Second),
		Codec:           m.codec,
	}
	m.artifact = art
	m.state = StateStopped
	cancel, done := m.detachTickerLocked()
	m.mu.Unlock()
	stopTicker(cancel, done)

	a := *art
	return &a
}

func (m *Manager) startTickerLocked() {
	if m.cfg.OnTick == nil {
		return
	}
	cancel := make(chan struct{})
	done := make(chan struct{})
	m.tickCancel = cancel
	m.tickDone = done
	go func() {
		defer close(done)
		t := time.NewTicker(time.Second)
		defer t.Stop()
		for {
			select {
			case <-cancel:
				return
			case <-t.C:
				m.mu.Lock()
				recording := m.state == StateRecording
				elapsed := m.elapsedLocked()
				m.mu.Unlock()
				if recording {
					m.cfg.OnTick(elapsed)
				}
			}
		}
	}()
}

// detachTickerLocked hands the ticker channels to the caller, which must
// stop them outside the lock (the ticker goroutine takes mu).
func (m *Manager) detachTickerLocked() (cancel, done chan struct{}) {
	cancel, done = m.tickCancel, m.tickDone
	m.tickCancel = nil
	m.tickDone = nil
	return cancel, done
}

// stopTicker cancels the counter goroutine and waits for it to exit, so no
// tick fires after the owning stop call returns.
func stopTicker(cancel, done chan struct{}) {
	if cancel == nil {
		return
	}
	close(cancel)
	<-done
}

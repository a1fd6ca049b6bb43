package recording

import (
	"sync"
	"time"
)

// Recorder is the underlying capture runtime driven by the Manager (the
// browser MediaRecorder analogue). Chunk and error delivery happen through
// the callbacks the factory binds; delivery order must be preserved.
type Recorder interface {
	Start(timeslice time.Duration) error
	Pause() error
	Resume() error
	// RequestData flushes any buffered-but-undelivered chunk.
	RequestData()
	Stop() error
}

// RecorderFactory creates a recorder for a negotiated codec against a
// stream, with manager-owned data/error callbacks.
type RecorderFactory func(stream *Stream, codec string, onData func([]byte), onError func(error)) (Recorder, error)

// RemoteRecorder is a Recorder fed by a remote capture runtime: the actual
// encoder runs in the client and ships chunks over the transport, which
// forwards them through Ingest.
type RemoteRecorder struct {
	mu      sync.Mutex
	running bool
	paused  bool
	pending [][]byte
	onData  func([]byte)
	onError func(error)
}

func NewRemoteRecorder() *RemoteRecorder {
	return &RemoteRecorder{}
}

// Factory returns a RecorderFactory that binds the manager's callbacks to
// this recorder.
func (r *RemoteRecorder) Factory() RecorderFactory {
	return func(_ *Stream, _ string, onData func([]byte), onError func(error)) (Recorder, error) {
		r.mu.Lock()
		r.onData = onData
		r.onError = onError
		r.pending = nil
		r.mu.Unlock()
		return r, nil
	}
}

// Ingest accepts one chunk from the transport. Chunks arriving while
// paused are buffered and flushed on resume so none is dropped or
// reordered.
func (r *RemoteRecorder) Ingest(chunk []byte) {
	c := make([]byte, len(chunk))
	copy(c, chunk)

	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	if r.paused {
		r.pending = append(r.pending, c)
		r.mu.Unlock()
		return
	}
	deliver := r.onData
	r.mu.Unlock()
	if deliver != nil {
		deliver(c)
	}
}

// Fail surfaces a transport-level failure as a recorder runtime error.
func (r *RemoteRecorder) Fail(err error) {
	r.mu.Lock()
	running, onError := r.running, r.onError
	r.mu.Unlock()
	if running && onError != nil {
		onError(err)
	}
}

func (r *RemoteRecorder) Start(_ time.Duration) error {
	r.mu.Lock()
	r.running = true
	r.paused = false
	r.mu.Unlock()
	return nil
}

func (r *RemoteRecorder) Pause() error {
	r.mu.Lock()
	r.paused = true
	r.mu.Unlock()
	return nil
}

func (r *RemoteRecorder) Resume() error {
	r.mu.Lock()
	r.paused = false
	r.mu.Unlock()
	r.RequestData()
	return nil
}

// RequestData flushes chunks buffered during pause, in arrival order.
func (r *RemoteRecorder) RequestData() {
	r.mu.Lock()
	pending := r.pending
	r.pending = nil
	deliver := r.onData
	r.mu.Unlock()
	if deliver == nil {
		return
	}
	for _, c := range pending {
		deliver(c)
	}
}

func (r *RemoteRecorder) Stop() error {
	r.RequestData()
	r.mu.Lock()
	r.running = false
	r.paused = false
	r.mu.Unlock()
	return nil
}

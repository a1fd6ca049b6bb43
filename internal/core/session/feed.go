package session

import (
	"sync"
	"time"

	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/internal/telemetry/expression"
	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/internal/telemetry/netquality"
)

// Feed is the per-session signal mailbox the websocket handler writes into.
// It adapts client-shipped state to the telemetry capability interfaces:
// expression.FrameSource (latest camera frame) and netquality.Connectivity
// (host-reported connectivity metadata).
type Feed struct {
	mu       sync.RWMutex
	ready    bool
	frame    expression.Frame
	hasFrame bool
	online   bool
	info     netquality.ConnInfo
	hasInfo  bool
}

func NewFeed() *Feed {
	// Online until the client reports otherwise.
	return &Feed{online: true}
}

// SetFrame stores the latest camera frame and marks the source ready.
func (f *Feed) SetFrame(data []byte, mime string) {
	f.mu.Lock()
	f.frame = expression.Frame{Data: data, MIME: mime, CapturedAt: time.Now()}
	f.hasFrame = true
	f.ready = true
	f.mu.Unlock()
}

// SetReady flips source readiness; the handler clears it on disconnect so
// the pipeline stops sampling a dead source.
func (f *Feed) SetReady(ready bool) {
	f.mu.Lock()
	f.ready = ready
	f.mu.Unlock()
}

// SetNetInfo stores host connectivity metadata.
func (f *Feed) SetNetInfo(online bool, effectiveType string, downlinkMbps float64) {
	f.mu.Lock()
	f.online = online
	f.info = netquality.ConnInfo{EffectiveType: effectiveType, DownlinkMbps: downlinkMbps}
	f.hasInfo = effectiveType != "" || downlinkMbps > 0
	f.mu.Unlock()
}

func (f *Feed) Ready() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.ready
}

func (f *Feed) Frame() (expression.Frame, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.frame, f.hasFrame
}

func (f *Feed) Online() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.online
}

func (f *Feed) Info() (netquality.ConnInfo, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.info, f.hasInfo
}

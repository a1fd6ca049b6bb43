package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/internal/repo/memory"
	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/internal/telemetry/expression"
	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/internal/telemetry/netquality"
	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/internal/telemetry/recording"
	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/pkg/types"
	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/pkg/ws"
)

// defaultClientCodecs is assumed when the client does not report what its
// capture runtime supports.
var defaultClientCodecs = []string{
	"audio/webm;codecs=opus",
	"audio/webm",
	"video/webm;codecs=vp8,opus",
	"video/webm",
}

// Session is one practice run: it owns the three telemetry components and
// the capture-side plumbing they observe.
type Session struct {
	ID        string
	CreatedAt time.Time
	Mode      string
	Locale    string
	Device    map[string]string
	Consent   map[string]bool

	Feed      *Feed
	Recorder  *recording.RemoteRecorder
	Pipeline  *expression.Pipeline
	Manager   *recording.Manager
	Estimator *netquality.Estimator

	stream *recording.Stream
}

// Options configures the service-wide telemetry parameters.
type Options struct {
	Detector           expression.Detector // nil runs all pipelines in fallback mode
	ProbeURL           string
	Prober             netquality.Prober // overrides ProbeURL when set
	ExpressionInterval time.Duration
	ProbeInterval      time.Duration
}

// Service creates and owns practice sessions.
type Service struct {
	repo *memory.SessionRepo[*Session]
	hub  *ws.Hub
	opts Options
}

func NewService(repo *memory.SessionRepo[*Session], hub *ws.Hub, opts Options) *Service {
	return &Service{repo: repo, hub: hub, opts: opts}
}

// Degraded reports whether sessions run without a real detector.
func (s *Service) Degraded() bool {
	return s.opts.Detector == nil
}

// Create builds a session, wires the telemetry callbacks into the ws hub,
// and starts the expression pipeline and the network estimator.
func (s *Service) Create(req types.CreateSessionReq) (*Session, error) {
	id := "sess_" + uuid.NewString()
	feed := NewFeed()
	rec := recording.NewRemoteRecorder()

	clientCodecs := req.SupportedCodecs
	if len(clientCodecs) == 0 {
		clientCodecs = defaultClientCodecs
	}
	supported := map[string]bool{}
	for _, c := range clientCodecs {
		supported[c] = true
	}

	mode := req.Mode
	if mode == "" {
		mode = string(recording.ModeAudioVideo)
	}
	stream := &recording.Stream{ID: id, Tracks: []recording.Track{
		{ID: id + "/audio", Kind: recording.TrackAudio, Live: true},
	}}
	if mode != string(recording.ModeAudio) {
		stream.Tracks = append(stream.Tracks, recording.Track{
			ID: id + "/video", Kind: recording.TrackVideo, Live: true,
		})
	}

	pipeline, err := expression.New(expression.Config{
		Source:   feed,
		Detector: s.opts.Detector,
		Interval: s.opts.ExpressionInterval,
		OnSample: func(sample types.ExpressionSample) {
			_ = s.hub.Send(id, map[string]interface{}{"type": "expression", "data": sample})
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	manager := recording.NewManager(recording.Config{
		Factory:   rec.Factory(),
		Supported: func(c string) bool { return supported[c] },
		OnComplete: func(a recording.Artifact) {
			_ = s.hub.Send(id, map[string]interface{}{
				"type": "recording_complete",
				"data": artifactMeta(&a),
			})
		},
		OnError: func(err error) {
			_ = s.hub.Send(id, map[string]interface{}{
				"type":  "recording_error",
				"error": err.Error(),
			})
		},
		OnTick: func(seconds int) {
			_ = s.hub.Send(id, map[string]interface{}{"type": "recording_tick", "elapsed_s": seconds})
		},
	})

	prober := s.opts.Prober
	if prober == nil {
		prober = netquality.NewHTTPProber(s.opts.ProbeURL)
	}
	estimator, err := netquality.New(netquality.Config{
		Conn:     feed,
		Prober:   prober,
		Interval: s.opts.ProbeInterval,
		OnSample: func(sample types.NetworkQualitySample) {
			_ = s.hub.Send(id, map[string]interface{}{"type": "network", "data": sample})
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	sess := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		Mode:      mode,
		Locale:    req.Locale,
		Device:    req.Device,
		Consent:   req.Consent,
		Feed:      feed,
		Recorder:  rec,
		Pipeline:  pipeline,
		Manager:   manager,
		Estimator: estimator,
		stream:    stream,
	}

	if err := pipeline.Start(); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if err := estimator.Activate(); err != nil {
		pipeline.Stop()
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.repo.Save(id, sess)
	return sess, nil
}

func (s *Service) Get(id string) (*Session, bool) {
	return s.repo.Get(id)
}

// Close stops all three components and removes the session. Teardown runs
// in reverse creation order.
func (s *Service) Close(id string) bool {
	sess, ok := s.repo.Get(id)
	if !ok {
		return false
	}
	sess.Estimator.Deactivate()
	sess.Manager.Clear()
	sess.Pipeline.Stop()
	s.repo.Delete(id)
	return true
}

// StartRecording begins a capture session against the session's stream.
func (s *Service) StartRecording(id, mode string) error {
	sess, ok := s.repo.Get(id)
	if !ok {
		return fmt.Errorf("%w: unknown session", recording.ErrRecordingStart)
	}
	m := recording.Mode(mode)
	if m == "" {
		m = recording.Mode(sess.Mode)
	}
	return sess.Manager.Start(sess.stream, m)
}

func (s *Service) Summary(id string) (types.SummaryResp, bool) {
	sess, ok := s.repo.Get(id)
	if !ok {
		return types.SummaryResp{}, false
	}
	out := types.SummaryResp{
		SessionID:      sess.ID,
		FramesAnalyzed: sess.Pipeline.Frames(),
		Degraded:       sess.Pipeline.Degraded(),
		Recording: types.RecordingStatus{
			State:          string(sess.Manager.State()),
			Mode:           string(sess.Manager.Mode()),
			Codec:          sess.Manager.Codec(),
			ElapsedSeconds: sess.Manager.Elapsed(),
		},
	}
	if r, ok := sess.Pipeline.CurrentReading(); ok {
		out.Expression = &r
	}
	if n, ok := sess.Estimator.Current(); ok {
		out.Network = &n
	}
	if a, ok := sess.Manager.CurrentArtifact(); ok {
		out.Recording.Artifact = artifactMeta(a)
	}
	return out, true
}

func artifactMeta(a *recording.Artifact) *types.ArtifactMeta {
	return &types.ArtifactMeta{
		Locator:         a.Locator,
		DurationSeconds: a.DurationSeconds,
		Codec:           a.Codec,
		SizeBytes:       len(a.Data),
	}
}

package expression

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/pkg/types"
)

type fakeSource struct {
	ready bool
	frame Frame
	has   bool
}

func (f *fakeSource) Ready() bool          { return f.ready }
func (f *fakeSource) Frame() (Frame, bool) { return f.frame, f.has }

// fakeDetector returns queued results in order, repeating the last one.
type fakeDetector struct {
	faces []*Face
	errs  []error
	calls int
}

func (f *fakeDetector) Detect(_ context.Context, _ Frame) (*Face, error) {
	i := f.calls
	if i >= len(f.faces) {
		i = len(f.faces) - 1
	}
	f.calls++
	return f.faces[i], f.errs[i]
}

func faceWithEmotions(emotions map[string]float64) *Face {
	return &Face{Landmarks: testLandmarks(50), Emotions: emotions}
}

func newTestPipeline(t *testing.T, det Detector) *Pipeline {
	t.Helper()
	p, err := New(Config{
		Source:   &fakeSource{ready: true, has: true},
		Detector: det,
		Rand:     rand.New(rand.NewSource(1)),
	})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestSmoothedConfidenceIsWindowMean(t *testing.T) {
	faces := []*Face{
		faceWithEmotions(map[string]float64{"happy": 0.2}),
		faceWithEmotions(map[string]float64{"happy": 0.6}),
		faceWithEmotions(map[string]float64{"happy": 1.0}),
	}
	det := &fakeDetector{faces: faces, errs: []error{nil, nil, nil}}
	p := newTestPipeline(t, det)

	var want float64
	for _, f := range faces {
		want += confidenceScore(f.Emotions)
	}
	want /= 3

	for i := 0; i < 3; i++ {
		p.tick(context.Background())
	}
	got, ok := p.CurrentReading()
	if !ok {
		t.Fatal("no reading after three ticks")
	}
	if math.Abs(got.Confidence-want) > 1e-9 {
		t.Errorf("smoothed confidence = %v, want %v", got.Confidence, want)
	}
	if got.Synthesized {
		t.Error("detector-backed reading marked synthesized")
	}
}

func TestNoFaceLeavesReadingUnchanged(t *testing.T) {
	det := &fakeDetector{
		faces: []*Face{faceWithEmotions(map[string]float64{"happy": 1}), nil, nil, nil},
		errs:  []error{nil, ErrNoFace, ErrNoFace, ErrNoFace},
	}
	p := newTestPipeline(t, det)

	p.tick(context.Background())
	before, ok := p.CurrentReading()
	if !ok {
		t.Fatal("no reading after first tick")
	}
	for i := 0; i < 3; i++ {
		p.tick(context.Background())
	}
	after, _ := p.CurrentReading()
	if !sameReading(after, before) {
		t.Errorf("reading changed across no-face ticks: %+v -> %+v", before, after)
	}
	if p.Frames() != 1 {
		t.Errorf("Frames = %d, want 1", p.Frames())
	}
}

func sameReading(a, b types.ExpressionSample) bool {
	return a.Confidence == b.Confidence && a.EyeContact == b.EyeContact &&
		a.Engagement == b.Engagement && a.Emotion == b.Emotion && a.CapturedAt == b.CapturedAt
}

func TestTransientFailureSkipsTick(t *testing.T) {
	det := &fakeDetector{
		faces: []*Face{nil},
		errs:  []error{errors.New("upstream timeout")},
	}
	p := newTestPipeline(t, det)
	p.tick(context.Background())
	if _, ok := p.CurrentReading(); ok {
		t.Error("transient failure produced a reading")
	}
	if p.Degraded() {
		t.Error("transient failure flipped pipeline to degraded mode")
	}
}

func TestDetectorUnavailableSwitchesToFallback(t *testing.T) {
	det := &fakeDetector{faces: []*Face{nil}, errs: []error{ErrDetectorUnavailable}}
	p := newTestPipeline(t, det)
	p.tick(context.Background())
	if !p.Degraded() {
		t.Fatal("pipeline not degraded after ErrDetectorUnavailable")
	}
	got, ok := p.CurrentReading()
	if !ok {
		t.Fatal("fallback produced no reading")
	}
	if !got.Synthesized {
		t.Error("fallback reading not marked synthesized")
	}
	// Subsequent ticks synthesize without touching the detector again.
	calls := det.calls
	p.tick(context.Background())
	if det.calls != calls {
		t.Error("degraded pipeline still calling detector")
	}
}

func TestNilDetectorRunsFallbackFromStart(t *testing.T) {
	p := newTestPipeline(t, nil)
	if !p.Degraded() {
		t.Fatal("nil detector should start degraded")
	}
	for i := 0; i < 20; i++ {
		p.tick(context.Background())
		got, ok := p.CurrentReading()
		if !ok {
			t.Fatal("no reading")
		}
		for name, v := range map[string]float64{
			"confidence": got.Confidence, "eye": got.EyeContact, "engagement": got.Engagement,
		} {
			if v < 0 || v > 100 {
				t.Fatalf("tick %d: %s = %v, out of [0,100]", i, name, v)
			}
		}
	}
}

func TestTickSkippedWhileSourceNotReady(t *testing.T) {
	src := &fakeSource{ready: false, has: true}
	p, err := New(Config{Source: src, Rand: rand.New(rand.NewSource(1))})
	if err != nil {
		t.Fatal(err)
	}
	p.tick(context.Background())
	if _, ok := p.CurrentReading(); ok {
		t.Error("tick produced a reading while source not ready")
	}
	src.ready = true
	p.tick(context.Background())
	if _, ok := p.CurrentReading(); !ok {
		t.Error("no reading once source became ready")
	}
}

func TestStartStop(t *testing.T) {
	var emitted int
	done := make(chan struct{}, 64)
	p, err := New(Config{
		Source:   &fakeSource{ready: true, has: true},
		Interval: 5 * time.Millisecond,
		Rand:     rand.New(rand.NewSource(1)),
		OnSample: func(types.ExpressionSample) {
			emitted++
			select {
			case done <- struct{}{}:
			default:
			}
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Start(); err != nil {
		t.Fatal(err)
	}
	if err := p.Start(); err == nil {
		t.Error("second Start did not fail")
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("no sample emitted")
	}
	p.Stop()
	after := emitted
	time.Sleep(30 * time.Millisecond)
	if emitted != after {
		t.Error("tick fired after Stop returned")
	}
	p.Stop() // idempotent
}

package expression

import (
	"context"
	"errors"
	"time"
)

// Raw emotion labels as emitted by face detectors. Scanned left to right;
// argmax ties keep the first-seen winner.
var rawEmotions = []string{"neutral", "happy", "sad", "angry", "fearful", "disgusted", "surprised"}

var (
	// ErrNoFace is returned by a Detector when the frame contains no face.
	// A no-face tick leaves the smoothed reading unchanged.
	ErrNoFace = errors.New("expression: no face detected")

	// ErrDetectorUnavailable marks a permanent detector failure. The
	// pipeline switches to the fallback synthesizer for the rest of its
	// lifetime when it sees this.
	ErrDetectorUnavailable = errors.New("expression: detector unavailable")
)

// Landmark is one point of the 68-point face model.
type Landmark struct {
	X float64
	Y float64
}

// Face is a single detection result: the 68 landmark points and a
// probability per raw emotion label (0..1).
type Face struct {
	Landmarks []Landmark
	Emotions  map[string]float64
}

// Frame is one captured camera frame.
type Frame struct {
	Data       []byte
	MIME       string
	CapturedAt time.Time
}

// FrameSource provides the latest camera frame. Ready reports whether the
// video source is active; ticks are skipped while it is not.
type FrameSource interface {
	Ready() bool
	Frame() (Frame, bool)
}

// Detector turns a frame into at most one face. Implementations are opaque
// to the pipeline; the bundled one is backed by Gemini (geminidet).
type Detector interface {
	Detect(ctx context.Context, frame Frame) (*Face, error)
}

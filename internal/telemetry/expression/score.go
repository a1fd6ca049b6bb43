package expression

import (
	"math"
	"time"

	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/pkg/types"
)

// Landmark index ranges of the 68-point model.
const (
	leftEyeStart  = 36
	leftEyeEnd    = 42
	rightEyeStart = 42
	rightEyeEnd   = 48
	noseStart     = 27
	noseEnd       = 36
)

// reportedLabel maps raw detector labels to the reported vocabulary.
var reportedLabel = map[string]types.Emotion{
	"neutral":   types.EmotionNeutral,
	"happy":     types.EmotionHappy,
	"sad":       types.EmotionSad,
	"angry":     types.EmotionAngry,
	"fearful":   types.EmotionNervous,
	"disgusted": types.EmotionDisgusted,
	"surprised": types.EmotionSurprised,
}

func clamp(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

func centroid(pts []Landmark) Landmark {
	var c Landmark
	for _, p := range pts {
		c.X += p.X
		c.Y += p.Y
	}
	n := float64(len(pts))
	c.X /= n
	c.Y /= n
	return c
}

// eyeContactScore estimates gaze centering from landmark geometry: the
// nose's horizontal offset from the eye midpoint, normalized by inter-eye
// distance (weight 0.7), combined with vertical eye-level symmetry
// (weight 0.3).
func eyeContactScore(landmarks []Landmark) float64 {
	if len(landmarks) < rightEyeEnd {
		return 0
	}
	left := centroid(landmarks[leftEyeStart:leftEyeEnd])
	right := centroid(landmarks[rightEyeStart:rightEyeEnd])
	nose := centroid(landmarks[noseStart:noseEnd])

	interEye := math.Hypot(right.X-left.X, right.Y-left.Y)
	if interEye == 0 {
		return 0
	}
	midX := (left.X + right.X) / 2

	offset := math.Abs(nose.X-midX) / interEye
	centering := 100 * (1 - math.Min(1, offset/0.5))

	tilt := math.Abs(left.Y-right.Y) / interEye
	symmetry := 100 * (1 - math.Min(1, tilt/0.25))

	return clamp(0.7*centering + 0.3*symmetry)
}

// confidenceScore derives a confidence estimate from the raw emotion
// distribution: positive signal from happy/neutral, negative from
// fearful/sad/angry.
func confidenceScore(emotions map[string]float64) float64 {
	pos := 0.4*emotions["happy"] + 0.3*emotions["neutral"]
	neg := 0.5*emotions["fearful"] + 0.3*emotions["sad"] + 0.2*emotions["angry"]
	return clamp(50 + 50*pos - 50*neg)
}

// dominantEmotion returns the argmax of the distribution mapped to the
// reported vocabulary. A single left-to-right scan keeps the first-seen
// winner on ties.
func dominantEmotion(emotions map[string]float64) types.Emotion {
	best := rawEmotions[0]
	bestP := emotions[best]
	for _, label := range rawEmotions[1:] {
		if p := emotions[label]; p > bestP {
			best, bestP = label, p
		}
	}
	return reportedLabel[best]
}

// engagementScore blends eye contact, confidence, and emotional
// expressiveness (count of emotion classes above 0.1 probability).
func engagementScore(eyeContact, confidence float64, emotions map[string]float64) float64 {
	active := 0
	for _, label := range rawEmotions {
		if emotions[label] > 0.1 {
			active++
		}
	}
	variety := 100 * float64(active) / float64(len(rawEmotions))
	return clamp(0.4*eyeContact + 0.4*confidence + 0.2*variety)
}

// scoreFace builds a sample from one detection result.
func scoreFace(face *Face, at time.Time) types.ExpressionSample {
	eye := eyeContactScore(face.Landmarks)
	conf := confidenceScore(face.Emotions)
	dist := make(map[types.Emotion]float64, len(rawEmotions))
	for _, label := range rawEmotions {
		dist[reportedLabel[label]] = clamp(100 * face.Emotions[label])
	}
	return types.ExpressionSample{
		Confidence:          conf,
		EyeContact:          eye,
		Emotion:             dominantEmotion(face.Emotions),
		Engagement:          engagementScore(eye, conf, face.Emotions),
		EmotionDistribution: dist,
		CapturedAt:          at.UnixMilli(),
		Synthesized:         false,
	}
}

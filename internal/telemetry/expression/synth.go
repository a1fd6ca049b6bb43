package expression

import (
	"math/rand"
	"time"

	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/pkg/types"
)

// Per-tick random walk bounds for the fallback synthesizer.
const (
	confidenceDelta = 4
	eyeContactDelta = 5
	engagementDelta = 3
	emotionSwitchP  = 0.1
)

// plausibleEmotions is the set the synthesizer may drift into. Deliberately
// excludes the strongly negative labels so degraded mode stays believable.
var plausibleEmotions = []types.Emotion{
	types.EmotionNeutral,
	types.EmotionHappy,
	types.EmotionThinking,
	types.EmotionNervous,
	types.EmotionSurprised,
}

// synthesizer produces plausible samples when no detector is available.
// The random source is injected so tests can pin the walk.
type synthesizer struct {
	rnd *rand.Rand
}

func newSynthesizer(rnd *rand.Rand) *synthesizer {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &synthesizer{rnd: rnd}
}

// seed is the sample the walk starts from when there is no previous one.
func (s *synthesizer) seed(at time.Time) types.ExpressionSample {
	return types.ExpressionSample{
		Confidence:          70,
		EyeContact:          65,
		Emotion:             types.EmotionNeutral,
		Engagement:          68,
		EmotionDistribution: s.distribution(types.EmotionNeutral),
		CapturedAt:          at.UnixMilli(),
		Synthesized:         true,
	}
}

// next perturbs the previous sample by a bounded delta per field, clamped
// to [0,100]. The emotion persists except for a low-probability switch into
// the plausible set.
func (s *synthesizer) next(prev types.ExpressionSample, at time.Time) types.ExpressionSample {
	emotion := prev.Emotion
	if s.rnd.Float64() < emotionSwitchP {
		emotion = plausibleEmotions[s.rnd.Intn(len(plausibleEmotions))]
	}
	return types.ExpressionSample{
		Confidence:          clamp(prev.Confidence + s.delta(confidenceDelta)),
		EyeContact:          clamp(prev.EyeContact + s.delta(eyeContactDelta)),
		Emotion:             emotion,
		Engagement:          clamp(prev.Engagement + s.delta(engagementDelta)),
		EmotionDistribution: s.distribution(emotion),
		CapturedAt:          at.UnixMilli(),
		Synthesized:         true,
	}
}

// delta returns a uniform value in [-bound, +bound].
func (s *synthesizer) delta(bound float64) float64 {
	return (s.rnd.Float64()*2 - 1) * bound
}

// distribution fakes a distribution peaked at the current emotion with the
// remainder spread over the rest of the vocabulary.
func (s *synthesizer) distribution(dominant types.Emotion) map[types.Emotion]float64 {
	all := []types.Emotion{
		types.EmotionNeutral, types.EmotionHappy, types.EmotionSad,
		types.EmotionAngry, types.EmotionSurprised, types.EmotionNervous,
		types.EmotionDisgusted, types.EmotionThinking,
	}
	peak := 55 + s.rnd.Float64()*20
	rest := (100 - peak) / float64(len(all)-1)
	dist := make(map[types.Emotion]float64, len(all))
	for _, e := range all {
		if e == dominant {
			dist[e] = peak
		} else {
			dist[e] = rest
		}
	}
	return dist
}

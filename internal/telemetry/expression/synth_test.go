package expression

import (
	"math/rand"
	"testing"
	"time"

	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/pkg/types"
)

func TestSynthesizerStaysInBounds(t *testing.T) {
	s := newSynthesizer(rand.New(rand.NewSource(1)))
	now := time.Now()

	// Walk from the extremes; no step may leave [0,100].
	for _, start := range []float64{0, 100} {
		prev := types.ExpressionSample{
			Confidence: start,
			EyeContact: start,
			Engagement: start,
			Emotion:    types.EmotionNeutral,
		}
		for i := 0; i < 500; i++ {
			next := s.next(prev, now)
			for name, v := range map[string]float64{
				"confidence": next.Confidence,
				"eye":        next.EyeContact,
				"engagement": next.Engagement,
			} {
				if v < 0 || v > 100 {
					t.Fatalf("step %d: %s = %v, out of [0,100]", i, name, v)
				}
			}
			prev = next
		}
	}
}

func TestSynthesizerDeltaBounded(t *testing.T) {
	s := newSynthesizer(rand.New(rand.NewSource(7)))
	now := time.Now()
	prev := types.ExpressionSample{Confidence: 50, EyeContact: 50, Engagement: 50, Emotion: types.EmotionNeutral}
	for i := 0; i < 200; i++ {
		next := s.next(prev, now)
		if d := next.Confidence - prev.Confidence; d < -confidenceDelta || d > confidenceDelta {
			t.Fatalf("confidence delta %v exceeds ±%d", d, confidenceDelta)
		}
		if d := next.EyeContact - prev.EyeContact; d < -eyeContactDelta || d > eyeContactDelta {
			t.Fatalf("eye contact delta %v exceeds ±%d", d, eyeContactDelta)
		}
		if d := next.Engagement - prev.Engagement; d < -engagementDelta || d > engagementDelta {
			t.Fatalf("engagement delta %v exceeds ±%d", d, engagementDelta)
		}
		prev = next
	}
}

func TestSynthesizerDeterministicWithSeed(t *testing.T) {
	now := time.Unix(0, 0)
	a := newSynthesizer(rand.New(rand.NewSource(42)))
	b := newSynthesizer(rand.New(rand.NewSource(42)))
	pa, pb := a.seed(now), b.seed(now)
	for i := 0; i < 50; i++ {
		pa, pb = a.next(pa, now), b.next(pb, now)
		if pa.Confidence != pb.Confidence || pa.Emotion != pb.Emotion {
			t.Fatalf("step %d diverged: %+v vs %+v", i, pa, pb)
		}
	}
}

func TestSynthesizerEmotionStaysPlausible(t *testing.T) {
	s := newSynthesizer(rand.New(rand.NewSource(3)))
	now := time.Now()
	prev := s.seed(now)
	allowed := map[types.Emotion]bool{}
	for _, e := range plausibleEmotions {
		allowed[e] = true
	}
	for i := 0; i < 300; i++ {
		prev = s.next(prev, now)
		if !allowed[prev.Emotion] {
			t.Fatalf("step %d: emotion %q outside plausible set", i, prev.Emotion)
		}
	}
}

func TestSynthesizerDistributionBounds(t *testing.T) {
	s := newSynthesizer(rand.New(rand.NewSource(9)))
	sample := s.seed(time.Now())
	for e, v := range sample.EmotionDistribution {
		if v < 0 || v > 100 {
			t.Errorf("distribution[%s] = %v, out of [0,100]", e, v)
		}
	}
	if !sample.Synthesized {
		t.Error("synthesized sample not marked")
	}
}

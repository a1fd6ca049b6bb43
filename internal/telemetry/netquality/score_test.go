package netquality

import (
	"math"
	"testing"
)

func TestLatencyScoreSteps(t *testing.T) {
	tests := []struct {
		ms   float64
		want float64
	}{
		{600, 0}, {501, 0},
		{500, 25}, {301, 25},
		{300, 50}, {151, 50},
		{150, 75}, {76, 75},
		{75, 100}, {10, 100}, {0, 100},
	}
	for _, tt := range tests {
		if got := latencyScore(tt.ms); got != tt.want {
			t.Errorf("latencyScore(%v) = %v, want %v", tt.ms, got, tt.want)
		}
	}
}

func TestConnScore(t *testing.T) {
	tests := []struct {
		typ  string
		want float64
	}{
		{"4g", 100}, {"3g", 60}, {"2g", 30}, {"slow-2g", 10},
		{"", 80}, {"5g", 80}, {"wifi", 80},
	}
	for _, tt := range tests {
		if got := connScore(tt.typ); got != tt.want {
			t.Errorf("connScore(%q) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestCombinedScoreWorkedExample(t *testing.T) {
	// 600ms latency, unknown connection, zero loss:
	// 0*0.4 + 80*0.4 + 100*0.2 = 52 -> fair.
	score := combinedScore(600, "", 0)
	if math.Abs(score-52) > 1e-9 {
		t.Fatalf("combinedScore = %v, want 52", score)
	}
	if lvl := levelFor(score); lvl != LevelFair {
		t.Errorf("levelFor(52) = %q, want fair", lvl)
	}
}

func TestLevelThresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, LevelExcellent}, {85, LevelExcellent},
		{84.9, LevelGood}, {65, LevelGood},
		{64.9, LevelFair}, {40, LevelFair},
		{39.9, LevelPoor}, {0, LevelPoor},
	}
	for _, tt := range tests {
		if got := levelFor(tt.score); got != tt.want {
			t.Errorf("levelFor(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestLossScoreFloor(t *testing.T) {
	if got := lossScore(0); got != 100 {
		t.Errorf("lossScore(0) = %v, want 100", got)
	}
	if got := lossScore(5); got != 50 {
		t.Errorf("lossScore(5) = %v, want 50", got)
	}
	if got := lossScore(50); got != 0 {
		t.Errorf("lossScore(50) = %v, want 0 (floored)", got)
	}
}

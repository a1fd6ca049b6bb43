package netquality

// Quality levels, best to worst. Offline is a level, not an error.
const (
	LevelExcellent = "excellent"
	LevelGood      = "good"
	LevelFair      = "fair"
	LevelPoor      = "poor"
	LevelOffline   = "offline"
)

// Sub-score weights.
const (
	latencyWeight = 0.4
	connWeight    = 0.4
	lossWeight    = 0.2
)

// latencyScore maps round-trip latency to a stepped 0-100 sub-score.
func latencyScore(ms float64) float64 {
	switch {
	case ms > 500:
		return 0
	case ms > 300:
		return 25
	case ms > 150:
		return 50
	case ms > 75:
		return 75
	default:
		return 100
	}
}

// connScore maps the host's effective connection type to a sub-score.
// Unknown metadata scores neutral.
func connScore(effectiveType string) float64 {
	switch effectiveType {
	case "4g":
		return 100
	case "3g":
		return 60
	case "2g":
		return 30
	case "slow-2g":
		return 10
	default:
		return 80
	}
}

// lossScore maps packet loss percentage to a sub-score. Loss is currently
// always measured as 0: real measurement needs transport-level visibility
// this layer does not have.
func lossScore(pct float64) float64 {
	s := 100 - 10*pct
	if s < 0 {
		return 0
	}
	return s
}

// combinedScore weights the three sub-scores into one 0-100 value.
func combinedScore(latencyMs float64, effectiveType string, lossPct float64) float64 {
	return latencyWeight*latencyScore(latencyMs) +
		connWeight*connScore(effectiveType) +
		lossWeight*lossScore(lossPct)
}

// levelFor maps a combined score to a quality level. Offline is decided
// before scoring, never here.
func levelFor(score float64) string {
	switch {
	case score >= 85:
		return LevelExcellent
	case score >= 65:
		return LevelGood
	case score >= 40:
		return LevelFair
	default:
		return LevelPoor
	}
}

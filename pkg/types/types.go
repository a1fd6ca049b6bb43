package types

// Emotion is the reported emotion vocabulary. The raw detector vocabulary
// differs slightly ("fearful" is reported as "nervous").
type Emotion string

const (
	EmotionNeutral   Emotion = "neutral"
	EmotionHappy     Emotion = "happy"
	EmotionSad       Emotion = "sad"
	EmotionAngry     Emotion = "angry"
	EmotionSurprised Emotion = "surprised"
	EmotionNervous   Emotion = "nervous"
	EmotionDisgusted Emotion = "disgusted"
	EmotionThinking  Emotion = "thinking"
)

type ExpressionSample struct {
	Confidence          float64             `json:"confidence"`
	EyeContact          float64             `json:"eye_contact"`
	Emotion             Emotion             `json:"emotion"`
	Engagement          float64             `json:"engagement"`
	EmotionDistribution map[Emotion]float64 `json:"emotion_distribution"`
	CapturedAt          int64               `json:"t"`
	Synthesized         bool                `json:"synthesized"`
}

type NetworkQualitySample struct {
	Level         string   `json:"level"`
	LatencyMs     int      `json:"latency_ms"`
	JitterMs      int      `json:"jitter_ms"`
	BandwidthMbps *float64 `json:"bandwidth_mbps,omitempty"`
	PacketLossPct float64  `json:"packet_loss_pct"`
	MeasuredAt    int64    `json:"t"`
}

type ArtifactMeta struct {
	Locator         string `json:"locator"`
	DurationSeconds int    `json:"duration_s"`
	Codec           string `json:"codec"`
	SizeBytes       int    `json:"size_bytes"`
}

type RecordingStatus struct {
	State          string        `json:"state"`
	Mode           string        `json:"mode,omitempty"`
	Codec          string        `json:"codec,omitempty"`
	ElapsedSeconds int           `json:"elapsed_s"`
	Artifact       *ArtifactMeta `json:"artifact,omitempty"`
}

type CreateSessionReq struct {
	Device          map[string]string `json:"device"`
	Mode            string            `json:"mode"`
	Locale          string            `json:"locale"`
	Consent         map[string]bool   `json:"consent"`
	SupportedCodecs []string          `json:"supported_codecs"`
}

type CreateSessionResp struct {
	SessionID string `json:"session_id"`
	WSURL     string `json:"ws_url"`
	Degraded  bool   `json:"degraded"`
}

type StartRecordingReq struct {
	Mode string `json:"mode"`
}

type SummaryResp struct {
	SessionID      string                `json:"session_id"`
	FramesAnalyzed int64                 `json:"frames_analyzed"`
	Degraded       bool                  `json:"degraded"`
	Expression     *ExpressionSample     `json:"expression,omitempty"`
	Network        *NetworkQualitySample `json:"network,omitempty"`
	Recording      RecordingStatus       `json:"recording"`
}

// FrameMsg is the client->server websocket message carrying one camera frame.
type FrameMsg struct {
	Type string `json:"type"`
	Data string `json:"data"` // base64 image payload
	MIME string `json:"mime"`
}

// NetInfoMsg is the client->server websocket message carrying host
// connectivity metadata.
type NetInfoMsg struct {
	Type          string  `json:"type"`
	Online        bool    `json:"online"`
	EffectiveType string  `json:"effective_type"`
	DownlinkMbps  float64 `json:"downlink_mbps"`
}

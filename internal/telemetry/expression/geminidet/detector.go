package geminidet

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/internal/telemetry/expression"
)

const landmarkCount = 68

// Detector implements expression.Detector against the Gemini API: one frame
// in, a schema-constrained JSON face analysis out.
type Detector struct {
	c     *genai.Client
	model string
}

func New(apiKey, model string) (*Detector, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("geminidet: API key not set: %w", expression.ErrDetectorUnavailable)
	}
	tr := &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		TLSClientConfig:   &tls.Config{MinVersion: tls.VersionTLS12},
		ForceAttemptHTTP2: false,
		MaxIdleConns:      100,
		IdleConnTimeout:   90 * time.Second,
	}
	hc := &http.Client{Transport: tr, Timeout: 30 * time.Second}
	reqTimeout := 15 * time.Second
	cl, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: hc,
		HTTPOptions: genai.HTTPOptions{
			APIVersion: "v1",
			Timeout:    &reqTimeout,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("geminidet: %v: %w", err, expression.ErrDetectorUnavailable)
	}
	return &Detector{c: cl, model: model}, nil
}

func (d *Detector) Close() error { return nil }

// faceResp is the wire shape requested from the model.
type faceResp struct {
	FacePresent bool `json:"face_present"`
	Landmarks   []struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"landmarks"`
	Emotions map[string]float64 `json:"emotions"`
}

func (d *Detector) Detect(ctx context.Context, frame expression.Frame) (*expression.Face, error) {
	parts := []*genai.Part{
		{Text: "You are a face analysis engine. Output JSON only: " +
			"{\"face_present\":bool,\"landmarks\":[{\"x\":number,\"y\":number} x68]," +
			"\"emotions\":{\"neutral\":p,\"happy\":p,\"sad\":p,\"angry\":p,\"fearful\":p,\"disgusted\":p,\"surprised\":p}}. " +
			"Landmarks follow the 68-point model in pixel coordinates. " +
			"Emotion probabilities are 0..1 and sum to 1. " +
			"If no face is visible set face_present to false and omit the rest."},
		{InlineData: &genai.Blob{Data: frame.Data, MIMEType: frame.MIME}},
	}

	temp := float32(0.1)
	topP := float32(0.8)
	maxTok := int32(12800)

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"face_present": {Type: genai.TypeBoolean},
				"landmarks": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"x": {Type: genai.TypeNumber},
							"y": {Type: genai.TypeNumber},
						},
						Required: []string{"x", "y"},
					},
				},
				"emotions": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"neutral":   {Type: genai.TypeNumber},
						"happy":     {Type: genai.TypeNumber},
						"sad":       {Type: genai.TypeNumber},
						"angry":     {Type: genai.TypeNumber},
						"fearful":   {Type: genai.TypeNumber},
						"disgusted": {Type: genai.TypeNumber},
						"surprised": {Type: genai.TypeNumber},
					},
				},
			},
			Required: []string{"face_present"},
		},
		Temperature:     &temp,
		TopP:            &topP,
		MaxOutputTokens: maxTok,
	}

	resp, err := d.callOnce(ctx, parts, cfg)
	if err != nil {
		return nil, err
	}
	return toFace(resp)
}

func (d *Detector) callOnce(ctx context.Context, parts []*genai.Part, cfg *genai.GenerateContentConfig) (*faceResp, error) {
	var lastErr error
	for i := 0; i < 3; i++ {
		resp, err := d.c.Models.GenerateContent(ctx, d.model, []*genai.Content{{Parts: parts}}, cfg)
		if err != nil {
			lastErr = err
			if permanent(err) {
				return nil, fmt.Errorf("geminidet: %v: %w", err, expression.ErrDetectorUnavailable)
			}
			if retriable(err) {
				time.Sleep(time.Duration(300*(i+1)) * time.Millisecond)
				continue
			}
			return nil, err
		}
		if fr, ok := parseFace(resp); ok {
			return fr, nil
		}
		lastErr = errors.New("empty response")
		time.Sleep(time.Duration(300*(i+1)) * time.Millisecond)
	}
	return nil, lastErr
}

func parseFace(resp *genai.GenerateContentResponse) (*faceResp, bool) {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && p.InlineData.MIMEType == "application/json" {
				var out faceResp
				if json.Unmarshal(p.InlineData.Data, &out) == nil {
					return &out, true
				}
			}
			if p.Text != "" {
				var out faceResp
				if json.Unmarshal([]byte(p.Text), &out) == nil {
					return &out, true
				}
			}
		}
	}
	if t := resp.Text(); t != "" {
		var out faceResp
		if json.Unmarshal([]byte(t), &out) == nil {
			return &out, true
		}
	}
	return nil, false
}

func toFace(fr *faceResp) (*expression.Face, error) {
	if !fr.FacePresent {
		return nil, expression.ErrNoFace
	}
	if len(fr.Landmarks) != landmarkCount {
		return nil, fmt.Errorf("geminidet: got %d landmarks, want %d", len(fr.Landmarks), landmarkCount)
	}
	face := &expression.Face{
		Landmarks: make([]expression.Landmark, landmarkCount),
		Emotions:  make(map[string]float64, len(fr.Emotions)),
	}
	for i, lm := range fr.Landmarks {
		face.Landmarks[i] = expression.Landmark{X: lm.X, Y: lm.Y}
	}
	// Some responses come back as percentages; normalize to 0..1.
	var sum float64
	for _, p := range fr.Emotions {
		sum += p
	}
	scale := 1.0
	if sum > 1.5 {
		scale = 1.0 / 100
	}
	for label, p := range fr.Emotions {
		v := p * scale
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		face.Emotions[strings.ToLower(label)] = v
	}
	return face, nil
}

func permanent(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "API key") ||
		strings.Contains(s, "401") ||
		strings.Contains(s, "403") ||
		strings.Contains(s, "PERMISSION_DENIED")
}

func retriable(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "unexpected EOF") ||
		strings.Contains(s, "timeout") ||
		strings.Contains(s, "RST_STREAM") ||
		strings.Contains(s, "connection reset")
}

package netquality

import (
	"context"
	"net/http"
	"time"
)

// Prober measures one round trip to a reachable endpoint.
type Prober interface {
	Probe(ctx context.Context) (time.Duration, error)
}

// HTTPProber measures wall-clock time around a HEAD request. Any completed
// response counts as a successful round trip regardless of status code.
type HTTPProber struct {
	URL    string
	Client *http.Client
}

func NewHTTPProber(url string) *HTTPProber {
	return &HTTPProber{
		URL:    url,
		Client: &http.Client{Timeout: 4 * time.Second},
	}
}

func (p *HTTPProber) Probe(ctx context.Context) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.URL, nil)
	if err != nil {
		return 0, err
	}
	start := time.Now()
	resp, err := p.Client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return time.Since(start), nil
}

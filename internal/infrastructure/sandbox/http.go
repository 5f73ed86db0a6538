package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/uiscraper/backend/internal/application/ports"
)

// DefaultIdleTimeout is forwarded to the sandbox service; it is enforced there.
const DefaultIdleTimeout = 30 * time.Minute

// HTTPPublisher uploads generated files to a sandbox service via POST JSON and returns the preview URL.
type HTTPPublisher struct {
	client      *http.Client
	url         string
	headers     map[string]string
	idleTimeout time.Duration
}

// HTTPPublisherOption configures HTTPPublisher.
type HTTPPublisherOption func(*HTTPPublisher)

// WithClient sets the HTTP client (default: 60s timeout).
func WithClient(c *http.Client) HTTPPublisherOption {
	return func(p *HTTPPublisher) {
		p.client = c
	}
}

// WithHeader sets a header sent on every request (e.g. Authorization).
func WithHeader(key, value string) HTTPPublisherOption {
	return func(p *HTTPPublisher) {
		if p.headers == nil {
			p.headers = make(map[string]string)
		}
		p.headers[key] = value
	}
}

// WithIdleTimeout overrides the idle timeout requested for new sandboxes.
func WithIdleTimeout(d time.Duration) HTTPPublisherOption {
	return func(p *HTTPPublisher) {
		p.idleTimeout = d
	}
}

// NewHTTPPublisher returns a Sandbox that POSTs the file map to url.
func NewHTTPPublisher(url string, opts ...HTTPPublisherOption) *HTTPPublisher {
	p := &HTTPPublisher{
		client:      &http.Client{Timeout: 60 * time.Second},
		url:         url,
		idleTimeout: DefaultIdleTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type publishRequest struct {
	ProjectID          string            `json:"projectId"`
	Files              map[string]string `json:"files"`
	IdleTimeoutSeconds int64             `json:"idleTimeoutSeconds"`
}

type publishResponse struct {
	URL string `json:"url"`
}

// Publish implements ports.Sandbox.
func (p *HTTPPublisher) Publish(ctx context.Context, projectID string, files map[string]string) (string, error) {
	body, err := json.Marshal(publishRequest{
		ProjectID:          projectID,
		Files:              files,
		IdleTimeoutSeconds: int64(p.idleTimeout / time.Second),
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range p.headers {
		req.Header.Set(k, v)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &publishError{status: resp.StatusCode}
	}
	var out publishResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode sandbox response: %w", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("sandbox response has no url")
	}
	return out.URL, nil
}

type publishError struct {
	status int
}

func (e *publishError) Error() string {
	return fmt.Sprintf("sandbox endpoint returned status %d", e.status)
}

var _ ports.Sandbox = (*HTTPPublisher)(nil)

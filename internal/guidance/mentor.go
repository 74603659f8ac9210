package guidance

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxBodyBytes is the ceiling on outbound request bodies. Payloads above
// it are rejected locally as a permanent validation failure rather than
// shipped to the endpoint.
const maxBodyBytes = 128 * 1024

// defaultHTTPTimeout bounds one mentor round trip.
const defaultHTTPTimeout = 30 * time.Second

// Provider executes one guidance request synchronously. Implementations
// are driven from the client's worker goroutine.
type Provider interface {
	Query(ctx context.Context, req Request) (string, error)
}

// MentorProvider talks to the remote mentor endpoint: a JSON POST with
// header API-key authentication and a GET health-check variant.
type MentorProvider struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// mentorWireResponse mirrors the endpoint's response envelope.
type mentorWireResponse struct {
	Success  bool   `json:"success"`
	Response *struct {
		Type    string `json:"type"`
		Content string `json:"content"`
		Status  string `json:"status"`
		Version string `json:"version"`
	} `json:"response"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// NewMentorProvider creates a provider for the given endpoint. The
// transport requires TLS 1.3 or newer and validates certificates.
func NewMentorProvider(endpoint, apiKey string, timeout time.Duration) *MentorProvider {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &MentorProvider{
		endpoint: endpoint,
		apiKey:   apiKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS13},
			},
		},
	}
}

// Query implements Provider.
func (p *MentorProvider) Query(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrPermanent, err)
	}
	if len(body) > maxBodyBytes {
		return "", fmt.Errorf("%w: request body %d bytes exceeds %d byte ceiling", ErrPermanent, len(body), maxBodyBytes)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPermanent, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.apiKey)

	return p.do(httpReq)
}

// HealthCheck probes the endpoint's GET variant and returns the reported
// backend version.
func (p *MentorProvider) HealthCheck(ctx context.Context) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPermanent, err)
	}
	httpReq.Header.Set("x-api-key", p.apiKey)

	return p.do(httpReq)
}

func (p *MentorProvider) do(httpReq *http.Request) (string, error) {
	resp, err := p.client.Do(httpReq)
	if err != nil {
		// Timeouts, DNS and connection failures are all worth a retry.
		return "", fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return "", fmt.Errorf("%w: endpoint returned %s", ErrTransient, resp.Status)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: endpoint returned %s", ErrPermanent, resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrTransient, err)
	}

	var wire mentorWireResponse
	if err := json.Unmarshal(raw, &wire); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrPermanent, err)
	}
	if !wire.Success {
		msg := wire.Error
		if msg == "" {
			msg = "endpoint reported failure"
		}
		return "", fmt.Errorf("%w: %s", ErrPermanent, msg)
	}
	if wire.Response == nil {
		return "", fmt.Errorf("%w: empty response envelope", ErrPermanent)
	}
	if wire.Response.Content != "" {
		return wire.Response.Content, nil
	}
	if wire.Response.Status != "" {
		return fmt.Sprintf("%s (version %s)", wire.Response.Status, wire.Response.Version), nil
	}
	return "", fmt.Errorf("%w: response has no content", ErrPermanent)
}

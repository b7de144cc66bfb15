// Package advisor calls an external text-generation API for remediation
// suggestions. The integration is optional and strictly advisory: callers
// must treat every failure as recoverable.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spec-kit/servicedesk/internal/config"
)

const generateAPIBase = "https://generativelanguage.googleapis.com/v1beta"

// ErrQuotaExhausted marks upstream quota refusal, which renders as a
// "try again later" notice rather than an error.
var ErrQuotaExhausted = errors.New("advisor quota exhausted")

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("advisor not configured")

// Client speaks the generateContent REST endpoint.
type Client struct {
	cfg     config.AdvisorConfig
	baseURL string
	client  *http.Client
}

// NewClient builds the advisor client.
func NewClient(cfg config.AdvisorConfig) *Client {
	return &Client{
		cfg:     cfg,
		baseURL: generateAPIBase,
		client:  &http.Client{Timeout: cfg.Timeout()},
	}
}

// Enabled reports whether the integration is configured.
func (c *Client) Enabled() bool {
	return c.cfg.Enabled()
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Suggest requests free-text remediation advice for the given prompt.
func (c *Client) Suggest(ctx context.Context, prompt string) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.cfg.Model, c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrQuotaExhausted
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("advisor responded with status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed generateResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", fmt.Errorf("decode advisor response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("advisor returned no candidates")
	}

	var sb strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

// WithBaseURL overrides the API host, used by tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = strings.TrimSuffix(base, "/")
	return c
}

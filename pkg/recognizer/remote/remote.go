// Package remote provides recognizers backed by an external inference server
// reached over HTTP.
//
// The server exposes two JSON endpoints:
//
//   - POST /detect      {"image": "<base64>"}                 → {"gesture", "confidence", "bbox"}
//   - POST /transcribe  {"audio": "<base64>", "language": …}  → {"text", "language", "confidence"}
//   - GET  /health      any 2xx while the model is loaded
//
// Typical usage:
//
//	c, err := remote.New("http://localhost:9000", remote.WithTimeout(5*time.Second))
//	det, err := c.Detect(ctx, jpeg)
package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MrWong99/ishara/pkg/recognizer"
)

// Compile-time interface assertions.
var (
	_ recognizer.GestureRecognizer = (*Client)(nil)
	_ recognizer.SpeechRecognizer  = (*Client)(nil)
)

const (
	defaultTimeout     = 10 * time.Second
	detectEndpoint     = "/detect"
	transcribeEndpoint = "/transcribe"
	healthEndpoint     = "/health"

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 1 << 20
)

// Option is a functional option for configuring a [Client].
type Option func(*Client)

// WithTimeout sets the per-request HTTP timeout. Defaults to 10 s.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the HTTP client. The timeout option still applies
// when given after this one.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Client implements both recognizer interfaces against one inference server.
// It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a [Client] for the server at baseURL (e.g.
// "http://localhost:9000"). baseURL must be non-empty.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("remote: baseURL must not be empty")
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

type detectRequest struct {
	Image string `json:"image"`
}

type transcribeRequest struct {
	Audio    string `json:"audio"`
	Language string `json:"language"`
}

// Detect implements [recognizer.GestureRecognizer].
func (c *Client) Detect(ctx context.Context, image []byte) (recognizer.Detection, error) {
	var det recognizer.Detection
	body := detectRequest{Image: base64.StdEncoding.EncodeToString(image)}
	if err := c.post(ctx, detectEndpoint, body, &det); err != nil {
		return recognizer.Detection{}, err
	}
	if det.GestureID == "" {
		return recognizer.Detection{}, fmt.Errorf("remote: POST %s: response has no gesture", detectEndpoint)
	}
	return det, nil
}

// Transcribe implements [recognizer.SpeechRecognizer].
func (c *Client) Transcribe(ctx context.Context, audio []byte, lang string) (recognizer.Transcript, error) {
	var tr recognizer.Transcript
	body := transcribeRequest{
		Audio:    base64.StdEncoding.EncodeToString(audio),
		Language: lang,
	}
	if err := c.post(ctx, transcribeEndpoint, body, &tr); err != nil {
		return recognizer.Transcript{}, err
	}
	if tr.Language == "" {
		tr.Language = lang
	}
	return tr, nil
}

// Ping reports whether the inference server answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthEndpoint, nil)
	if err != nil {
		return fmt.Errorf("remote: create ping request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remote: ping: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("remote: ping returned status %d", resp.StatusCode)
	}
	return nil
}

// post sends body as JSON to endpoint and decodes the JSON response into out.
func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("remote: marshal %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("remote: create %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remote: POST %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("remote: POST %s returned status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("remote: decode %s response: %w", endpoint, err)
	}
	return nil
}

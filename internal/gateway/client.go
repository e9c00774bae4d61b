// Package gateway issues bounded analysis requests to the fraud backend.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout is the hard wall-clock bound for one text analysis.
const DefaultTimeout = 60 * time.Second

// maxResponseBytes caps how much of a backend body is read.
const maxResponseBytes = 1 << 20

// Wire formats for the text request body. The shipped client sends
// textInput; the older variant sends text.
const (
	WireStandard = "standard"
	WireLegacy   = "legacy"
)

// Config is the explicit gateway configuration. The client holds no
// ambient globals.
type Config struct {
	BaseURL     string
	AnalyzePath string
	HealthPath  string
	APIKey      string
	Timeout     time.Duration
	WireFormat  string
}

// Client issues one bounded request per analysis attempt. Callers gate
// concurrency; the client itself keeps no submission state.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// New constructs a gateway client, filling config defaults.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if strings.TrimSpace(cfg.AnalyzePath) == "" {
		cfg.AnalyzePath = "/analyze"
	}
	if strings.TrimSpace(cfg.HealthPath) == "" {
		cfg.HealthPath = "/health"
	}
	if cfg.WireFormat == "" {
		cfg.WireFormat = WireStandard
	}
	return &Client{cfg: cfg, http: &http.Client{}, logger: logger}
}

// AnalyzeText submits a transcript for classification and returns the
// raw backend payload. text must be validated non-empty by the caller
// before any network activity.
func (c *Client) AnalyzeText(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("refusing to submit empty transcript")
	}

	var payload any
	if c.cfg.WireFormat == WireLegacy {
		payload = map[string]string{"text": text}
	} else {
		payload = map[string]string{"textInput": text}
	}
	return c.post(ctx, payload)
}

// AudioRequest describes one audio analysis submission. Exactly one of
// Base64 or URL must be set.
type AudioRequest struct {
	Base64   string
	URL      string
	Format   string
	Language string
}

type audioPayload struct {
	AudioBase64 string `json:"audio_base64,omitempty"`
	AudioURL    string `json:"audio_url,omitempty"`
	AudioFormat string `json:"audio_format"`
	Language    string `json:"language"`
}

// AnalyzeAudio submits an audio payload to the audio-capable deployment.
func (c *Client) AnalyzeAudio(ctx context.Context, req AudioRequest) ([]byte, error) {
	if req.Base64 == "" && req.URL == "" {
		return nil, errors.New("audio request needs audio_base64 or audio_url")
	}
	if req.Base64 != "" && req.URL != "" {
		return nil, errors.New("audio request accepts audio_base64 or audio_url, not both")
	}

	payload := audioPayload{
		AudioBase64: req.Base64,
		AudioURL:    req.URL,
		AudioFormat: req.Format,
		Language:    req.Language,
	}
	if payload.AudioFormat == "" {
		payload.AudioFormat = "wav"
	}
	if payload.Language == "" {
		payload.Language = "en"
	}
	return c.post(ctx, payload)
}

// CheckHealth probes the backend health endpoint.
func (c *Client) CheckHealth(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, c.endpoint(c.cfg.HealthPath), nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.classifyTransportError(probeCtx, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode != http.StatusOK {
		return &BackendError{Status: resp.StatusCode, Message: fmt.Sprintf("health probe returned HTTP %d", resp.StatusCode)}
	}
	return nil
}

// post runs one bounded POST roundtrip and normalizes every failure
// into the gateway error taxonomy. The deadline timer is released on
// both success and failure paths.
func (c *Client) post(ctx context.Context, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode analysis request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	endpoint := c.endpoint(c.cfg.AnalyzePath)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build analysis request %q: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		classified := c.classifyTransportError(reqCtx, err)
		c.logAttempt(requestID, 0, started, classified)
		return nil, classified
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		classified := c.classifyTransportError(reqCtx, err)
		c.logAttempt(requestID, resp.StatusCode, started, classified)
		return nil, classified
	}

	if resp.StatusCode != http.StatusOK {
		backendErr := &BackendError{
			Status:  resp.StatusCode,
			Message: extractErrorMessage(raw, resp.StatusCode),
		}
		c.logAttempt(requestID, resp.StatusCode, started, backendErr)
		return nil, backendErr
	}

	c.logAttempt(requestID, resp.StatusCode, started, nil)
	return raw, nil
}

func (c *Client) endpoint(path string) string {
	base := strings.TrimRight(strings.TrimSpace(c.cfg.BaseURL), "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// classifyTransportError maps transport failures onto the small error
// taxonomy: deadline expiry is a timeout, caller cancellation passes
// through, everything else is unreachable.
func (c *Client) classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	if errors.Is(err, context.Canceled) {
		return context.Canceled
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return ErrTimeout
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}

func (c *Client) logAttempt(requestID string, status int, started time.Time, err error) {
	if c.logger == nil {
		return
	}
	fields := []any{
		"request_id", requestID,
		"status", status,
		"latency_ms", time.Since(started).Milliseconds(),
	}
	if err != nil {
		c.logger.Error("analysis request failed", append(fields, "error", err.Error())...)
		return
	}
	c.logger.Info("analysis request complete", fields...)
}

package synthesis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ld100/peacedoon/internal/services"
)

// HTTPEngine calls a text-to-speech service over HTTP. One POST per SSML
// chunk; the response body is the encoded audio.
type HTTPEngine struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// HTTPEngineConfig holds the connection settings for an HTTP engine.
type HTTPEngineConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// NewHTTPEngine creates an engine client for the given endpoint.
func NewHTTPEngine(cfg HTTPEngineConfig) *HTTPEngine {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPEngine{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type synthesizeRequest struct {
	Text         string `json:"text"`
	TextType     string `json:"text_type"`
	Voice        string `json:"voice"`
	Language     string `json:"language,omitempty"`
	OutputFormat string `json:"output_format"`
}

// Synthesize posts one SSML document and returns the audio bytes.
func (e *HTTPEngine) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	payload, err := json.Marshal(synthesizeRequest{
		Text:         req.Text,
		TextType:     "ssml",
		Voice:        req.Voice,
		Language:     req.Language,
		OutputFormat: req.Format,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "synthesis", "marshal", "encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "synthesis", "request", "build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		httpReq.Header.Set("X-Api-Key", e.apiKey)
	}

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "synthesis", "request", "send request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		marker := services.ErrExternalTool
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			marker = services.ErrTransient
		}
		return nil, services.Wrap(marker, "synthesis", "request",
			fmt.Sprintf("engine returned %s: %s", resp.Status, bytes.TrimSpace(body)), nil)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "synthesis", "request", "read audio", err)
	}
	if len(audio) == 0 {
		return nil, services.Wrap(services.ErrExternalTool, "synthesis", "request", "engine returned empty audio", nil)
	}
	return audio, nil
}

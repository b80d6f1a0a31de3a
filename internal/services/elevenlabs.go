package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ElevenLabs synthesizes speech with the ElevenLabs API.
type ElevenLabs struct {
	apiKey  string
	voiceID string
	modelID string
	baseURL string
	client  *http.Client
}

func NewElevenLabs(apiKey, voiceID, modelID, baseURL string) *ElevenLabs {
	if modelID == "" {
		modelID = "eleven_flash_v2_5"
	}
	if baseURL == "" {
		baseURL = "https://api.elevenlabs.io"
	}
	return &ElevenLabs{
		apiKey:  strings.TrimSpace(apiKey),
		voiceID: strings.TrimSpace(voiceID),
		modelID: modelID,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (e *ElevenLabs) Name() string { return "elevenlabs" }

func (e *ElevenLabs) Synthesize(ctx context.Context, text string) ([]byte, string, error) {
	body, err := json.Marshal(map[string]any{
		"text":     text,
		"model_id": e.modelID,
	})
	if err != nil {
		return nil, "", fmt.Errorf("marshal request: %w", err)
	}

	u := fmt.Sprintf("%s/v1/text-to-speech/%s", e.baseURL, e.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("call ElevenLabs: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read ElevenLabs response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		preview := string(b)
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}
		slog.Warn("ElevenLabs error", slog.Int("status", resp.StatusCode), slog.String("body", preview))
		return nil, "", fmt.Errorf("elevenlabs %d: %s", resp.StatusCode, preview)
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "audio/mpeg"
	}
	return b, ct, nil
}

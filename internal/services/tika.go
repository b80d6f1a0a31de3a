package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TextExtractor pulls plain text out of an uploaded document.
type TextExtractor interface {
	Extract(ctx context.Context, contentType string, data []byte) (string, error)
}

// Tika extracts document text through an Apache Tika server (PUT /tika).
type Tika struct {
	baseURL string
	client  *http.Client
}

func NewTika(baseURL string, timeout time.Duration) *Tika {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Tika{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (t *Tika) Extract(ctx context.Context, contentType string, data []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, t.baseURL+"/tika", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call tika: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read tika response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		preview := string(b)
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}
		return "", fmt.Errorf("tika %d: %s", resp.StatusCode, preview)
	}
	// Collapse layout whitespace into single spaces.
	return strings.Join(strings.Fields(strings.ToValidUTF8(string(b), "")), " "), nil
}

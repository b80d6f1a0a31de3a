package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"

	"github.com/developia-II/interview-practice-backend/internal/observability"
)

// Client wraps a Provider with a per-call timeout, retries and metrics.
// A nil *Client is valid and always returns ErrDisabled.
type Client struct {
	provider   Provider
	timeout    time.Duration
	maxRetries uint64
	metrics    *observability.Metrics
	logger     *slog.Logger

	initialInterval time.Duration
}

func NewClient(p Provider, timeout time.Duration, maxRetries uint64, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		provider:        p,
		timeout:         timeout,
		maxRetries:      maxRetries,
		metrics:         metrics,
		logger:          logger,
		initialInterval: 500 * time.Millisecond,
	}
}

// Provider returns the backend name, or "none".
func (c *Client) Provider() string {
	if c == nil {
		return "none"
	}
	return c.provider.Name()
}

// Close releases the provider's connections, if it holds any.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if closer, ok := c.provider.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Generate sends one prompt. operation labels logs and metrics.
func (c *Client) Generate(ctx context.Context, operation, system, prompt string) (string, error) {
	if c == nil {
		return "", ErrDisabled
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = c.initialInterval
	expo.MaxInterval = 5 * time.Second
	expo.MaxElapsedTime = 0
	bo := backoff.WithContext(backoff.WithMaxRetries(expo, c.maxRetries), ctx)

	var out string
	attempt := 0
	op := func() error {
		attempt++
		callCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
		text, err := c.provider.Complete(callCtx, system, prompt)
		c.metrics.ObserveLLM(c.provider.Name(), operation, err)
		if err != nil {
			c.logger.Warn("llm call failed",
				slog.String("provider", c.provider.Name()),
				slog.String("op", operation),
				slog.Int("attempt", attempt),
				slog.Any("error", err),
			)
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		out = text
		return nil
	}
	if err := backoff.Retry(op, bo); err != nil {
		return "", fmt.Errorf("llm %s %s: %w", c.provider.Name(), operation, err)
	}
	return out, nil
}

// GenerateJSON sends a prompt and decodes the cleaned reply into out.
func (c *Client) GenerateJSON(ctx context.Context, operation, system, prompt string, out any) error {
	text, err := c.Generate(ctx, operation, system, prompt)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(CleanJSON(text)), out); err != nil {
		return fmt.Errorf("llm %s: decode reply: %w", operation, err)
	}
	return nil
}

// retryable treats rate limits, server errors and transport failures as
// transient. Other client errors are final.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	var gErr *googleapi.Error
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	case errors.As(err, &gErr):
		status = gErr.Code
	}
	if status == 0 {
		return true
	}
	return status == http.StatusTooManyRequests || status >= 500
}

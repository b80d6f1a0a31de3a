// Package llm talks to the generative models that write interview questions
// and grade transcripts.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/developia-II/interview-practice-backend/internal/config"
	"github.com/developia-II/interview-practice-backend/internal/observability"
)

// ErrDisabled is returned when no generative model is configured.
var ErrDisabled = errors.New("llm: no provider configured")

// Provider is one generative model backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// New builds a Client for the configured provider. It returns nil when the
// provider resolves to "none".
func New(ctx context.Context, cfg config.Config, metrics *observability.Metrics, logger *slog.Logger) (*Client, error) {
	var (
		p   Provider
		err error
	)
	switch name := cfg.ResolveProvider(); name {
	case config.ProviderNone:
		return nil, nil
	case config.ProviderGroq:
		if strings.TrimSpace(cfg.GroqAPIKey) == "" {
			return nil, fmt.Errorf("llm: GROQ_API_KEY is not set")
		}
		p = NewOpenAI(name, cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel)
	case config.ProviderOpenAI:
		if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
			return nil, fmt.Errorf("llm: OPENAI_API_KEY is not set")
		}
		p = NewOpenAI(name, cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	case config.ProviderGemini:
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			return nil, fmt.Errorf("llm: GEMINI_API_KEY is not set")
		}
		p, err = NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", name)
	}
	return NewClient(p, cfg.LLMTimeout, cfg.LLMMaxRetries, metrics, logger), nil
}

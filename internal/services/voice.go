package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/developia-II/interview-practice-backend/internal/config"
)

// Synthesizer turns one interviewer line into audio.
type Synthesizer interface {
	Name() string
	Synthesize(ctx context.Context, text string) ([]byte, string, error)
}

// ESpeak runs the local espeak-ng binary.
type ESpeak struct {
	voice string
}

func (e ESpeak) Name() string { return "espeak" }

func (e ESpeak) Synthesize(ctx context.Context, text string) ([]byte, string, error) {
	voice := e.voice
	if voice == "" {
		voice = "en"
	}
	cmd := exec.CommandContext(ctx, "espeak-ng",
		"-s", "160", // words per minute
		"-p", "50",
		"-a", "100",
		"-v", voice,
		"--stdout",
		text,
	)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, "", fmt.Errorf("espeak-ng failed: %s - %w", stderr.String(), err)
	}
	return out.Bytes(), "audio/wav", nil
}

// Voice tries each configured synthesizer in order.
type Voice struct {
	chain  []Synthesizer
	logger *slog.Logger
}

func NewVoice(logger *slog.Logger, chain ...Synthesizer) *Voice {
	if logger == nil {
		logger = slog.Default()
	}
	return &Voice{chain: chain, logger: logger}
}

// NewVoiceFromConfig prefers ElevenLabs and falls back to eSpeak.
func NewVoiceFromConfig(cfg config.Config, logger *slog.Logger) *Voice {
	var chain []Synthesizer
	if strings.TrimSpace(cfg.ElevenLabsAPIKey) != "" && strings.TrimSpace(cfg.ElevenLabsVoiceID) != "" {
		chain = append(chain, NewElevenLabs(cfg.ElevenLabsAPIKey, cfg.ElevenLabsVoiceID, cfg.ElevenLabsModelID, cfg.ElevenLabsBaseURL))
	}
	if cfg.UseESpeak {
		chain = append(chain, ESpeak{voice: cfg.ESpeakVoice})
	}
	return NewVoice(logger, chain...)
}

func (v *Voice) Enabled() bool { return v != nil && len(v.chain) > 0 }

func (v *Voice) Synthesize(ctx context.Context, text string) ([]byte, string, error) {
	if !v.Enabled() {
		return nil, "", ErrVoiceUnavailable
	}
	var errs []error
	for _, s := range v.chain {
		audio, ct, err := s.Synthesize(ctx, text)
		if err == nil {
			return audio, ct, nil
		}
		v.logger.Warn("voice synthesis failed", slog.String("provider", s.Name()), slog.Any("error", err))
		errs = append(errs, err)
	}
	return nil, "", errors.Join(errs...)
}

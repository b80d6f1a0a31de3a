package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "interview_practice", cfg.DBName)
	assert.Equal(t, ProviderAuto, cfg.LLMProvider)
	assert.Equal(t, ScoringLLM, cfg.ScoringMode)
	assert.Equal(t, 8*time.Hour, cfg.AdminSessionTTL)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, int64(5<<20), cfg.MaxResumeBytes)
	assert.Empty(t, cfg.TikaURL)
	assert.Equal(t, "en-us", cfg.ESpeakVoice)
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.AdminEnabled())
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("LLM_PROVIDER", "Claude")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM_PROVIDER")
}

func TestLoad_NormalizesModes(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("LLM_PROVIDER", " Gemini ")
	t.Setenv("SCORING_MODE", "KEYWORD")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, cfg.LLMProvider)
	assert.Equal(t, ScoringKeyword, cfg.ScoringMode)
}

func TestResolveProvider(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"explicit", Config{LLMProvider: ProviderGroq}, ProviderGroq},
		{"auto none", Config{LLMProvider: ProviderAuto}, ProviderNone},
		{"auto gemini first", Config{LLMProvider: ProviderAuto, GeminiAPIKey: "g", GroqAPIKey: "q"}, ProviderGemini},
		{"auto groq", Config{LLMProvider: ProviderAuto, GroqAPIKey: "q", OpenAIAPIKey: "o"}, ProviderGroq},
		{"auto openai", Config{LLMProvider: ProviderAuto, OpenAIAPIKey: "o"}, ProviderOpenAI},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.ResolveProvider())
		})
	}
}

func TestAdminSecret(t *testing.T) {
	assert.Equal(t, "jwt", Config{JWTSecret: "jwt"}.AdminSecret())
	assert.Equal(t, "admin", Config{JWTSecret: "jwt", AdminSessionSecret: "admin"}.AdminSecret())
}

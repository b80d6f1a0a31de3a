// Package config parses the service configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// LLM provider names accepted by LLM_PROVIDER.
const (
	ProviderAuto   = "auto"
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

// Scoring modes accepted by SCORING_MODE.
const (
	ScoringKeyword = "keyword"
	ScoringLLM     = "llm"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"interview-practice-backend"`
	Port        string `env:"PORT" envDefault:"8080"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	MongoURI string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	DBName   string `env:"DB_NAME" envDefault:"interview_practice"`
	RedisURL string `env:"REDIS_URL"`

	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"72h"`

	AdminEmail         string        `env:"ADMIN_EMAIL"`
	AdminPassword      string        `env:"ADMIN_PASSWORD"`
	AdminSessionSecret string        `env:"ADMIN_SESSION_SECRET"`
	AdminSessionTTL    time.Duration `env:"ADMIN_SESSION_TTL" envDefault:"8h"`

	LLMProvider   string        `env:"LLM_PROVIDER" envDefault:"auto"`
	LLMTimeout    time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
	LLMMaxRetries uint64        `env:"LLM_MAX_RETRIES" envDefault:"2"`
	GroqAPIKey    string        `env:"GROQ_API_KEY"`
	GroqBaseURL   string        `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	GroqModel     string        `env:"GROQ_MODEL" envDefault:"llama-3.1-70b-versatile"`
	OpenAIAPIKey  string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string        `env:"OPENAI_BASE_URL"`
	OpenAIModel   string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	GeminiAPIKey  string        `env:"GEMINI_API_KEY"`
	GeminiModel   string        `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`

	ScoringMode      string        `env:"SCORING_MODE" envDefault:"llm"`
	QuestionBankPath string        `env:"QUESTION_BANK_PATH"`
	QuestionCacheTTL time.Duration `env:"QUESTION_CACHE_TTL" envDefault:"1h"`
	SessionTTL       time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	MaxResumeBytes   int64         `env:"MAX_RESUME_BYTES" envDefault:"5242880"`
	TikaURL          string        `env:"TIKA_URL"`
	TikaTimeout      time.Duration `env:"TIKA_TIMEOUT" envDefault:"15s"`

	ElevenLabsAPIKey  string `env:"ELEVENLABS_API_KEY"`
	ElevenLabsModelID string `env:"ELEVENLABS_MODEL_ID" envDefault:"eleven_flash_v2_5"`
	ElevenLabsVoiceID string `env:"ELEVENLABS_VOICE_ID"`
	ElevenLabsBaseURL string `env:"ELEVENLABS_BASE_URL" envDefault:"https://api.elevenlabs.io"`
	UseESpeak         bool   `env:"USE_ESPEAK" envDefault:"false"`
	ESpeakVoice       string `env:"ESPEAK_VOICE" envDefault:"en-us"`

	RateLimitPerMin int    `env:"RATE_LIMIT_PER_MIN" envDefault:"100"`
	ReportCron      string `env:"REPORT_CRON" envDefault:"5 0 * * *"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	cfg.ScoringMode = strings.ToLower(strings.TrimSpace(cfg.ScoringMode))
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.LLMProvider {
	case ProviderAuto, ProviderGroq, ProviderOpenAI, ProviderGemini, ProviderNone:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	switch c.ScoringMode {
	case ScoringKeyword, ScoringLLM:
	default:
		return fmt.Errorf("unknown SCORING_MODE %q", c.ScoringMode)
	}
	if c.MaxResumeBytes <= 0 {
		return fmt.Errorf("MAX_RESUME_BYTES must be positive")
	}
	return nil
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// AdminEnabled is true when both admin credentials are configured.
func (c Config) AdminEnabled() bool {
	return strings.TrimSpace(c.AdminEmail) != "" && strings.TrimSpace(c.AdminPassword) != ""
}

// AdminSecret returns the key used to sign admin session cookies.
func (c Config) AdminSecret() string {
	if c.AdminSessionSecret != "" {
		return c.AdminSessionSecret
	}
	return c.JWTSecret
}

// ResolveProvider turns "auto" into the first provider with a key, or "none".
func (c Config) ResolveProvider() string {
	if c.LLMProvider != ProviderAuto {
		return c.LLMProvider
	}
	switch {
	case c.GeminiAPIKey != "":
		return ProviderGemini
	case c.GroqAPIKey != "":
		return ProviderGroq
	case c.OpenAIAPIKey != "":
		return ProviderOpenAI
	default:
		return ProviderNone
	}
}

package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/papersum/internal/section"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	LogLevel string

	// Auth
	APIKey string

	// Summarization backend: azure, gemini or extractive.
	SummaryProvider string

	// Azure OpenAI completions
	AzureAPIKey   string
	AzureEndpoint string
	AzureModel    string

	// Gemini
	GoogleAPIKey string
	GeminiModel  string

	// Generation parameters sent to the remote model.
	LLMMaxTokens        int
	LLMTemperature      float64
	LLMFrequencyPenalty float64
	LLMPresencePenalty  float64
	LLMTimeout          time.Duration

	// Summarization run
	SummaryMaxInputTokens int // 0 disables truncation
	SummaryMaxRetries     int
	SummaryConcurrency    int

	// Sectioning
	SectionBoundary string
	VocabularyFile  string

	// Upload limits
	MaxUploadBytes int64

	// Session state
	SessionTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory when one exists.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:     envOr("PORT", "8090"),
		LogLevel: envOr("LOG_LEVEL", "info"),

		APIKey: os.Getenv("PAPERSUM_API_KEY"),

		SummaryProvider: strings.ToLower(envOr("SUMMARY_PROVIDER", "azure")),

		AzureAPIKey:   os.Getenv("OPENAI_API_KEY"),
		AzureEndpoint: os.Getenv("API_END_POINT"),
		AzureModel:    envOr("AZURE_MODEL", "gpt-35-turbo"),

		GoogleAPIKey: os.Getenv("GOOGLE_API_KEY"),
		GeminiModel:  envOr("GEMINI_MODEL", "gemini-2.5-flash"),

		LLMMaxTokens:        envInt("LLM_MAX_TOKENS", 150),
		LLMTemperature:      envFloat("LLM_TEMPERATURE", 0.1),
		LLMFrequencyPenalty: envFloat("LLM_FREQUENCY_PENALTY", 0.9),
		LLMPresencePenalty:  envFloat("LLM_PRESENCE_PENALTY", 0.7),
		LLMTimeout:          envDuration("LLM_TIMEOUT", 120*time.Second),

		SummaryMaxInputTokens: envInt("SUMMARY_MAX_INPUT_TOKENS", 3000),
		SummaryMaxRetries:     envInt("SUMMARY_MAX_RETRIES", 0),
		SummaryConcurrency:    envInt("SUMMARY_CONCURRENCY", 1),

		SectionBoundary: envOr("SECTION_BOUNDARY", "nearest"),
		VocabularyFile:  os.Getenv("VOCABULARY_FILE"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		SessionTTL: envDuration("SESSION_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.LLMMaxTokens <= 0 {
		cfg.LLMMaxTokens = 150
	}
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = 120 * time.Second
	}
	if cfg.SummaryMaxInputTokens < 0 {
		cfg.SummaryMaxInputTokens = 0
	}
	if cfg.SummaryMaxRetries < 0 {
		cfg.SummaryMaxRetries = 0
	}
	if cfg.SummaryConcurrency <= 0 {
		cfg.SummaryConcurrency = 1
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 1 * time.Hour
	}

	return cfg
}

// Validate checks the settings every entry point needs.
func (c Config) Validate() error {
	switch c.SummaryProvider {
	case "azure":
		if c.AzureAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the azure provider")
		}
		if c.AzureEndpoint == "" {
			return fmt.Errorf("API_END_POINT is required for the azure provider")
		}
	case "gemini":
		if c.GoogleAPIKey == "" {
			return fmt.Errorf("GOOGLE_API_KEY is required for the gemini provider")
		}
	case "extractive":
	default:
		return fmt.Errorf("unknown SUMMARY_PROVIDER %q", c.SummaryProvider)
	}
	if _, err := section.ParseBoundaryPolicy(c.SectionBoundary); err != nil {
		return fmt.Errorf("SECTION_BOUNDARY: %w", err)
	}
	return nil
}

// Boundary returns the configured section boundary policy. Call Validate
// first; an invalid value falls back to nearest.
func (c Config) Boundary() section.BoundaryPolicy {
	p, err := section.ParseBoundaryPolicy(c.SectionBoundary)
	if err != nil {
		return section.BoundaryNearest
	}
	return p
}

// ValidateServer adds the checks only the HTTP server needs.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey == "" {
		return fmt.Errorf("PAPERSUM_API_KEY is required")
	}
	return nil
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

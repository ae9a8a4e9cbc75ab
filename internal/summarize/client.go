package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/papersum/internal/config"
)

// Client is the configured summarizer with retry, output cleanup, input
// budget and latency tracking applied.
type Client struct {
	Provider string
	Model    string
	Stats    *LLMStats

	s     Summarizer
	close func()
}

// New builds the summarizer selected by cfg.SummaryProvider.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*Client, error) {
	params := Params{
		MaxTokens:        cfg.LLMMaxTokens,
		Temperature:      cfg.LLMTemperature,
		FrequencyPenalty: cfg.LLMFrequencyPenalty,
		PresencePenalty:  cfg.LLMPresencePenalty,
	}

	c := &Client{Provider: cfg.SummaryProvider, Stats: NewLLMStats(time.Hour)}
	var base Summarizer
	switch cfg.SummaryProvider {
	case providerAzure:
		az := NewAzureClient(cfg.AzureEndpoint, cfg.AzureAPIKey, cfg.AzureModel, params, cfg.LLMTimeout)
		base, c.Model, c.close = az, az.Model(), az.Close
	case providerGemini:
		g, err := NewGeminiClient(ctx, cfg.GoogleAPIKey, cfg.GeminiModel, params)
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		base, c.Model = g, g.Model()
	case providerExtractive:
		base, c.Model = Extractive{MaxWords: 100}, "extractive"
	default:
		return nil, fmt.Errorf("unknown summary provider %q", cfg.SummaryProvider)
	}

	c.s = WithInputBudget(Instrument(WithValidation(WithRetry(base, cfg.SummaryMaxRetries, log)), c.Stats), cfg.SummaryMaxInputTokens)
	return c, nil
}

// NewClient wraps an existing summarizer, mainly for tests and embedding.
func NewClient(provider, model string, s Summarizer) *Client {
	stats := NewLLMStats(time.Hour)
	return &Client{Provider: provider, Model: model, Stats: stats, s: Instrument(WithValidation(s), stats)}
}

func (c *Client) Summarize(ctx context.Context, sectionText, heading string) (string, error) {
	return c.s.Summarize(ctx, sectionText, heading)
}

// Close releases resources.
func (c *Client) Close() {
	if c.close != nil {
		c.close()
	}
}

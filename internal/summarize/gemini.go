package summarize

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"
)

const providerGemini = "gemini"

// GeminiClient summarizes with the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
	params Params
}

func NewGeminiClient(ctx context.Context, apiKey, model string, params Params) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("missing GOOGLE_API_KEY")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{client: c, model: model, params: params}, nil
}

// Model returns the Gemini model name.
func (g *GeminiClient) Model() string {
	return g.model
}

func (g *GeminiClient) Summarize(ctx context.Context, sectionText, heading string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(g.params.Temperature)),
		MaxOutputTokens:  int32(g.params.MaxTokens),
		FrequencyPenalty: genai.Ptr(float32(g.params.FrequencyPenalty)),
		PresencePenalty:  genai.Ptr(float32(g.params.PresencePenalty)),
	}
	res, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(BuildPrompt(heading, sectionText)), cfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &SummarizationError{
				Provider:   providerGemini,
				StatusCode: apiErr.Code,
				Body:       apiErr.Message,
				Err:        err,
			}
		}
		return "", &SummarizationError{Provider: providerGemini, Err: err}
	}
	text := strings.TrimSpace(res.Text())
	if text == "" {
		return "", &SummarizationError{Provider: providerGemini, Err: permanent("empty response")}
	}
	return text, nil
}

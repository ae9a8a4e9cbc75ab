package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const providerAzure = "azure"

// AzureClient calls an Azure OpenAI completions deployment.
type AzureClient struct {
	endpoint   string
	apiKey     string
	model      string
	params     Params
	httpClient *http.Client
}

// NewAzureClient targets endpoint, the full completions URL of a deployment
// including its api-version query.
func NewAzureClient(endpoint, apiKey, model string, params Params, timeout time.Duration) *AzureClient {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &AzureClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		params:   params,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type completionRequest struct {
	Model            string  `json:"model,omitempty"`
	Prompt           string  `json:"prompt"`
	MaxTokens        int     `json:"max_tokens"`
	Temperature      float64 `json:"temperature"`
	FrequencyPenalty float64 `json:"frequency_penalty"`
	PresencePenalty  float64 `json:"presence_penalty"`
}

type completionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Model returns the deployment model name.
func (c *AzureClient) Model() string {
	return c.model
}

// Summarize sends one section to the completions endpoint.
func (c *AzureClient) Summarize(ctx context.Context, sectionText, heading string) (string, error) {
	reqBody := completionRequest{
		Model:            c.model,
		Prompt:           BuildPrompt(heading, sectionText),
		MaxTokens:        c.params.MaxTokens,
		Temperature:      c.params.Temperature,
		FrequencyPenalty: c.params.FrequencyPenalty,
		PresencePenalty:  c.params.PresencePenalty,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &SummarizationError{Provider: providerAzure, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &SummarizationError{Provider: providerAzure, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &SummarizationError{
			Provider:   providerAzure,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	var apiResp completionResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", &SummarizationError{Provider: providerAzure, Err: permanent("decode response: %v", err)}
	}
	if apiResp.Error != nil {
		return "", &SummarizationError{Provider: providerAzure, Err: permanent("api error: %s", apiResp.Error.Message)}
	}
	if len(apiResp.Choices) == 0 {
		return "", &SummarizationError{Provider: providerAzure, Err: permanent("empty response")}
	}

	return strings.TrimSpace(apiResp.Choices[0].Text), nil
}

// Close releases resources.
func (c *AzureClient) Close() {
	c.httpClient.CloseIdleConnections()
}

package answer

import (
	"context"
	"net/http"
	"strings"

	"github.com/NeroTheWero/Roblox-Proxy/internal/domain"
)

const (
	DefaultOpenAIURL   = "https://api.openai.com/v1/chat/completions"
	DefaultOpenAIModel = "gpt-3.5-turbo"
)

type openAIRequest struct {
	Model       string               `json:"model"`
	Messages    []domain.ChatMessage `json:"messages"`
	MaxTokens   int                  `json:"max_tokens"`
	Temperature float64              `json:"temperature"`
}

type openAIResponse struct {
	Choices []struct {
		Message domain.ChatMessage `json:"message"`
	} `json:"choices"`
}

// OpenAIClient talks to the chat completions API.
type OpenAIClient struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

// NewOpenAIClient creates an OpenAI client, filling in the default URL and model.
func NewOpenAIClient(baseURL, apiKey, model string, httpClient *http.Client) *OpenAIClient {
	if baseURL == "" {
		baseURL = DefaultOpenAIURL
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OpenAIClient{BaseURL: baseURL, APIKey: apiKey, Model: model, HTTPClient: httpClient}
}

func (c *OpenAIClient) Name() string { return ProviderOpenAI }

func (c *OpenAIClient) Answer(ctx context.Context, req *domain.ChatRequest) (*domain.ChatReply, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, domain.ErrMissingMessage
	}
	if c.APIKey == "" {
		return nil, domain.ErrProviderNotConfigured
	}

	payload := openAIRequest{
		Model:       c.Model,
		Messages:    BuildMessages(req),
		MaxTokens:   150,
		Temperature: 0.7,
	}
	headers := map[string]string{"Authorization": "Bearer " + c.APIKey}

	var resp openAIResponse
	if err := postJSON(ctx, c.HTTPClient, ProviderOpenAI, c.BaseURL, headers, payload, &resp); err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, domain.ErrEmptyCompletion
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, domain.ErrEmptyCompletion
	}
	return &domain.ChatReply{Text: text, Provider: ProviderOpenAI}, nil
}

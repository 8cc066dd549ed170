package answer

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/NeroTheWero/Roblox-Proxy/internal/domain"
)

// DefaultGeminiURL is the generateContent endpoint used when none is configured.
const DefaultGeminiURL = "https://generativelanguage.googleapis.com/v1/models/gemini-pro:generateContent"

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP,omitempty"`
	TopK            int     `json:"topK,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// chatGenerationConfig keeps chat replies short.
var chatGenerationConfig = geminiGenerationConfig{Temperature: 0.7, MaxOutputTokens: 150, TopP: 0.8, TopK: 40}

// promptGenerationConfig is used for raw prompts forwarded by /api/gemini.
var promptGenerationConfig = geminiGenerationConfig{Temperature: 0.7, MaxOutputTokens: 500}

// GeminiClient talks to the Gemini generateContent API.
type GeminiClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewGeminiClient creates a Gemini client; an empty baseURL selects DefaultGeminiURL.
func NewGeminiClient(baseURL, apiKey string, httpClient *http.Client) *GeminiClient {
	if baseURL == "" {
		baseURL = DefaultGeminiURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GeminiClient{BaseURL: baseURL, APIKey: apiKey, HTTPClient: httpClient}
}

func (c *GeminiClient) Name() string { return ProviderGemini }

// Answer sends the system prompt followed by every non-system turn as parts of one content block.
func (c *GeminiClient) Answer(ctx context.Context, req *domain.ChatRequest) (*domain.ChatReply, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, domain.ErrMissingMessage
	}

	var parts []geminiPart
	for _, m := range BuildMessages(req) {
		parts = append(parts, geminiPart{Text: m.Content})
	}

	text, err := c.generate(ctx, parts, chatGenerationConfig)
	if err != nil {
		return nil, err
	}
	return &domain.ChatReply{Text: text, Provider: ProviderGemini}, nil
}

// Prompt forwards a raw prompt with a larger output budget than chat.
func (c *GeminiClient) Prompt(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", domain.ErrMissingPrompt
	}
	return c.generate(ctx, []geminiPart{{Text: prompt}}, promptGenerationConfig)
}

func (c *GeminiClient) generate(ctx context.Context, parts []geminiPart, cfg geminiGenerationConfig) (string, error) {
	if c.APIKey == "" {
		return "", domain.ErrProviderNotConfigured
	}

	endpoint, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", err
	}
	q := endpoint.Query()
	q.Set("key", c.APIKey)
	endpoint.RawQuery = q.Encode()

	payload := geminiRequest{
		Contents:         []geminiContent{{Parts: parts}},
		GenerationConfig: cfg,
	}

	var resp geminiResponse
	if err := postJSON(ctx, c.HTTPClient, ProviderGemini, endpoint.String(), nil, payload, &resp); err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", domain.ErrEmptyCompletion
	}
	return strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text), nil
}

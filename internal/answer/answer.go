// Package answer produces chat replies for the game client, either locally
// from keyword tables or by calling a hosted text-generation API.
package answer

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/NeroTheWero/Roblox-Proxy/internal/domain"
)

// Provider names accepted by New.
const (
	ProviderSimple = "simple"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Answerer turns a chat request into a reply.
type Answerer interface {
	Name() string
	Answer(ctx context.Context, req *domain.ChatRequest) (*domain.ChatReply, error)
}

// Options configures the hosted providers.
type Options struct {
	GeminiAPIKey string
	GeminiURL    string
	OpenAIAPIKey string
	OpenAIURL    string
	OpenAIModel  string
	Timeout      time.Duration
}

// New returns the answerer for the given provider name.
func New(provider string, opts Options) (Answerer, error) {
	httpClient := &http.Client{Timeout: opts.Timeout}

	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderSimple:
		return NewSimple(), nil
	case ProviderGemini:
		return NewGeminiClient(opts.GeminiURL, opts.GeminiAPIKey, httpClient), nil
	case ProviderOpenAI:
		return NewOpenAIClient(opts.OpenAIURL, opts.OpenAIAPIKey, opts.OpenAIModel, httpClient), nil
	default:
		return nil, fmt.Errorf("answer: unknown provider %q", provider)
	}
}

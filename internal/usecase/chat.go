package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/NeroTheWero/Roblox-Proxy/internal/answer"
	"github.com/NeroTheWero/Roblox-Proxy/internal/domain"
	"github.com/NeroTheWero/Roblox-Proxy/internal/metrics"
)

// EmptyMessageReply is sent back when the client posts no message.
const EmptyMessageReply = "I didn't receive any message to respond to. What would you like to talk about?"

// Prompter forwards a raw prompt to a text-generation API.
type Prompter interface {
	Prompt(ctx context.Context, prompt string) (string, error)
}

// ChatUsecase answers the synchronous chat endpoints.
type ChatUsecase struct {
	answerer answer.Answerer
	prompter Prompter
	logger   *zap.Logger
}

// NewChatUsecase creates a new ChatUsecase.
func NewChatUsecase(answerer answer.Answerer, prompter Prompter, logger *zap.Logger) *ChatUsecase {
	return &ChatUsecase{
		answerer: answerer,
		prompter: prompter,
		logger:   logger,
	}
}

// Chat asks the configured provider. When the provider fails the reply comes
// from the limited responder with status "fallback"; only a missing message
// is reported as an error.
func (uc *ChatUsecase) Chat(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		metrics.ChatRequests.WithLabelValues(uc.answerer.Name(), domain.ChatStatusError).Inc()
		return &domain.ChatResponse{Response: EmptyMessageReply, Status: domain.ChatStatusError}, domain.ErrMissingMessage
	}

	reply, err := uc.answerer.Answer(ctx, req)
	if err != nil {
		uc.logger.Warn("Chat provider failed, using fallback reply",
			zap.String("provider", uc.answerer.Name()),
			zap.Error(err),
		)
		metrics.ChatRequests.WithLabelValues(uc.answerer.Name(), domain.ChatStatusFallback).Inc()
		return &domain.ChatResponse{
			Response: answer.FallbackReply(req.Message),
			Status:   domain.ChatStatusFallback,
			Error:    err.Error(),
		}, nil
	}

	status := domain.ChatStatusSuccess
	if reply.Provider == answer.ProviderSimple {
		status = domain.ChatStatusSimple
	}
	metrics.ChatRequests.WithLabelValues(reply.Provider, status).Inc()

	return &domain.ChatResponse{
		Response: reply.Text,
		Status:   status,
		Provider: reply.Provider,
	}, nil
}

// SimpleChat never calls a provider and never fails.
func (uc *ChatUsecase) SimpleChat(req *domain.ChatRequest) *domain.ChatResponse {
	if req == nil || strings.TrimSpace(req.Message) == "" {
		metrics.ChatRequests.WithLabelValues(answer.ProviderSimple, domain.ChatStatusErrorWithFallback).Inc()
		return &domain.ChatResponse{Response: EmptyMessageReply, Status: domain.ChatStatusErrorWithFallback}
	}

	metrics.ChatRequests.WithLabelValues(answer.ProviderSimple, domain.ChatStatusLimited).Inc()
	return &domain.ChatResponse{
		Response: answer.LimitedReply(req.Message),
		Status:   domain.ChatStatusLimited,
	}
}

// Prompt forwards a raw prompt. Errors are the prompter's own, so callers can
// tell a missing key from an upstream failure.
func (uc *ChatUsecase) Prompt(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", domain.ErrMissingPrompt
	}
	text, err := uc.prompter.Prompt(ctx, prompt)
	if err != nil {
		uc.logger.Warn("Prompt request failed", zap.Error(err))
		return "", err
	}
	return text, nil
}

package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/NeroTheWero/Roblox-Proxy/internal/domain"
	"github.com/NeroTheWero/Roblox-Proxy/internal/usecase"
)

const (
	messageRequiredError = "Message is required"
	unreadableBodyReply  = "I'm having trouble understanding your message. Please try again."
)

// ChatHandler handles the synchronous chat endpoints.
type ChatHandler struct {
	chatUC *usecase.ChatUsecase
	logger *zap.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatUC *usecase.ChatUsecase, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chatUC: chatUC, logger: logger}
}

// Chat handles POST /api/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req domain.ChatRequest
	if err := decodeLenient(c, &req); err != nil && !errors.Is(err, errEmptyBody) {
		h.logger.Debug("Undecodable chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, domain.ChatResponse{
			Response: unreadableBodyReply,
			Status:   domain.ChatStatusError,
			Error:    "Invalid request body",
		})
		return
	}

	resp, err := h.chatUC.Chat(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrMissingMessage) {
			resp.Error = messageRequiredError
			c.JSON(http.StatusBadRequest, resp)
			return
		}
		h.logger.Error("Chat failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": domain.ChatStatusError, "error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SimpleChat handles POST /api/simple-chat. It always answers 200 so the
// game client has something to show.
func (h *ChatHandler) SimpleChat(c *gin.Context) {
	var req domain.ChatRequest
	if err := decodeLenient(c, &req); err != nil {
		c.JSON(http.StatusOK, domain.ChatResponse{
			Response: unreadableBodyReply,
			Status:   domain.ChatStatusErrorWithFallback,
		})
		return
	}
	c.JSON(http.StatusOK, h.chatUC.SimpleChat(&req))
}

// Prompt handles POST /api/gemini
func (h *ChatHandler) Prompt(c *gin.Context) {
	var req domain.PromptRequest
	_ = decodeLenient(c, &req)

	text, err := h.chatUC.Prompt(c.Request.Context(), req.Prompt)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingPrompt):
			c.JSON(http.StatusBadRequest, domain.PromptResponse{Error: "Missing prompt parameter"})
		case errors.Is(err, domain.ErrProviderNotConfigured):
			c.JSON(http.StatusInternalServerError, domain.PromptResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusBadGateway, domain.PromptResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, domain.PromptResponse{Success: true, Response: text})
}

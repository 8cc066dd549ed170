package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/NeroTheWero/Roblox-Proxy/internal/domain"
	"github.com/NeroTheWero/Roblox-Proxy/internal/usecase"
)

const statusNotFound = "not_found"

// RelayHandler handles the poll-based request relay used by game servers
// that cannot hold a connection open for a slow upstream.
type RelayHandler struct {
	registerUC *usecase.RegisterJobUsecase
	resultUC   *usecase.GetResultUsecase
	logger     *zap.Logger
}

// NewRelayHandler creates a new RelayHandler.
func NewRelayHandler(registerUC *usecase.RegisterJobUsecase, resultUC *usecase.GetResultUsecase, logger *zap.Logger) *RelayHandler {
	return &RelayHandler{
		registerUC: registerUC,
		resultUC:   resultUC,
		logger:     logger,
	}
}

// Register handles POST /api/poll-register
func (h *RelayHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := decodeLenient(c, &req); err != nil {
		if isBodyTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"status": "error", "error": "Request body too large"})
			return
		}
		h.logger.Debug("Undecodable poll registration", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": domain.ErrInvalidRequest.Error()})
		return
	}

	resp, err := h.registerUC.Execute(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
		default:
			h.logger.Error("Register poll request failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Result handles GET /api/poll-result?id=
func (h *RelayHandler) Result(c *gin.Context) {
	res, err := h.resultUC.Execute(c.Request.Context(), c.Query("id"))
	if err != nil {
		writeNotFound(c)
		return
	}
	c.JSON(http.StatusOK, res)
}

func writeNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"status": statusNotFound,
		"error":  domain.ErrNotFound.Error(),
	})
}

package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/NeroTheWero/Roblox-Proxy/internal/domain"
	"github.com/NeroTheWero/Roblox-Proxy/internal/usecase"
)

const streamPollInterval = 500 * time.Millisecond

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // same policy as the CORS middleware
	},
}

// WebSocketHandler streams poll results so a client does not have to loop
// over /api/poll-result itself.
type WebSocketHandler struct {
	resultUC *usecase.GetResultUsecase
	interval time.Duration
	logger   *zap.Logger
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(resultUC *usecase.GetResultUsecase, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		resultUC: resultUC,
		interval: streamPollInterval,
		logger:   logger,
	}
}

// Stream handles GET /api/poll-stream?id= (WebSocket upgrade). The terminal
// result is consumed exactly as a poll would consume it.
func (h *WebSocketHandler) Stream(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		writeNotFound(c)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.logger.Debug("WebSocket connection opened", zap.String("job_id", id))

	ctx := c.Request.Context()
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		if done := h.push(c, conn, id); done {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// push writes the current poll result and reports whether the stream is over.
func (h *WebSocketHandler) push(c *gin.Context, conn *websocket.Conn, id string) bool {
	res, err := h.resultUC.Execute(c.Request.Context(), id)
	if err != nil {
		_ = conn.WriteJSON(gin.H{"status": statusNotFound, "error": domain.ErrNotFound.Error()})
		return true
	}

	if err := conn.WriteJSON(res); err != nil {
		h.logger.Debug("WebSocket write failed (client disconnected)", zap.Error(err))
		return true
	}

	if res.State.IsTerminal() {
		h.logger.Debug("Job reached terminal state, closing WebSocket", zap.String("job_id", id))
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		return true
	}
	return false
}

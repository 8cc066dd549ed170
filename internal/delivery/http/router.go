package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/NeroTheWero/Roblox-Proxy/internal/delivery/http/middleware"
	"github.com/NeroTheWero/Roblox-Proxy/internal/repository"
	"github.com/NeroTheWero/Roblox-Proxy/internal/usecase"
)

// RouterDeps groups everything the router wires into handlers.
type RouterDeps struct {
	RegisterUC *usecase.RegisterJobUsecase
	ResultUC   *usecase.GetResultUsecase
	ChatUC     *usecase.ChatUsecase
	Registry   repository.JobRegistry
	RateStore  repository.RateLimitStore
	Redis      *goredis.Client // optional
	Provider   string
	Logger     *zap.Logger

	RateLimitPerMin int
	MaxBodyBytes    int64
}

// NewRouter creates and configures the Gin router with all routes and middleware.
func NewRouter(deps *RouterDeps) *gin.Engine {
	router := gin.New()
	logger := deps.Logger

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger(logger))

	// Health and metrics (no rate limiting)
	healthHandler := NewHealthHandler(deps.Registry, deps.Redis, deps.Provider, logger)
	router.GET("/", healthHandler.Root)
	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(middleware.BodySizeLimit(deps.MaxBodyBytes))
	api.Use(middleware.RateLimiter(deps.RateStore, deps.RateLimitPerMin, logger))
	{
		// Poll relay
		relayHandler := NewRelayHandler(deps.RegisterUC, deps.ResultUC, logger)
		api.POST("/poll-register", relayHandler.Register)
		api.GET("/poll-result", relayHandler.Result)

		// WebSocket alternative to polling
		wsHandler := NewWebSocketHandler(deps.ResultUC, logger)
		api.GET("/poll-stream", wsHandler.Stream)

		// Synchronous chat
		chatHandler := NewChatHandler(deps.ChatUC, logger)
		api.POST("/chat", chatHandler.Chat)
		api.POST("/simple-chat", chatHandler.SimpleChat)
		api.POST("/gemini", chatHandler.Prompt)
	}

	return router
}

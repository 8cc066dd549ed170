package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/NeroTheWero/Roblox-Proxy/internal/answer"
	"github.com/NeroTheWero/Roblox-Proxy/internal/config"
	handler "github.com/NeroTheWero/Roblox-Proxy/internal/delivery/http"
	"github.com/NeroTheWero/Roblox-Proxy/internal/logger"
	"github.com/NeroTheWero/Roblox-Proxy/internal/pool"
	"github.com/NeroTheWero/Roblox-Proxy/internal/repository"
	"github.com/NeroTheWero/Roblox-Proxy/internal/repository/memory"
	redisrepo "github.com/NeroTheWero/Roblox-Proxy/internal/repository/redis"
	"github.com/NeroTheWero/Roblox-Proxy/internal/sweeper"
	"github.com/NeroTheWero/Roblox-Proxy/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.Server.GinMode, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting Roblox AI proxy server",
		zap.String("provider", cfg.Providers.APIType),
		zap.Int("relay_workers", cfg.Relay.Workers),
	)

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to Redis when configured; rate limiting stays per-process otherwise
	var rdb *redis.Client
	var rateStore repository.RateLimitStore = memory.NewMemoryRateLimitStore(nil)
	if cfg.Redis.URL != "" {
		redisOpts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal("Failed to parse Redis URL", zap.Error(err))
		}
		rdb = redis.NewClient(redisOpts)
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to ping Redis", zap.Error(err))
		}
		rateStore = redisrepo.NewRedisRateLimitStore(rdb)
		log.Info("Connected to Redis")
	}

	// Initialize answer providers
	httpClient := &http.Client{Timeout: cfg.Providers.Timeout}
	answerer, err := answer.New(cfg.Providers.APIType, answer.Options{
		GeminiAPIKey: cfg.Providers.GeminiAPIKey,
		GeminiURL:    cfg.Providers.GeminiURL,
		OpenAIAPIKey: cfg.Providers.OpenAIAPIKey,
		OpenAIURL:    cfg.Providers.OpenAIURL,
		OpenAIModel:  cfg.Providers.OpenAIModel,
		Timeout:      cfg.Providers.Timeout,
	})
	if err != nil {
		log.Fatal("Failed to initialize answer provider", zap.Error(err))
	}
	gemini := answer.NewGeminiClient(cfg.Providers.GeminiURL, cfg.Providers.GeminiAPIKey, httpClient)
	dispatcher := answer.NewDispatcher(answerer, cfg.Relay.UpstreamHosts, &http.Client{}, log)

	// Initialize registry and relay pipeline
	registry := memory.NewMemoryJobRegistry(cfg.Relay.Retention, nil)
	executeUC := usecase.NewExecuteJobUsecase(registry, dispatcher, log)

	workers := pool.NewWorkerPool(cfg.Relay.Workers, cfg.Relay.QueueSize, executeUC, log)
	workers.Start(ctx)

	sweep, err := sweeper.New(sweeper.Options{
		Registry:  registry,
		Interval:  cfg.Relay.SweepInterval,
		Retention: cfg.Relay.Retention,
		Logger:    log,
	})
	if err != nil {
		log.Fatal("Failed to initialize sweeper", zap.Error(err))
	}

	// Initialize use cases
	registerUC := usecase.NewRegisterJobUsecase(registry, workers, log)
	resultUC := usecase.NewGetResultUsecase(registry, log)
	chatUC := usecase.NewChatUsecase(answerer, gemini, log)

	// Initialize router
	router := handler.NewRouter(&handler.RouterDeps{
		RegisterUC:      registerUC,
		ResultUC:        resultUC,
		ChatUC:          chatUC,
		Registry:        registry,
		RateStore:       rateStore,
		Redis:           rdb,
		Provider:        answerer.Name(),
		Logger:          log,
		RateLimitPerMin: cfg.Server.RateLimit,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("API server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return sweep.Run(gctx)
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down API server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
	}

	stop()
	workers.Stop()
	log.Info("API server stopped")
}

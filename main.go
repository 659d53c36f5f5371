package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/quizlab/quiz-service/internal/cache"
	"github.com/quizlab/quiz-service/internal/config"
	"github.com/quizlab/quiz-service/internal/events"
	"github.com/quizlab/quiz-service/internal/handlers"
	"github.com/quizlab/quiz-service/internal/repositories/postgres"
	"github.com/quizlab/quiz-service/internal/services"
	"github.com/quizlab/quiz-service/internal/utils"
	"github.com/quizlab/quiz-service/internal/validator"
	"github.com/quizlab/quiz-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Redis is optional; without it the quiz cache degrades to
	// straight database reads.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			slogLogger.Warn("redis unavailable, running without cache", "error", err)
		}
	}
	cacheManager := cache.NewCacheManager(redisClient)

	repoManager := postgres.NewManager(db, cacheManager, slogLogger)

	v := validator.New()

	// Kafka is optional too; without brokers attempt events are
	// simply not emitted.
	var publisher events.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = events.NewKafkaEventPublisher(cfg.KafkaBrokers, slogLogger)
		if err != nil {
			log.Fatalf("Failed to initialize event publisher: %v", err)
		}
	}

	serviceManager := services.NewDefaultServiceManager(repoManager, db, slogLogger, v, publisher)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	handlers.SetupMiddleware(router, logger)

	handlerManager := handlers.NewHandlerManager(serviceManager, v, logger, cfg.Casdoor)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slogLogger.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slogLogger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slogLogger.Error("server shutdown failed", "error", err)
	}

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			slogLogger.Error("event publisher close failed", "error", err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			slogLogger.Error("redis close failed", "error", err)
		}
	}
	if err := repoManager.Close(); err != nil {
		slogLogger.Error("database close failed", "error", err)
	}

	slogLogger.Info("shutdown complete")
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quizzify/internal/app"
	"quizzify/internal/config"
	"quizzify/internal/handler"
	"quizzify/internal/logger"
	"quizzify/internal/middleware"
	"quizzify/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// maxSessions caps the in-memory quiz sessions; the oldest are evicted first.
const maxSessions = 1000

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
		)
		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	components, err := app.New(context.Background(), cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to wire quiz pipeline", zap.Error(err))
	}
	defer components.Close()

	v := validation.NewValidator(cfg.Quiz.MaxQuestions)
	handlers := handler.Handlers{
		Quiz:       handler.NewQuizHandler(components.Quizzes, handler.NewSessionStore(maxSessions), v, cfg.Quiz.DefaultTopic),
		Documents:  handler.NewDocumentHandler(components.Indexing, components.Ingestor, v),
		Health:     handler.NewHealthHandler(components.Index),
		Validation: middleware.NewValidationMiddleware(v),
	}

	fiberApp := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		BodyLimit:    32 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	fiberApp.Use(requestLogger())
	fiberApp.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       300,
	}))
	fiberApp.Use(recover.New())

	handler.RegisterRoutes(fiberApp.Group("/api"), handlers)

	go func() {
		appLogger.Info("Starting server",
			zap.Int("port", cfg.Server.Port),
			zap.String("env", cfg.Logger.Env),
			zap.String("llm_provider", cfg.LLM.Provider),
			zap.String("index", cfg.Retrieval.Index),
		)
		if err := fiberApp.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fiberApp.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}

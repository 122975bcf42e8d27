// FormSentry - Server Entry Point
//
// This is the main entry point for the AI-assisted form-validation
// service. It initializes all dependencies and starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/formsentry/internal/ai"
	"github.com/formsentry/internal/config"
	"github.com/formsentry/internal/handler"
	"github.com/formsentry/internal/logger"
	"github.com/formsentry/internal/rules"
	"github.com/formsentry/internal/service"
	"github.com/formsentry/pkg/sanitizer"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file if it exists (development)
	_ = godotenv.Load()

	// Determine if we're in development mode
	isDev := os.Getenv("GIN_MODE") != "release"

	zapLogger, err := logger.New(isDev)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting FormSentry",
		zap.Bool("development", isDev),
	)

	cfg, err := config.Load()
	if err != nil {
		zapLogger.Fatal("failed to load configuration", zap.Error(err))
	}

	zapLogger.Info("configuration loaded",
		zap.String("port", cfg.Server.Port),
		zap.String("ai_model", cfg.AI.Model),
		zap.Bool("mock_mode", cfg.AI.MockMode),
		zap.Bool("rules_enabled", cfg.Processing.EnableRules),
	)

	promptBuilder, err := ai.NewDefaultPromptBuilder()
	if err != nil {
		zapLogger.Fatal("failed to create prompt builder", zap.Error(err))
	}

	var aiClient ai.Client
	if cfg.AI.MockMode {
		zapLogger.Warn("running in mock mode - AI responses are simulated")
		aiClient = ai.NewMockClient(zapLogger)
	} else {
		aiClient, err = ai.NewOpenAIClient(&cfg.AI, promptBuilder, ai.DefaultPricingTable(), zapLogger)
		if err != nil {
			zapLogger.Fatal("failed to create AI client", zap.Error(err))
		}
	}

	ruleEngine := rules.NewEngine(
		rules.DefaultRules(),
		cfg.Processing.RuleConfidenceThreshold,
		zapLogger,
	)

	fieldSanitizer := sanitizer.New(cfg.Processing.MaxFieldSize)

	validatorSvc := service.NewValidator(
		aiClient,
		promptBuilder,
		ruleEngine,
		fieldSanitizer,
		service.ValidatorConfig{
			EnableRules: cfg.Processing.EnableRules,
			MaxRetries:  cfg.Processing.MaxRetries,
		},
		zapLogger,
	)

	validateHandler := handler.NewValidateHandler(validatorSvc, zapLogger)
	healthHandler := handler.NewHealthHandler(zapLogger)
	readyHandler := handler.NewReadyHandler(aiClient.Available, zapLogger)

	if !isDev {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(handler.RecoveryMiddleware(zapLogger))
	router.Use(handler.RequestIDMiddleware())
	router.Use(handler.LoggingMiddleware(zapLogger))
	router.Use(handler.CORSMiddleware())

	router.GET("/health", healthHandler.Handle)
	router.GET("/ready", readyHandler.Handle)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/validate", validateHandler.Handle)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down server...")

	// Give the server 10 seconds to finish processing
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("server stopped")
}

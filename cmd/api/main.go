package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/analytics"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/api/handlers"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/chat"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/company"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/interaction"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/llm"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/metrics"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/middleware/ratelimit"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/middleware/security"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/middleware/validation"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/textproc"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/wordcloud"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/pkg/config"
	appLogger "github.com/Pabandres85/Proyecto-LLM-deepseek/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting chatbot API server")

	metrics.Init()

	companyStore := company.NewStore(cfg.Storage.CompaniesPath, cfg.Storage.BackupPath)
	if count, err := companyStore.Count(); err == nil {
		metrics.CompaniesTotal.Set(float64(count))
	} else {
		appLogger.Warn("Failed to read company store", zap.Error(err))
	}

	interactionLog := interaction.NewLog(cfg.Storage.LogPath)

	llmClient := llm.NewClient(
		cfg.LLM.BaseURL,
		cfg.LLM.APIKey,
		cfg.LLM.Model,
		cfg.LLM.Temperature,
		cfg.LLM.MaxTokens,
		cfg.LLM.TimeoutSec,
	)

	sessions := chat.NewSessionManager()
	chatService := chat.NewService(sessions, companyStore, llmClient, interactionLog)

	stopwords := textproc.DefaultSpanish()
	if len(cfg.Analytics.Stopwords) > 0 {
		stopwords = textproc.NewStopwordSet(cfg.Analytics.Stopwords)
	}

	analyticsService := analytics.NewService(interactionLog, stopwords)
	renderer := wordcloud.NewRenderer(cfg.Wordcloud.FontPath, cfg.Wordcloud.Width, cfg.Wordcloud.Height)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.RateLimit.MaxRequestsPerMinute,
		ExemptPrefixes:       []string{"/api/v1/health", "/api/v1/ready", "/metrics"},
	})
	defer limiter.Stop()

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Session-ID",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))
	app.Use(limiter.Middleware())
	app.Use(validation.Middleware(validation.Config{
		MaxMessageLength: 5000,
		MaxProfileSize:   cfg.Server.BodyLimit,
	}))

	chatHandler := handlers.NewChatHandler(chatService, sessions)
	companyHandler := handlers.NewCompanyHandler(companyStore)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, renderer, cfg.Analytics.TopK)
	wsHandler := handlers.NewWebSocketHandler(chatService, sessions)

	api := app.Group("/api/v1")

	api.Post("/sessions", chatHandler.CreateSession)
	api.Post("/chat", chatHandler.SendMessage)
	api.Get("/sessions/:id/history", chatHandler.GetHistory)
	api.Delete("/sessions/:id/history", chatHandler.ClearHistory)
	api.Post("/feedback", chatHandler.SubmitFeedback)

	api.Get("/companies", companyHandler.List)
	api.Post("/companies", companyHandler.Create)
	api.Get("/companies/:name", companyHandler.Get)
	api.Put("/companies/:name", companyHandler.Update)
	api.Delete("/companies/:name", companyHandler.Delete)
	api.Get("/companies/:name/deletions", companyHandler.Deletions)

	api.Get("/analytics/interactions", analyticsHandler.Interactions)
	api.Get("/analytics/summary", analyticsHandler.Summary)
	api.Get("/analytics/terms", analyticsHandler.TopTerms)
	api.Get("/analytics/wordcloud", analyticsHandler.Wordcloud)
	api.Get("/analytics/export", analyticsHandler.Export)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/chat", websocket.New(wsHandler.HandleConnection))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/legilight/backend/internal/analysis"
	"github.com/legilight/backend/internal/api/handlers"
	cacheredis "github.com/legilight/backend/internal/cache/redis"
	"github.com/legilight/backend/internal/llm"
	"github.com/legilight/backend/internal/metrics"
	"github.com/legilight/backend/internal/middleware/ratelimit"
	"github.com/legilight/backend/internal/middleware/security"
	"github.com/legilight/backend/internal/middleware/validation"
	"github.com/legilight/backend/internal/qa"
	"github.com/legilight/backend/internal/samples"
	"github.com/legilight/backend/internal/storage"
	"github.com/legilight/backend/internal/storage/sqlite"
	"github.com/legilight/backend/pkg/config"
	appLogger "github.com/legilight/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting LegiLight API server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	if err := sqliteClient.InitSchema(); err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	var store storage.RecordStore = sqliteClient
	if cfg.Redis.Enabled {
		redisClient, err := cacheredis.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLSec)*time.Second,
		)
		if err != nil {
			appLogger.Fatal("Failed to create Redis client", zap.Error(err))
		}
		defer redisClient.Close()
		store = cacheredis.NewCachedStore(sqliteClient, redisClient)
	}

	llmClient := llm.NewClient(
		cfg.LLM.APIKey,
		cfg.LLM.Model,
		cfg.LLM.Temperature,
		cfg.LLM.MaxTokens,
		cfg.LLM.TimeoutSec,
	)

	analyzer := analysis.NewAnalyzer(store, llmClient, analysis.Limits{
		MinDocumentChars: cfg.Analysis.MinDocumentChars,
		MaxDocumentChars: cfg.Analysis.MaxDocumentChars,
	})
	qaEngine := qa.NewEngine(store, llmClient, qa.Limits{
		MinQuestionChars: cfg.Analysis.MinQuestionChars,
		MaxQuestionChars: cfg.Analysis.MaxQuestionChars,
	})

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.Analysis.RateLimitPerMin,
		Logger:               appLogger.GetLogger(),
	})
	defer limiter.Stop()

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORS.AllowedOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		IsDevelopment:  cfg.Server.Development,
	}))
	app.Use(limiter.Middleware())
	app.Use(validation.Middleware(validation.Config{
		MaxDocumentChars: cfg.Analysis.MaxDocumentChars,
		MaxQuestionChars: cfg.Analysis.MaxQuestionChars,
		Logger:           appLogger.GetLogger(),
	}))

	analysisHandler := handlers.NewAnalysisHandler(analyzer)
	questionHandler := handlers.NewQuestionHandler(qaEngine)
	documentHandler := handlers.NewDocumentHandler(store, samples.Default(), cfg.Analysis.ListLimit)
	healthHandler := handlers.NewHealthHandler(sqliteClient, llmClient)
	chatHandler := handlers.NewChatHandler(qaEngine)

	api := app.Group("/api")

	api.Get("/health", healthHandler.Health)
	api.Get("/sample-contracts", documentHandler.SampleContracts)
	api.Post("/analyze/document", analysisHandler.AnalyzeDocument)
	api.Post("/analyze/upload", analysisHandler.AnalyzeUpload)
	api.Post("/question", questionHandler.AskQuestion)
	api.Get("/documents", documentHandler.ListDocuments)
	api.Get("/document/:analysis_id", documentHandler.GetDocument)
	api.Delete("/document/:analysis_id", documentHandler.DeleteDocument)

	api.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	api.Get("/ws/chat", websocket.New(chatHandler.HandleConnection))

	app.Get("/metrics", metrics.Handler())

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

package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"billsense/internal/analysis"
	"billsense/internal/config"
	"billsense/internal/handler"
	"billsense/internal/logger"
	"billsense/internal/repository/postgres"
	"billsense/internal/router"
	"billsense/internal/sentiment"
	"billsense/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	billingRepo := postgres.NewBillingRepo(db)
	followUpRepo := postgres.NewFollowUpRepo(db)
	summaryRepo := postgres.NewSentimentSummaryRepo(db)

	// Initialize services
	sentimentAnalyzer := sentiment.NewAnalyzer(&cfg.Sentiment)
	sentimentSvc := sentiment.NewService(followUpRepo, summaryRepo, sentimentAnalyzer, cfg.Sentiment.MaxFollowups, zlog)
	analyzer := analysis.NewAnalyzer(zlog)
	billingSvc := service.NewBillingService(billingRepo, sentimentSvc, analyzer, cfg.Analysis, zlog)

	// Initialize handlers
	billingH := handler.NewBillingHandler(billingSvc, zlog)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, zlog, billingH, healthH)

	zlog.Info("server starting",
		zap.String("port", cfg.Server.Port),
		zap.String("environment", cfg.Server.Environment),
	)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

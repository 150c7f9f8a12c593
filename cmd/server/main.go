package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/claimguard/claimguard/internal/config"
	httpserver "github.com/claimguard/claimguard/internal/interfaces/http"
	"github.com/claimguard/claimguard/internal/medical"
	"github.com/claimguard/claimguard/internal/normalizer"
	"github.com/claimguard/claimguard/internal/notification"
	"github.com/claimguard/claimguard/internal/policy"
	"github.com/claimguard/claimguard/internal/report"
	"github.com/claimguard/claimguard/internal/repository"
	"github.com/claimguard/claimguard/internal/review"
	"github.com/claimguard/claimguard/internal/service"
	"github.com/claimguard/claimguard/internal/vision"
	"github.com/claimguard/claimguard/internal/worker"
	"github.com/claimguard/claimguard/pkg/database"
	"github.com/claimguard/claimguard/pkg/utils"
)

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting ClaimGuard AI",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	for _, dir := range []string{
		filepath.Dir(cfg.Database.Path),
		cfg.Server.UploadDir,
		cfg.Report.OutputDir,
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Fatal("Failed to create directory",
				zap.String("dir", dir), zap.Error(err))
		}
	}

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	claimRepo := repository.NewClaimRepository(db, logger)

	policyEngine, err := policy.NewEngine(cfg.Policy.RulesPath, logger)
	if err != nil {
		logger.Fatal("Failed to load policy rules", zap.Error(err))
	}

	visionAgent := vision.NewAgent(cfg.OpenAI.APIKey, cfg.OpenAI.VisionModel, logger)
	medicalJudge := medical.NewJudge(cfg.OpenAI.APIKey, cfg.OpenAI.JudgeModel, logger)
	resultNormalizer := normalizer.NewResultNormalizer(logger)

	var sender notification.MessageSender
	if cfg.Lark.AppID != "" {
		sender = notification.NewLarkClient(notification.Config{
			AppID:          cfg.Lark.AppID,
			AppSecret:      cfg.Lark.AppSecret,
			ReviewerChatID: cfg.Lark.ReviewerChatID,
		}, logger)
	}
	notifier := notification.NewReviewerNotifier(sender, cfg.Lark.ReviewerChatID, logger)

	session := review.NewSession(logger)

	analysisService := service.NewAnalysisService(
		visionAgent,
		medicalJudge,
		policyEngine,
		resultNormalizer,
		claimRepo,
		notifier,
		session,
		logger,
	)

	historyView := worker.NewHistoryView()
	historyService := service.NewHistoryService(claimRepo, historyView, logger)

	manager := worker.NewManager(logger)
	manager.Register(worker.NewHistoryPoller(claimRepo, historyView, cfg.Worker.HistoryInterval, logger))
	manager.Register(worker.NewHealthPoller(db, historyView, cfg.Worker.HealthInterval, logger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := manager.StartAll(ctx); err != nil {
		logger.Fatal("Failed to start background workers", zap.Error(err))
	}
	defer manager.StopAll()

	exporter := report.NewExporter(cfg.Report.OutputDir, logger)

	handlers := httpserver.NewHandlers(
		analysisService,
		historyService,
		exporter,
		resultNormalizer,
		cfg.Server.UploadDir,
		logger,
	)
	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		UploadDir:    cfg.Server.UploadDir,
	}, handlers, logger)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("Shutdown signal received")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited")
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"diet-planner/internal/app"
	"diet-planner/internal/config"
	"diet-planner/internal/database"
	"diet-planner/internal/llm"
	"diet-planner/internal/metrics"
	"diet-planner/internal/planner"
	"diet-planner/internal/shopping"
	"diet-planner/internal/storage"
	"diet-planner/internal/telegram"
)

// Execution metrics older than this are swept daily.
const metricsRetention = 90 * 24 * time.Hour

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("bot exited", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	cfg, err := config.NewFromEnv()
	if err != nil {
		return err
	}
	if cfg.TelegramBotToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if cfg.TelegramWebhookURL == "" {
		return errors.New("TELEGRAM_WEBHOOK_URL environment variable not set")
	}

	ctx := context.Background()

	db, err := database.NewDB(cfg.DatabasePath, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	textGen, err := llm.NewClient(ctx, cfg)
	if err != nil {
		return err
	}
	if closer, ok := textGen.(llm.Closer); ok {
		defer closer.Close()
	}

	templates, err := storage.NewTemplateStore(cfg.TemplateDir, logger)
	if err != nil {
		return err
	}

	metricsStore := metrics.NewStore(db.SQL)
	application, err := app.New(
		textGen,
		planner.NewPlanRepository(db.SQL),
		app.NewProfileRepository(db.SQL),
		metricsStore,
		shopping.NewRepository(db.SQL),
		templates,
		logger,
	)
	if err != nil {
		return err
	}

	bot, err := telegram.NewBot(cfg.TelegramBotToken, cfg.TelegramWebhookURL, cfg.TelegramAllowedUserIDs, application, logger)
	if err != nil {
		return err
	}

	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			deleted, err := metricsStore.Cleanup(context.Background(), metricsRetention)
			if err != nil {
				logger.Warn("metrics cleanup failed", zap.Error(err))
				continue
			}
			logger.Info("metrics cleanup", zap.Int64("deleted", deleted))
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/webhook", bot.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening for webhook updates", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

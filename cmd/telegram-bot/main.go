package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"fridge-planner/internal/api"
	"fridge-planner/internal/config"
	"fridge-planner/internal/database"
	"fridge-planner/internal/logger"
	"fridge-planner/internal/metrics"
	"fridge-planner/internal/pantry"
	"fridge-planner/internal/plan"
	"fridge-planner/internal/session"
	"fridge-planner/internal/telegram"
)

func main() {
	_ = godotenv.Load()
	logger.Init()
	defer logger.Close()

	cfg, err := config.NewFromEnv()
	if err != nil {
		logger.Error("failed to load config", zap.Error(err))
		os.Exit(1)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to initialize database", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	sessionRepo := session.NewRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)
	client := api.NewClient(cfg, sessionRepo, metricsStore)

	pantryStore := pantry.NewStore(client)
	scheduler := plan.NewScheduler(client)

	bot, err := telegram.NewBot(cfg, pantryStore, scheduler, metricsStore)
	if err != nil {
		logger.Error("failed to initialize telegram bot", zap.Error(err))
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: nil,
	}

	go func() {
		logger.Info("telegram bot server listening", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("server exiting")
}

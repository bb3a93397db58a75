package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"invoice-recon/internal/azure"
	"invoice-recon/internal/common"
	"invoice-recon/internal/export"
	"invoice-recon/internal/pipeline"
	"invoice-recon/internal/server"
)

func main() {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	client := azure.NewClient(azure.Config{
		Endpoint:     cfg.Azure.Endpoint,
		APIKey:       cfg.Azure.APIKey,
		APIVersion:   cfg.Azure.APIVersion,
		Timeout:      cfg.Azure.Timeout,
		PollInterval: cfg.Azure.PollInterval,
	}, logger)

	pipe := pipeline.New(client, cfg.Batch, logger)
	exportService := export.NewService(logger)
	store := server.NewRunStore(cfg.Server.MaxStoredRuns)
	srv := server.New(pipe, exportService, store, logger)

	gin.SetMode(gin.ReleaseMode)
	router := srv.Router()

	logger.Info("http server listening", "addr", cfg.Server.HTTPAddr)
	if err := router.Run(cfg.Server.HTTPAddr); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

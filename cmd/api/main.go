package main

import (
	"context"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ytrecords/internal/api"
	"github.com/ytrecords/internal/config"
	"github.com/ytrecords/internal/models"
	"golang.org/x/exp/slog"
	"google.golang.org/api/option"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	var store models.SnapshotStore
	if cfg.DBPath != "" {
		db, err := models.NewDatabase(cfg.DBPath, logger)
		if err != nil {
			logger.Error("failed to initialize database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		store = db
	}

	var opts []option.ClientOption
	if cfg.APIBaseURL != "" {
		opts = append(opts, option.WithEndpoint(strings.TrimSuffix(cfg.APIBaseURL, "/")+"/"))
	}
	youtubeAPI, err := api.NewYouTubeAPI(ctx, cfg.YouTubeAPIKey, opts...)
	if err != nil {
		logger.Error("failed to initialize YouTube API", "error", err)
		os.Exit(1)
	}

	server := api.NewServer(youtubeAPI, store, cfg.AllowedOrigins, logger)

	logger.Info("server starting", "port", cfg.Port)
	if err := server.Start(cfg.Port); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}

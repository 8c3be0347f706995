// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the LIS Lab API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"lislab/internal/cache"
	"lislab/internal/config"
	"lislab/internal/database"
	"lislab/internal/handlers"
	"lislab/internal/mail"
	"lislab/internal/router"
	"lislab/internal/sidebar"
	"lislab/internal/social"
	"lislab/internal/storage"
	"lislab/internal/store"
	"lislab/internal/token"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (Redis-compatible token store + sidebar cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	tokens := token.NewStore(valkeyClient)
	sidebarCache := cache.NewSidebarCache(valkeyClient, cache.DefaultSidebarTTL)

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	contentStore := store.NewContentStore(db)
	favoriteStore := store.NewFavoriteStore(db)
	commentStore := store.NewCommentStore(db)
	boardStore := store.NewBoardStore(db)
	mailingStore := store.NewMailingStore(db)
	statsStore := store.NewStatsStore(db)

	// Connect to S3-compatible object storage (optional, the app works
	// without it; uploads then return 503).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, image uploads disabled")
	}

	// Social login providers. Providers without credentials stay disabled.
	socialService := social.NewService(cfg, userStore)

	// Sidebar renderer backed by the content store and the Valkey cache.
	sidebarRenderer := sidebar.NewRenderer(&sidebar.StoreLister{Contents: contentStore}, sidebarCache)

	// Mailing campaign dispatch over SMTP.
	dispatcher := mail.NewDispatcher(mail.NewSMTPSender(cfg), mailingStore, cfg.BaseURL)

	// Create handler groups with their dependencies.
	deps := router.Deps{
		Tokens:     tokens,
		Contents:   handlers.NewContents(categoryStore, contentStore, favoriteStore, sidebarRenderer, sidebarCache, cfg.BaseURL),
		Accounts:   handlers.NewAccounts(userStore, tokens),
		Social:     handlers.NewSocial(socialService, tokens),
		Boards:     handlers.NewBoards(boardStore),
		Comments:   handlers.NewComments(commentStore),
		Mailing:    handlers.NewMailing(mailingStore, dispatcher),
		Statistics: handlers.NewStatistics(statsStore),
		Uploads:    handlers.NewUploads(storageClient),
	}

	r := router.New(deps)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

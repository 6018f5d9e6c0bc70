package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"chitchat/internal/blob"
	"chitchat/internal/config"
	"chitchat/internal/domain"
	"chitchat/internal/feed"
	"chitchat/internal/httpserver"
	"chitchat/internal/logger"
	"chitchat/internal/security"
	"chitchat/internal/store/pebble"
	"chitchat/internal/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.LogLevel, cfg.Debug); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Users always live in sqlite; messages go to the configured driver.
	db, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		logger.Log.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := sqlite.Migrate(db); err != nil {
		logger.Log.Fatal("failed to run migrations", zap.Error(err))
	}
	users := sqlite.NewUserRepo(db)

	var messages domain.MessageRepository
	switch cfg.MessageStore {
	case config.StoreDriverPebble:
		store, err := pebble.Open(filepath.Join(cfg.DataDir, "messages"))
		if err != nil {
			logger.Log.Fatal("failed to open message store", zap.Error(err))
		}
		defer store.Close()
		messages = store
	case config.StoreDriverSQLite:
		messages = sqlite.NewMessageRepo(db)
	}

	blobs, err := blob.NewDiskStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		logger.Log.Fatal("failed to open blob store", zap.Error(err))
	}

	hub := feed.NewHub(messages, cfg.SnapshotLimit)

	tokenSvc := security.NewTokenService(cfg.JWTSecret, time.Duration(cfg.AccessTokenMinutes)*time.Minute)
	passwordHasher := security.NewPasswordHasher(0)

	router := httpserver.NewRouter(httpserver.Deps{
		Cfg:      cfg,
		Users:    users,
		Messages: messages,
		Blobs:    blobs,
		Hub:      hub,
		Tokens:   tokenSvc,
		Hasher:   passwordHasher,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Log.Info("starting server",
			zap.String("app", cfg.AppName),
			zap.String("addr", cfg.HTTPAddr()),
			zap.String("message_store", cfg.MessageStore))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("graceful shutdown failed", zap.Error(err))
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"storyhub/internal/api"
	"storyhub/internal/config"
	"storyhub/internal/events"
	"storyhub/internal/state"
	"storyhub/internal/storage"
	"storyhub/internal/story"
	"storyhub/pkg/database"
	"storyhub/pkg/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg.GinMode == gin.ReleaseMode {
		zc = zap.NewProductionConfig()
	}
	lvl, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	gin.SetMode(cfg.GinMode)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	hub := events.NewHub(logger.Named("events"))
	persist := storage.New(db, cfg.KeyPrefix, logger.Named("storage"), hub)
	store := state.Open(persist, loadSeed(cfg.SeedPath, logger), logger)
	store.Subscribe(hub.Publish)

	srv := api.New(api.Options{
		Store:      store,
		Hub:        hub,
		Writer:     cfg.Writer(),
		JWTSecret:  []byte(cfg.JWTSecret),
		SessionTTL: cfg.SessionTTL,
		MaxUpload:  cfg.MaxUploadBytes,
		ClientURL:  cfg.ClientURL,
		Logger:     logger,
	})
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return hub.Run(ctx) })
	g.Go(func() error {
		return story.NewAutoSaver(store, cfg.AutosaveInterval, logger).Run(ctx)
	})
	g.Go(func() error {
		logger.Info("HTTP API listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down")
		// last chance to persist anything typed since the final autosave
		store.SaveAll()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// loadSeed returns the catalogue used when the store has no stories yet.
func loadSeed(path string, logger *zap.Logger) []*models.Story {
	if path == "" {
		return database.DefaultStories()
	}
	if _, err := os.Stat(path); err != nil {
		logger.Info("seed file not found, using built-in stories", zap.String("path", path))
		return database.DefaultStories()
	}
	stories, err := database.LoadStoriesFromJSON(path)
	if err != nil {
		logger.Warn("seed file unreadable, using built-in stories", zap.String("path", path), zap.Error(err))
		return database.DefaultStories()
	}
	logger.Info("seed loaded", zap.String("path", path), zap.Int("stories", len(stories)))
	return stories
}

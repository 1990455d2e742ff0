package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mossy-p/form-builder/config"
	"github.com/mossy-p/form-builder/internal/audio"
	"github.com/mossy-p/form-builder/internal/handlers"
	"github.com/mossy-p/form-builder/internal/logging"
	"github.com/mossy-p/form-builder/internal/redis"
	"github.com/mossy-p/form-builder/internal/rtc"
	"github.com/mossy-p/form-builder/internal/session"
	"github.com/mossy-p/form-builder/internal/signaling"
)

const shutdownGrace = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to Redis
	client, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer client.Close()
	logger.Info("Redis connection established", zap.String("host", cfg.Redis.Host))

	blobs := audio.NewBlobStore("/audio-chat/recordings")
	sender := signaling.NewHTTPSender(cfg.Signaling.Endpoint, cfg.Signaling.Timeout, logger)
	widgets := handlers.NewWidgets(func(sessionID string) (*audio.Widget, error) {
		return audio.New(audio.Config{
			Capturer: &audio.FileCapturer{Path: cfg.Audio.Device, ChunkSize: cfg.Audio.ChunkSize},
			NewPeer:  rtc.Factory(cfg.RTC.ICEServers),
			Signaler: sender,
			Blobs:    blobs,
			Format: audio.PCMFormat{
				SampleRate:    cfg.Audio.SampleRate,
				Channels:      cfg.Audio.Channels,
				BitsPerSample: cfg.Audio.BitsPerSample,
			},
			Logger: logger.With(zap.String("session_id", sessionID)),
		})
	})
	defer func() {
		if err := widgets.CloseAll(); err != nil {
			logger.Warn("Failed to close audio widgets", zap.Error(err))
		}
	}()

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), logging.Requests(logger))

	// Global CORS middleware (runs before routing)
	router.Use(handlers.OriginFilter(cfg.AllowedOrigins))

	store := session.NewRedisStore(client, cfg.Session.TTL)
	go widgets.Watch(ctx, store, cfg.Session.SweepInterval, logger)

	handlers.New(handlers.Options{
		Store:      store,
		Widgets:    widgets,
		Blobs:      blobs,
		JWTSecret:  cfg.JWTSecret,
		SessionTTL: cfg.Session.TTL,
		Logger:     logger,
	}).Register(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting form builder server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/nguyentantai21042004/hearing-digest/internal/artifact"
	"github.com/nguyentantai21042004/hearing-digest/internal/attach"
	"github.com/nguyentantai21042004/hearing-digest/internal/config"
	"github.com/nguyentantai21042004/hearing-digest/internal/converter"
	"github.com/nguyentantai21042004/hearing-digest/internal/httpapi"
	"github.com/nguyentantai21042004/hearing-digest/internal/job"
	"github.com/nguyentantai21042004/hearing-digest/internal/logger"
	"github.com/nguyentantai21042004/hearing-digest/internal/processor"
	"github.com/nguyentantai21042004/hearing-digest/internal/service"
	"github.com/nguyentantai21042004/hearing-digest/internal/summarizer"
	"github.com/nguyentantai21042004/hearing-digest/internal/sweeper"
	"github.com/nguyentantai21042004/hearing-digest/internal/transcriber"
	"github.com/nguyentantai21042004/hearing-digest/internal/watcher"
	"github.com/nguyentantai21042004/hearing-digest/pkg/executor"
)

const shutdownTimeout = 30 * time.Second

func main() {
	ctx := context.Background()

	configPath := os.Getenv("DIGEST_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewWithFormat(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)
	log.Info(ctx, "Hearing Digest server")
	log.Info(ctx, "System: %s/%s, CPU Cores: %d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	log.Info(ctx, "Summarizer backend: %s", cfg.Summarizer.Backend)
	if cfg.Performance.MaxConcurrent > 0 {
		log.Info(ctx, "Max concurrent pipelines: %d", cfg.Performance.MaxConcurrent)
	}

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}
	for _, bin := range []string{cfg.FFmpeg.BinaryPath, cfg.Whisper.BinaryPath} {
		if executor.LookPath(bin) == "" {
			log.Warn(ctx, "%s not found in PATH; jobs will fail at that stage", bin)
		}
	}

	// Initialize dependencies
	exec := executor.New()
	registry := job.NewRegistry()
	proc := processor.New(cfg, processor.Deps{
		Registry:    registry,
		Converter:   converter.New(cfg.FFmpeg, exec, log),
		Transcriber: transcriber.New(cfg.Whisper, exec, log),
		Summarizer:  summarizer.New(cfg, exec, log),
		Attacher:    attach.New(cfg.Attach, log),
		Store:       artifact.New(cfg.Paths, cfg.Export, log),
		Logger:      log,
		OnFinish:    httpapi.RemoveUpload(cfg.Paths.Uploads, log),
	})
	svc := service.New(cfg, registry, proc, log)

	sw, err := sweeper.New(cfg.Cleanup, cfg.Paths.Converted, log)
	if err != nil {
		log.Error(ctx, "Failed to create sweeper: %v", err)
		os.Exit(1)
	}
	sw.Start()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errChan := make(chan error, 2)

	if cfg.Paths.Inbox != "" {
		w, err := watcher.New(cfg.Paths.Inbox, cfg.Paths.Uploads, svc, log)
		if err != nil {
			log.Error(ctx, "Failed to create watcher: %v", err)
			os.Exit(1)
		}
		defer w.Stop()

		go func() {
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errChan <- err
			}
		}()
	}

	srv := httpapi.NewServer(cfg, svc, log)
	go func() {
		if err := srv.ListenAndServe(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Info(ctx, "Listening on %s", cfg.Server.Addr)
	if cfg.Paths.Inbox != "" {
		log.Info(ctx, "Monitoring inbox: %s", cfg.Paths.Inbox)
	}
	log.Info(ctx, "Transcripts: %s, Summaries: %s", cfg.Paths.Transcripts, cfg.Paths.Summaries)

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Server error: %v", err)
	}

	// Graceful shutdown
	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn(shutdownCtx, "HTTP shutdown: %v", err)
	}
	sw.Stop(shutdownCtx)

	log.Info(shutdownCtx, "Waiting for in-flight jobs...")
	svc.Wait()

	log.Info(shutdownCtx, "Hearing Digest stopped")
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Uploads,
		cfg.Paths.Converted,
		cfg.Paths.Transcripts,
		cfg.Paths.Summaries,
	}
	if cfg.Paths.Inbox != "" {
		dirs = append(dirs, cfg.Paths.Inbox)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}

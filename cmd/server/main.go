package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/papersum/internal/api"
	"github.com/dgallion1/papersum/internal/config"
	"github.com/dgallion1/papersum/internal/pipeline"
	"github.com/dgallion1/papersum/internal/section"
	"github.com/dgallion1/papersum/internal/summarize"
)

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	if err := cfg.ValidateServer(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	detector, err := section.LoadDetector(cfg.VocabularyFile)
	if err != nil {
		log.Error("load vocabulary", "error", err)
		os.Exit(1)
	}

	// Initialize clients.
	summarizer, err := summarize.New(ctx, cfg, log)
	if err != nil {
		log.Error("init summarizer", "error", err)
		os.Exit(1)
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, detector, summarizer, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, summarizer, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // summary runs are synchronous
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		summarizer.Close()
	}()

	log.Info("starting papersum",
		"port", cfg.Port,
		"provider", summarizer.Provider,
		"model", summarizer.Model,
		"boundary", cfg.Boundary().String(),
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/feedmux/app/api"
	"github.com/lysyi3m/feedmux/app/cfg"
	"github.com/lysyi3m/feedmux/app/collection"
	"github.com/lysyi3m/feedmux/app/config"
	"github.com/lysyi3m/feedmux/app/feed"
	"github.com/lysyi3m/feedmux/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting feedmux", "version", appCfg.Version)

	loader := config.NewLoader(appCfg.FeedsDir)
	configs, err := loader.LoadAll()
	if err != nil {
		slog.Error("Failed to load feed configurations", "error", err)
		os.Exit(1)
	}
	slog.Info("Feed configurations loaded", "count", len(configs), "dir", appCfg.FeedsDir)

	channels := collection.NewChannelCollection()

	httpClient := &http.Client{
		Timeout: time.Duration(appCfg.FetchTimeout) * time.Second,
	}
	sanitizer := feed.NewSanitizer()
	parser := feed.NewParser()
	extractor := feed.NewContentExtractor()

	taskList := make([]tasks.TaskInterface, 0, len(configs))
	for _, feedConfig := range configs {
		taskList = append(taskList, tasks.NewFetchFeedTask(feedConfig, httpClient,
			sanitizer, parser, extractor, channels, appCfg.UserAgent))
	}

	fetchCtx, cancelFetch := context.WithCancel(context.Background())
	defer cancelFetch()

	fetchDone := make(chan struct{})
	go func() {
		defer close(fetchDone)
		runner := tasks.NewRunner(appCfg.WorkerCount)
		runner.Run(fetchCtx, taskList)
		slog.Info("Feed aggregation finished",
			"channels", len(channels.Channels()), "items", len(channels.Items()))
	}()

	handler := api.NewHandler(channels)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")
	cancelFetch()
	<-fetchDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Shutdown complete")
}

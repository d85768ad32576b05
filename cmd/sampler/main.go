package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	httpadapter "github.com/JRhoadhouse/TwitterExercise/internal/adapter/http"
	kafkaadapter "github.com/JRhoadhouse/TwitterExercise/internal/adapter/kafka"
	"github.com/JRhoadhouse/TwitterExercise/internal/analyze"
	"github.com/JRhoadhouse/TwitterExercise/internal/config"
	"github.com/JRhoadhouse/TwitterExercise/internal/emoji"
	"github.com/JRhoadhouse/TwitterExercise/internal/feed"
	"github.com/JRhoadhouse/TwitterExercise/internal/observability"
	"github.com/JRhoadhouse/TwitterExercise/internal/queue"
	"github.com/JRhoadhouse/TwitterExercise/internal/report"
	"github.com/JRhoadhouse/TwitterExercise/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// A failed emoji load is a degraded mode, not a fatal one: the
	// analyzer simply tags no emoji.
	symbols, err := emoji.Load(cfg.EmojiDataPath)
	if err != nil {
		observability.LogErrorChain(logger, "emoji.Load", err)
		logger.Warn("continuing without emoji tagging", "path", cfg.EmojiDataPath)
	}

	rawQueue := queue.NewMemory(logger)

	var dataStore store.DataStore
	if cfg.StoreBackend == "list" {
		dataStore = store.NewList()
	} else {
		dataStore = store.NewSync()
	}

	analyzer := analyze.New(symbols, cfg.AnalyzerPollInterval, logger, metrics)
	reporter := report.New(cfg.ReportInterval, cfg.ReportTopK, report.NewConsoleSink(os.Stdout), cfg.SnapshotPath, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, analyzer, report.OnDemand{DS: dataStore, TopK: cfg.ReportTopK}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var workers errgroup.Group

	if cfg.FeedEnabled {
		client, err := feed.NewClient(cfg, logger, metrics)
		if err != nil {
			logger.Error("failed to build feed client", "error", err)
			os.Exit(1)
		}
		workers.Go(func() error {
			return client.Run(ctx, rawQueue)
		})
	}

	var kafkaSource *kafkaadapter.Source
	if cfg.KafkaEnabled {
		kafkaSource = kafkaadapter.NewSource(cfg, logger, metrics)
		workers.Go(func() error {
			return kafkaSource.Run(ctx, rawQueue)
		})
	}

	if !cfg.FeedEnabled && !cfg.KafkaEnabled {
		logger.Warn("no ingestion source enabled, analyzer will idle until cancelled")
	}

	// A worker's fatal failure stops that worker only; its siblings keep
	// running until the shared signal fires.
	workers.Go(func() error {
		if err := analyzer.Run(ctx, rawQueue, dataStore); err != nil {
			logger.Error("analyzer encountered an error, report may not be accurate", "error", err)
		}
		return nil
	})
	workers.Go(func() error {
		if err := reporter.Run(ctx, dataStore); err != nil {
			logger.Error("reporter encountered an error, report may not be accurate", "error", err)
		}
		return nil
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down, analyzer will drain remaining queued messages")

	// The analyzer drains its backlog after cancellation, so join the
	// workers before tearing the rest down.
	if err := workers.Wait(); err != nil {
		logger.Error("worker error during shutdown", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaSource != nil {
		if err := kafkaSource.Close(); err != nil {
			logger.Error("kafka source close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

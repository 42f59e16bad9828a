package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docqa-dev/docqa/internal/bootstrap"
	"github.com/docqa-dev/docqa/internal/config"
	"github.com/docqa-dev/docqa/internal/core/domain"
	"github.com/docqa-dev/docqa/internal/observability/logging"
	"github.com/docqa-dev/docqa/internal/observability/metrics"
)

// Each document gets a bounded processing window so a stuck download or a
// slow embedding backend cannot pin a worker slot forever.
const documentProcessTimeout = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := logging.NewJSONLogger("worker", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	m := metrics.NewWorkerMetrics("worker")
	metricsServer := startMetricsServer(cfg.WorkerMetricsPort, m)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	handler := func(msgCtx context.Context, documentID string) error {
		procCtx, cancel := context.WithTimeout(msgCtx, documentProcessTimeout)
		defer cancel()

		m.StartDocument()
		started := time.Now()

		if rec, err := app.Repo.GetByID(procCtx, documentID); err == nil {
			m.ObserveQueueLag("worker", started.Sub(rec.CreatedAt))
		}

		err := app.ProcessUC.ProcessByID(procCtx, documentID)
		m.FinishDocument("worker", time.Since(started), err)
		if err != nil {
			return err
		}

		if rec, err := app.Repo.GetByID(procCtx, documentID); err == nil && rec.Status == domain.StatusReady {
			m.ObserveIndexedChunks("worker", rec.ChunkCount)
		}
		return nil
	}

	slog.Info("worker_started", "subject", cfg.NATSSubject)
	if err := app.Queue.SubscribeDocumentIngested(ctx, handler); err != nil {
		slog.Error("subscribe", "error", err)
		os.Exit(1)
	}
	slog.Info("worker_stopped")
}

func startMetricsServer(port string, m *metrics.WorkerMetrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics_server_failed", "error", err)
		}
	}()
	return server
}

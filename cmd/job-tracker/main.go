// cmd/job-tracker/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"job-tracker/internal/common/camunda"
	"job-tracker/internal/common/config"
	"job-tracker/internal/common/logger"
	"job-tracker/internal/common/observability"
	"job-tracker/internal/jobstore"
	createjob "job-tracker/internal/workers/jobs/create-job"
	deletejob "job-tracker/internal/workers/jobs/delete-job"
	getjob "job-tracker/internal/workers/jobs/get-job"
	listjobs "job-tracker/internal/workers/jobs/list-jobs"
	updatejob "job-tracker/internal/workers/jobs/update-job"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting job tracker...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("observability setup failed", zap.Error(err))
	}

	ctx := context.Background()

	shutdownTracer := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		shutdownTracer, err = observability.InitTracer(ctx, observability.TracingOptions{
			ServiceName:    cfg.App.Name,
			ServiceVersion: cfg.App.Version,
			CollectorURL:   cfg.Tracing.CollectorURL,
			SampleRatio:    cfg.Tracing.SampleRatio,
		})
		if err != nil {
			zapLog.Warn("tracing disabled", zap.Error(err))
			shutdownTracer = func(context.Context) error { return nil }
		} else {
			zapLog.Info("Tracing enabled", zap.String("collector", cfg.Tracing.CollectorURL))
		}
	}

	store, conns, err := buildStore(ctx, cfg, obs, zapLog, log)
	if err != nil {
		conns.Close(zapLog)
		zapLog.Fatal("job store failed", zap.Error(err))
	}

	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(ctx, camunda.ConfigFrom(cfg.Camunda))
		return err
	}, 3, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	workers := startWorkers(zeebe.GetClient(), cfg, store, obs, log, zapLog)
	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	checks := conns.readiness()
	checks["zeebe"] = zeebe.HealthCheck
	server := &http.Server{
		Addr:              cfg.Metrics.Address,
		Handler:           newHealthMux(checks),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := store.Close(); err != nil {
		zapLog.Error("Error closing job store", zap.Error(err))
	}
	conns.Close(zapLog)
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down observability", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		zapLog.Error("Error flushing traces", zap.Error(err))
	}

	zapLog.Info("Job tracker stopped gracefully")
}

func startWorkers(client zbc.Client, cfg *config.Config, store jobstore.Store, obs *observability.Observability, log logger.Logger, zapLog *zap.Logger) []*camunda.Worker {
	var workers []*camunda.Worker
	start := func(taskType string, handler camunda.JobHandler) {
		workers = append(workers, camunda.StartWorker(client, taskType, config.GetWorkerConfig(cfg, taskType), handler, log))
	}
	enabled := func(taskType string) bool {
		if !config.IsWorkerEnabled(cfg, taskType) {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			return false
		}
		return true
	}

	if taskType := createjob.TaskType; enabled(taskType) {
		wcfg := createjob.LoadConfig(config.GetWorkerConfig(cfg, taskType))
		start(taskType, createjob.NewHandler(wcfg, store, obs, log))
	}
	if taskType := getjob.TaskType; enabled(taskType) {
		wcfg := getjob.LoadConfig(config.GetWorkerConfig(cfg, taskType))
		start(taskType, getjob.NewHandler(wcfg, store, obs, log))
	}
	if taskType := listjobs.TaskType; enabled(taskType) {
		wcfg := listjobs.LoadConfig(config.GetWorkerConfig(cfg, taskType))
		start(taskType, listjobs.NewHandler(wcfg, store, obs, log))
	}
	if taskType := updatejob.TaskType; enabled(taskType) {
		wcfg := updatejob.LoadConfig(config.GetWorkerConfig(cfg, taskType))
		start(taskType, updatejob.NewHandler(wcfg, store, obs, log))
	}
	if taskType := deletejob.TaskType; enabled(taskType) {
		wcfg := deletejob.LoadConfig(config.GetWorkerConfig(cfg, taskType))
		start(taskType, deletejob.NewHandler(wcfg, store, obs, log))
	}
	return workers
}

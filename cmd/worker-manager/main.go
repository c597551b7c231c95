// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	commonaws "property-eligibility-workers/internal/common/aws"
	"property-eligibility-workers/internal/common/camunda"
	"property-eligibility-workers/internal/common/config"
	"property-eligibility-workers/internal/common/database"
	"property-eligibility-workers/internal/common/logger"
	"property-eligibility-workers/internal/common/observability"
	"property-eligibility-workers/internal/common/zoho"

	cpe "property-eligibility-workers/internal/workers/eligibility/check-property-eligibility"
	lap "property-eligibility-workers/internal/workers/eligibility/load-applicant-profile"
	ner "property-eligibility-workers/internal/workers/eligibility/notify-eligibility-result"
	rea "property-eligibility-workers/internal/workers/eligibility/record-eligibility-assessment"
	sel "property-eligibility-workers/internal/workers/eligibility/search-eligible-listings"
	sqlead "property-eligibility-workers/internal/workers/eligibility/sync-qualified-lead"
	vap "property-eligibility-workers/internal/workers/eligibility/validate-applicant-profile"
)

// dependencyRetry is the backoff used for Postgres, Elasticsearch and Redis.
var dependencyRetry = camunda.RetryConfig{MaxRetries: 15, BaseDelay: 2 * time.Second, MaxDelay: 30 * time.Second}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog, _ := zap.NewProduction()
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog, err := logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		panic(err)
	}
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.Observability, observability.Options{})
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Init Zeebe Client with retry ---
	zeebe, err := camunda.NewClient(ctx, camunda.ConfigFrom(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = camunda.Retry(ctx, dependencyRetry, log, "PostgreSQL connection", func(ctx context.Context) error {
		client, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		if err := client.Ping(ctx); err != nil {
			client.Close()
			return err
		}
		pg = client
		return nil
	})
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()

	if err := pg.Migrate(ctx); err != nil {
		zapLog.Fatal("postgres migration failed", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected and migrated")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = camunda.Retry(ctx, dependencyRetry, log, "Elasticsearch connection", func(ctx context.Context) error {
		client, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		if err := client.Ping(ctx); err != nil {
			return err
		}
		esClient = client
		return nil
	})
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	if exists, err := esClient.IndexExists(ctx, cfg.Eligibility.ListingsIndex); err != nil || !exists {
		zapLog.Warn("listings index unavailable, search jobs will fail until it is created",
			zap.String("index", cfg.Eligibility.ListingsIndex),
			zap.Error(err),
		)
	}

	// --- Init Redis with retry ---
	redis := database.NewRedis(cfg.Database.Redis)
	err = camunda.Retry(ctx, dependencyRetry, log, "Redis connection", redis.Ping)
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init External Service Clients ---
	var (
		mailer ner.EmailSender
		sms    ner.SMSSender
	)
	if cfg.Notifications.Email.Enabled || cfg.Notifications.SMS.Enabled {
		awsCfg, err := commonaws.LoadConfig(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("aws config load failed", zap.Error(err))
		}
		if cfg.Notifications.Email.Enabled {
			mailer = commonaws.NewSESMailer(awsCfg, cfg.Notifications.Email.FromEmail)
		}
		if cfg.Notifications.SMS.Enabled {
			sms = commonaws.NewSNSSender(awsCfg, cfg.Notifications.SMS.SenderID)
		}
	}

	crm := zoho.NewCRMClient(
		cfg.Integrations.Zoho.BaseURL,
		cfg.Integrations.Zoho.AuthToken,
		config.GetDuration(cfg.Integrations.Zoho.Timeout),
	)
	if !crm.Configured() {
		zapLog.Warn("Zoho CRM token not set, lead sync jobs will fail with CRM_NOT_CONFIGURED")
	}

	zapLog.Info("All external service clients initialized")

	// --- Register Workers ---
	client := zeebe.GetClient()
	var workers []worker.JobWorker
	register := func(taskType string, handler camunda.JobHandler) {
		if w := camunda.StartWorker(client, taskType, config.GetWorkerConfig(cfg, taskType), handler, obs, log); w != nil {
			workers = append(workers, w)
		}
	}

	register(vap.TaskType, vap.NewHandler(
		vap.LoadConfig(config.GetWorkerConfig(cfg, vap.TaskType)), log))

	register(lap.TaskType, lap.NewHandler(
		lap.LoadConfig(config.GetWorkerConfig(cfg, lap.TaskType), cfg.Eligibility), pg.DB, redis.Client, log))

	register(cpe.TaskType, cpe.NewHandler(
		cpe.LoadConfig(config.GetWorkerConfig(cfg, cpe.TaskType)), obs.Tracer(), log))

	register(rea.TaskType, rea.NewHandler(
		rea.LoadConfig(config.GetWorkerConfig(cfg, rea.TaskType)), pg.DB, log))

	selCfg, err := sel.LoadConfig(config.GetWorkerConfig(cfg, sel.TaskType), cfg.Eligibility)
	if err != nil {
		zapLog.Fatal("invalid search-eligible-listings config", zap.Error(err))
	}
	register(sel.TaskType, sel.NewHandler(selCfg, esClient.Client, log))

	register(ner.TaskType, ner.NewHandler(
		ner.LoadConfig(config.GetWorkerConfig(cfg, ner.TaskType), cfg), mailer, sms, log))

	register(sqlead.TaskType, sqlead.NewHandler(
		sqlead.LoadConfig(config.GetWorkerConfig(cfg, sqlead.TaskType)), crm, log))

	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", nil)
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]error{
			"zeebe":         zeebe.HealthCheck(checkCtx),
			"postgres":      pg.Ping(checkCtx),
			"elasticsearch": esClient.Ping(checkCtx),
			"redis":         redis.Ping(checkCtx),
		}
		for _, err := range checks {
			if err != nil {
				writeStatus(w, http.StatusServiceUnavailable, "not_ready", checks)
				return
			}
		}
		writeStatus(w, http.StatusOK, "ready", checks)
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.Observability.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing telemetry", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status string, checks map[string]error) {
	body := map[string]interface{}{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if checks != nil {
		results := make(map[string]string, len(checks))
		for name, err := range checks {
			if err != nil {
				results[name] = err.Error()
			} else {
				results[name] = "ok"
			}
		}
		body["checks"] = results
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

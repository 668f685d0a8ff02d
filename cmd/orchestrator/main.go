// cmd/orchestrator/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	awsclients "emailbuilder/internal/common/aws"
	"emailbuilder/internal/common/config"
	"emailbuilder/internal/common/database"
	"emailbuilder/internal/common/logger"
	"emailbuilder/internal/common/observability"

	"emailbuilder/internal/assets"
	"emailbuilder/internal/catalog"
	"emailbuilder/internal/copywrite"
	"emailbuilder/internal/delivery"
	"emailbuilder/internal/guidelines"
	"emailbuilder/internal/history"
	"emailbuilder/internal/llm"
	"emailbuilder/internal/pipeline"
	"emailbuilder/internal/renderer"
	"emailbuilder/internal/server"
	"emailbuilder/internal/template"
	"emailbuilder/internal/tokens"
	"emailbuilder/pkg/registry"

	// Pipeline Stages (6)
	ac "emailbuilder/internal/stages/asset-curator"
	cw "emailbuilder/internal/stages/copywriter"
	rnd "emailbuilder/internal/stages/render"
	ret "emailbuilder/internal/stages/retriever"
	sup "emailbuilder/internal/stages/supervisor"
	tl "emailbuilder/internal/stages/template-layout"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	zapLog.Info("Starting orchestrator...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	// Rebuild with the configured level and format.
	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New("orchestrator")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Product Catalog ---
	var store catalog.Store
	switch cfg.Catalog.Source {
	case "postgres":
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		store = catalog.NewPostgresStore(pg.DB)
		zapLog.Info("PostgreSQL catalog connected")
	default:
		csvStore, err := catalog.NewCSVStore(cfg.Catalog.CSVPath)
		if err != nil {
			zapLog.Fatal("csv catalog load failed", zap.Error(err))
		}
		store = csvStore
		zapLog.Info("CSV catalog loaded",
			zap.String("path", cfg.Catalog.CSVPath),
			zap.Int("products", csvStore.Len()),
		)
	}

	// --- Token Cache (Redis) ---
	var redisClient *database.RedisClient
	if cfg.Tokens.CacheEnabled {
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- History Archive (Elasticsearch) ---
	var archive server.Archive
	if cfg.History.Enabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		archive = history.NewStore(esClient, cfg.History.Index, log)
		zapLog.Info("Elasticsearch connected successfully", zap.String("index", cfg.History.Index))
	}

	// --- Outbound Delivery (SES/SNS) ---
	var deliverer server.Deliverer
	if cfg.Delivery.AWS.SES.Enabled || cfg.Delivery.AWS.SNS.Enabled {
		var mailer delivery.Mailer
		var events delivery.Publisher
		if cfg.Delivery.AWS.SES.Enabled {
			sesClient, err := awsclients.NewSESClient(ctx, cfg.Delivery.AWS.Region)
			if err != nil {
				zapLog.Fatal("ses client init failed", zap.Error(err))
			}
			mailer = sesClient
		}
		if cfg.Delivery.AWS.SNS.Enabled {
			snsClient, err := awsclients.NewSNSClient(ctx, cfg.Delivery.AWS.Region)
			if err != nil {
				zapLog.Fatal("sns client init failed", zap.Error(err))
			}
			events = snsClient
		}
		deliverer = delivery.NewService(cfg.Delivery, mailer, events, log)
		zapLog.Info("Delivery channels initialized",
			zap.Bool("ses", cfg.Delivery.AWS.SES.Enabled),
			zap.Bool("sns", cfg.Delivery.AWS.SNS.Enabled),
		)
	}

	// --- Pipeline Collaborators ---
	genai := cfg.APIs.GenAI

	// Each LLM-backed stage gets its own client so the per-stage retry
	// budget applies to its calls.
	newCompleter := func(stageName string) *llm.Client {
		return llm.NewClient(llm.Config{
			BaseURL:    genai.BaseURL,
			APIKey:     genai.APIKey,
			MaxRetries: config.GetStageConfig(cfg, stageName).MaxRetries,
			Timeout:    config.GetDuration(genai.Timeout),
		}, log)
	}

	extractor := guidelines.NewExtractor(guidelines.Config{
		Model:       genai.Model,
		Temperature: genai.Temperature,
	}, newCompleter(pipeline.StageRetriever), log)

	curator := assets.NewCurator(assets.CuratorConfig{
		Model:       genai.Model,
		Temperature: genai.Temperature,
	}, newCompleter(pipeline.StageAssetCurator), assets.NewSelector(cfg.Assets.Seed), log)

	writer := copywrite.NewWriter(copywrite.Config{
		Model:       genai.Model,
		Temperature: genai.Temperature,
	}, newCompleter(pipeline.StageCopywriter), log)

	tokenLoader := tokens.NewLoader(cfg.Tokens.Dir, redisClient, config.GetDuration(cfg.Tokens.CacheTTL), log)

	var validator *template.Validator
	if blockReg, err := registry.LoadRegistry(cfg.Template.RegistryPath); err != nil {
		zapLog.Warn("block registry unavailable, schema checks disabled", zap.Error(err))
		validator = template.NewValidator(nil)
	} else {
		validator = template.NewValidator(registry.NewValidator(blockReg))
	}

	rendererClient := renderer.NewClient(renderer.Config{
		BaseURL: cfg.Renderer.BaseURL,
		Timeout: config.GetDuration(cfg.Renderer.Timeout),
	}, log)

	// --- Pipeline ---
	stages := []pipeline.Stage{
		sup.NewHandler(log),
		ret.NewHandler(ret.Config{RelatedLimit: cfg.Catalog.RelatedLimit}, store, extractor, log),
		ac.NewHandler(curator, log),
		cw.NewHandler(writer, log),
		tl.NewHandler(tokenLoader, validator, log),
		rnd.NewHandler(rendererClient, log),
	}

	stageTimeouts := make(map[string]time.Duration, len(stages))
	for _, stage := range stages {
		stageTimeouts[stage.Name()] = config.GetDuration(config.GetStageConfig(cfg, stage.Name()).Timeout)
	}

	runner, err := pipeline.NewRunner(stages, pipeline.RunnerConfig{
		StreamDelay:   config.GetDuration(cfg.Pipeline.StreamDelay),
		StageTimeouts: stageTimeouts,
	}, log)
	if err != nil {
		zapLog.Fatal("pipeline init failed", zap.Error(err))
	}

	// --- HTTP API ---
	srv := server.NewServer(server.Config{
		Address:      cfg.Server.Address,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
		AllowOrigins: cfg.Server.AllowOrigins,
		UploadsDir:   cfg.Uploads.Dir,
	}, server.Deps{
		Pipeline: runner,
		Tokens:   tokenLoader,
		History:  archive,
		Delivery: deliverer,
		Renderer: rendererClient,
		Recorder: obs,
	}, log)

	go func() {
		if err := srv.Start(); err != nil {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			probeCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()
			if err := rendererClient.Healthy(probeCtx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "degraded",
					"error":  err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.HealthAddress))
		if err := http.ListenAndServe(cfg.Server.HealthAddress, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Orchestrator stopped gracefully")
}

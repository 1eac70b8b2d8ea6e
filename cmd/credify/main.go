package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/riyahstaff/credifyai-sub001/internal/config"
	"github.com/riyahstaff/credifyai-sub001/internal/domain"
	"github.com/riyahstaff/credifyai-sub001/internal/handler"
	"github.com/riyahstaff/credifyai-sub001/internal/infra/cache"
	"github.com/riyahstaff/credifyai-sub001/internal/infra/observability"
	"github.com/riyahstaff/credifyai-sub001/internal/infra/resilience"
	"github.com/riyahstaff/credifyai-sub001/internal/infra/store"
	"github.com/riyahstaff/credifyai-sub001/internal/infra/templates"
	"github.com/riyahstaff/credifyai-sub001/internal/issues"
	"github.com/riyahstaff/credifyai-sub001/internal/letter"
	"github.com/riyahstaff/credifyai-sub001/internal/salvage"
	"github.com/riyahstaff/credifyai-sub001/internal/service"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("store_dsn", cfg.StoreDSN),
		zap.String("template_repo_url", cfg.TemplateRepoURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Bool("allow_sample_data", cfg.AllowSampleData),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(context.Background(), "credifyai", cfg.OTLPEndpoint)
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Store ---
	st, err := store.Open(cfg.StoreDSN, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer st.Close()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		CallTimeout:    cfg.HTTPTimeout,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	bulkhead := resilience.NewBulkhead(cfg.MaxConcurrency)

	// --- Template corpus ---
	var remote templates.Lister
	if cfg.TemplateRepoURL != "" {
		cb := resilience.NewCircuitBreaker("templates")
		httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
		remote = templates.NewRepoClient(httpClient, cfg.TemplateRepoURL, cb, resilienceCfg)
		logger.Info("remote template repository enabled", zap.String("url", cfg.TemplateRepoURL))
	} else {
		logger.Info("no template repository configured, using embedded corpus")
	}
	corpus := templates.NewService(remote, metrics, logger)

	// --- Services ---
	analyzerSvc := service.NewAnalyzer(
		salvage.New(cfg.SalvageWindow, logger),
		issues.New(nil),
		st,
		cache.New[*domain.CreditReport](cfg.CacheTTL),
		bulkhead,
		metrics,
		logger,
		cfg.AllowSampleData,
	)

	resolver := letter.NewResolver(corpus, logger)
	lettersSvc := service.NewLetters(letter.NewComposer(resolver, nil), st, metrics, logger)

	var authSvc *service.Auth
	if cfg.AuthPasswordHash != "" {
		authSvc = service.NewAuth(cfg.AuthPasswordHash, cfg.JWTSecret, cfg.JWTAccessTTL, logger)
		logger.Info("auth enabled")
	} else {
		logger.Warn("AUTH_PASSWORD_HASH not set, API routes are unauthenticated")
	}

	// --- Router ---
	router := handler.NewRouter(analyzerSvc, lettersSvc, authSvc, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

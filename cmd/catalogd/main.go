package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogd/internal/config"
	dbRedis "github.com/kailas-cloud/catalogd/internal/db/redis"
	"github.com/kailas-cloud/catalogd/internal/domain"
	domrl "github.com/kailas-cloud/catalogd/internal/domain/ratelimit"
	logpkg "github.com/kailas-cloud/catalogd/internal/logger"
	"github.com/kailas-cloud/catalogd/internal/metrics"
	"github.com/kailas-cloud/catalogd/internal/repository/answercache"
	catalogrepo "github.com/kailas-cloud/catalogd/internal/repository/catalog"
	"github.com/kailas-cloud/catalogd/internal/repository/embcache"
	embeddingrepo "github.com/kailas-cloud/catalogd/internal/repository/embedding"
	ratelimitrepo "github.com/kailas-cloud/catalogd/internal/repository/ratelimit"
	chiTransport "github.com/kailas-cloud/catalogd/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/catalogd/internal/transport/openai"
	cataloguc "github.com/kailas-cloud/catalogd/internal/usecase/catalog"
	embeddinguc "github.com/kailas-cloud/catalogd/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/catalogd/internal/usecase/health"
	raguc "github.com/kailas-cloud/catalogd/internal/usecase/rag"
	ratelimituc "github.com/kailas-cloud/catalogd/internal/usecase/ratelimit"
	searchuc "github.com/kailas-cloud/catalogd/internal/usecase/search"
	"github.com/kailas-cloud/catalogd/internal/version"
)

func main() {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic("failed to load .env: " + err.Error())
	}

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting catalogd API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.Bool("rag_enabled", cfg.RAG.Enabled),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.RegisterLLMMetrics()
	metrics.RegisterSearchMetrics()

	prefix := cfg.Database.KeyPrefix

	// Catalog
	var seeds fs.FS
	if cfg.Catalog.SeedDir != "" {
		seeds = os.DirFS(cfg.Catalog.SeedDir)
	}
	catalogSvc := cataloguc.New(catalogrepo.New(store, prefix), seeds)
	if cfg.Catalog.SeedOnStart {
		seedCtx := logpkg.ContextWithLogger(ctx, logger)
		report, err := catalogSvc.SeedIfEmpty(seedCtx)
		if err != nil {
			logger.Fatal("Failed to seed catalog", zap.Error(err))
		}
		logger.Info("Catalog seed checked", zap.Any("loaded", report))
	}

	// Search
	searchSvc := searchuc.New(cfg.Search, logger, metrics.SearchRecorder{},
		searchuc.MovieSource(catalogSvc),
		searchuc.CharacterSource(catalogSvc),
		searchuc.ParkSource(catalogSvc),
	)

	// LLM provider chain
	llm := buildLLM(cfg, store, logger)

	// Question answering
	embeddingRepo := embeddingrepo.New(store, prefix)
	ragSvc := raguc.New(
		llm.queryEmbedder,
		llm.generator,
		embeddingRepo,
		answercache.New(store, prefix, cfg.RAG.CacheTTL()),
		cfg.LLM.EmbeddingModel,
		cfg.RAG.Enabled,
	)
	indexer := embeddinguc.NewIndexer(catalogSvc, embeddingRepo, llm.docEmbedder, cfg.LLM.EmbeddingModel).
		WithBatchSize(cfg.LLM.BatchSize)

	counters := ratelimitrepo.New(store, prefix, domrl.Window)
	limiter := ratelimituc.New(counters, counters,
		cfg.RAG.SessionLimits.Limits(), cfg.RAG.IPLimits.Limits(), cfg.RAG.PremiumAccessCode)

	healthSvc := healthuc.New(store, map[string]healthuc.Checker{
		"embedding": llm.embeddingHealth,
		"llm":       llm.generatorHealth,
	})

	server := chiTransport.NewServer(chiTransport.Services{
		Search:  searchSvc,
		RAG:     ragSvc,
		Limiter: limiter,
		Catalog: catalogSvc,
		Indexer: indexer,
		Health:  healthSvc,
	})

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEventMiddleware(logger))
	r.Use(metrics.Middleware("/metrics", "/health"))
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"not_found","message":"route not found"}` + "\n"))
	})
	server.Register(r, chiTransport.RouterOptions{
		AdminAPIKeys:  cfg.Auth.AdminAPIKeys,
		SecureCookies: cfg.HTTP.SecureCookies,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

type llmChain struct {
	docEmbedder     domain.Embedder
	queryEmbedder   domain.Embedder
	generator       domain.Generator
	embeddingHealth healthuc.Checker
	generatorHealth healthuc.Checker
}

// buildLLM assembles the provider decorators:
// documents: OpenAI -> Instrumented
// queries:   OpenAI -> Cached -> Instrumented
// chat:      OpenAI -> Instrumented
func buildLLM(cfg config.Config, store *dbRedis.Store, logger *zap.Logger) llmChain {
	provider, model := cfg.LLM.Provider, cfg.LLM.EmbeddingModel

	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.LLM.APIKey,
		BaseURL:    cfg.LLM.BaseURL,
		Model:      model,
		Dimensions: cfg.LLM.Dimensions,
		Provider:   provider,
		Logger:     logger,
	})
	cached := embcache.New(base, store, embcache.Options{
		KeyPrefix:  cfg.Database.KeyPrefix,
		Model:      model,
		Dimensions: cfg.LLM.Dimensions,
		TTL:        cfg.RAG.EmbeddingCacheTTL(),
	}, metrics.EmbeddingCacheTotal, logger)

	gen := openaiTransport.NewGenerator(&openaiTransport.Config{
		APIKey:    cfg.LLM.APIKey,
		BaseURL:   cfg.LLM.BaseURL,
		Model:     cfg.LLM.ChatModel,
		MaxTokens: cfg.LLM.MaxTokens,
		Provider:  provider,
		Logger:    logger,
	})

	logger.Info("LLM providers created",
		zap.String("provider", provider),
		zap.String("embedding_model", model),
		zap.Int("dimensions", cfg.LLM.Dimensions),
		zap.String("chat_model", cfg.LLM.ChatModel),
	)

	return llmChain{
		docEmbedder:     embeddinguc.NewInstrumentedEmbedder(base, provider, model, logger),
		queryEmbedder:   embeddinguc.NewInstrumentedEmbedder(cached, provider, model, logger),
		generator:       embeddinguc.NewInstrumentedGenerator(gen, provider, cfg.LLM.ChatModel, logger),
		embeddingHealth: base,
		generatorHealth: gen,
	}
}

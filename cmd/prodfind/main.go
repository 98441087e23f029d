package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/prodfind/internal/config"
	dbRedis "github.com/kailas-cloud/prodfind/internal/db/redis"
	"github.com/kailas-cloud/prodfind/internal/domain/catalog"
	logpkg "github.com/kailas-cloud/prodfind/internal/logger"
	"github.com/kailas-cloud/prodfind/internal/metrics"
	"github.com/kailas-cloud/prodfind/internal/repository/metadata"
	"github.com/kailas-cloud/prodfind/internal/repository/vectorindex"
	chiTransport "github.com/kailas-cloud/prodfind/internal/transport/chi"
	googleaiCls "github.com/kailas-cloud/prodfind/internal/transport/googleai"
	openaiEmb "github.com/kailas-cloud/prodfind/internal/transport/openai"
	categoryuc "github.com/kailas-cloud/prodfind/internal/usecase/category"
	healthuc "github.com/kailas-cloud/prodfind/internal/usecase/health"
	"github.com/kailas-cloud/prodfind/internal/usecase/orchestrator"
	"github.com/kailas-cloud/prodfind/internal/usecase/retriever"
	searchuc "github.com/kailas-cloud/prodfind/internal/usecase/search"
	"github.com/kailas-cloud/prodfind/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting prodfind API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create vector store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Vector store not ready", zap.Error(err))
	}
	logger.Info("Connected to vector store")

	metrics.Register()

	embedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:        cfg.Embedding.APIKey,
		BaseURL:       cfg.Embedding.BaseURL,
		Model:         cfg.Embedding.Model,
		Dimensions:    cfg.Embedding.Dimensions,
		PassagePrefix: cfg.Embedding.PassagePrefix,
		QueryPrefix:   cfg.Embedding.QueryPrefix,
		Provider:      "openai",
		Logger:        logger,
	})

	categories, err := catalog.Load(cfg.Data.CatalogPath)
	if err != nil {
		logger.Fatal("Failed to load category catalog", zap.Error(err))
	}
	subcategoryCount := catalog.CountSubcategories(categories)
	if subcategoryCount == 0 {
		logger.Warn("Category catalog is empty, category resolution disabled")
	}

	meta, err := metadata.Load(cfg.Data.MetadataPath)
	if err != nil {
		logger.Fatal("Failed to load index snapshot metadata", zap.Error(err))
	}
	if meta.Count() == 0 {
		logger.Warn("Product index is empty, searches will return no results")
	}
	logger.Info("Snapshot loaded",
		zap.Int("subcategories", subcategoryCount),
		zap.Int("products", meta.Count()),
	)

	var expansions []searchuc.Expansion
	if cfg.Data.ExpansionsPath != "" {
		expansions, err = searchuc.LoadExpansions(cfg.Data.ExpansionsPath)
		if err != nil {
			logger.Warn("Query expansions unavailable", zap.Error(err))
		}
	}

	// Catalog index build: any failed embedding call is fatal, no partial index.
	retr, err := retriever.New(ctx, categories, embedder, retriever.Params{
		SemanticWeight: cfg.Retriever.SemanticWeight,
		KeywordWeight:  cfg.Retriever.KeywordWeight,
		ScoreThreshold: cfg.Retriever.ScoreThreshold,
	})
	if err != nil {
		logger.Fatal("Failed to build catalog index", zap.Error(err))
	}
	logger.Info("Catalog index built", zap.Int("entries", retr.Size()))

	// Pass nil interface (not typed nil pointer!) if the classifier is not
	// configured. Go gotcha: a typed nil wrapped in an interface != nil.
	var classifier categoryuc.Classifier
	if cfg.Classifier.APIKey != "" {
		gem, err := googleaiCls.New(ctx, &googleaiCls.Config{
			APIKey:  cfg.Classifier.APIKey,
			Model:   cfg.Classifier.Model,
			Timeout: time.Duration(cfg.Classifier.TimeoutSec) * time.Second,
			Logger:  logger,
		})
		if err != nil {
			logger.Fatal("Failed to create classifier", zap.Error(err))
		}
		classifier = gem
		logger.Info("Classifier enabled", zap.String("model", cfg.Classifier.Model))
	} else {
		logger.Info("Classifier disabled, using retriever top candidate")
	}

	categorySvc := categoryuc.New(retr, classifier, cfg.Retriever.TopK, *cfg.Classifier.FallbackToTop)

	vecIndex := vectorindex.New(store, cfg.Storage.IndexName, cfg.Storage.KeyPrefix)
	engine := searchuc.NewEngine(embedder, vecIndex, meta, expansions, searchuc.Params{
		ExpansionFactor:     cfg.Search.ExpansionFactor,
		SimilarityThreshold: cfg.Search.SimilarityThreshold,
	})
	ranker := searchuc.NewRanker(cfg.Search.CategoryBoost, cfg.Search.TermMatchBoost)

	orch := orchestrator.New(categorySvc, engine, ranker, cfg.Search.TopK)

	healthSvc := healthuc.New(vecIndex, embedder, subcategoryCount, meta.Count())

	server := chiTransport.NewServer(orch, healthSvc, cfg.Search.MaxResults, logger)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)
	r.Handle("/metrics", promhttp.Handler())

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

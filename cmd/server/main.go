package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/ranadkar/polaryx/internal/conf"
	"github.com/ranadkar/polaryx/internal/enrich/bias"
	"github.com/ranadkar/polaryx/internal/enrich/sentiment"
	"github.com/ranadkar/polaryx/internal/extractor"
	"github.com/ranadkar/polaryx/internal/pkg/logger"
	"github.com/ranadkar/polaryx/internal/pkg/workerpool"
	"github.com/ranadkar/polaryx/internal/search/biz"
	"github.com/ranadkar/polaryx/internal/search/service"
	"github.com/ranadkar/polaryx/internal/server"
	"github.com/ranadkar/polaryx/internal/source/provider"
	"github.com/ranadkar/polaryx/internal/source/types"
	"github.com/ranadkar/polaryx/internal/summary"
)

var configFile = flag.String("config", "config.yaml", "config file path")

func main() {
	flag.Parse()

	// Load configuration
	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger with config
	log, err := logger.New(&logger.Config{
		Level:            config.Log.Level,
		Format:           config.Log.Format,
		Output:           config.Log.Output,
		EnableCaller:     config.Log.EnableCaller,
		EnableStacktrace: config.Log.EnableStacktrace,
		File: logger.FileConfig{
			Filename:   config.Log.File.Filename,
			MaxSize:    config.Log.File.MaxSize,
			MaxAge:     config.Log.File.MaxAge,
			MaxBackups: config.Log.File.MaxBackups,
			Compress:   config.Log.File.Compress,
		},
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	log.Info("config loaded successfully")

	// Outlet registry (static table of extraction recipes + bias labels)
	registry := extractor.NewRegistry(
		extractor.WithUserAgent(config.Extractor.UserAgent),
	)

	// Source providers
	factory := provider.NewFactory()

	newsProvider, err := factory.Create(&types.ProviderConfig{
		ID:      types.ProviderNewsAPI,
		Name:    "NewsAPI",
		APIHost: config.News.APIHost,
		APIKey:  config.News.APIKey,
		Timeout: config.News.Timeout,
	})
	if err != nil {
		log.Fatal("failed to create news provider", zap.Error(err))
	}

	redditProvider, err := factory.Create(&types.ProviderConfig{
		ID:           types.ProviderReddit,
		Name:         "Reddit",
		APIHost:      config.Reddit.APIHost,
		AuthHost:     config.Reddit.AuthHost,
		ClientID:     config.Reddit.ClientID,
		ClientSecret: config.Reddit.ClientSecret,
		UserAgent:    config.Reddit.UserAgent,
		Timeout:      config.Reddit.Timeout,
	})
	if err != nil {
		log.Fatal("failed to create reddit provider", zap.Error(err))
	}

	blueskyProvider, err := factory.Create(&types.ProviderConfig{
		ID:          types.ProviderBluesky,
		Name:        "Bluesky",
		APIHost:     config.Bluesky.APIHost,
		Handle:      config.Bluesky.Handle,
		AppPassword: config.Bluesky.AppPassword,
		Timeout:     config.Bluesky.Timeout,
	})
	if err != nil {
		log.Fatal("failed to create bluesky provider", zap.Error(err))
	}

	// AI client shared by the bias classifier and the summarizer
	aiConfig := openai.DefaultConfig(config.AI.APIKey)
	aiConfig.BaseURL = config.AI.BaseURL
	aiClient := openai.NewClientWithConfig(aiConfig)

	// Worker pool for concurrent bias classification
	pool, err := workerpool.New(config.Search.Workers)
	if err != nil {
		log.Fatal("failed to create worker pool", zap.Error(err))
	}
	defer pool.Release()

	// Enrichment
	analyzer := sentiment.New()
	classifier := bias.NewClassifier(aiClient, config.AI.Model, config.AI.BiasFallback, pool, log)

	// Result cache
	cache, err := biz.NewResultCache(config.Search.CacheSize)
	if err != nil {
		log.Fatal("failed to create result cache", zap.Error(err))
	}

	// Aggregation pipeline
	aggregator := biz.NewAggregator(
		newsProvider, redditProvider, blueskyProvider,
		registry, analyzer, classifier, cache,
		biz.Options{
			SocialLimit:  config.Search.SocialLimit,
			NewsPageSize: config.Search.NewsPageSize,
			QuotaPerBias: config.Search.QuotaPerBias,
			NewsCap:      config.Search.NewsCap,
			RedditScope:  config.Search.RedditScope,
			RedditSort:   config.Search.RedditSort,
			BlueskySort:  config.Search.BlueskySort,
		},
		log,
	)

	summarizer := summary.NewSummarizer(aiClient, config.AI.Model, cache, registry, log)

	// HTTP server
	searchService := service.NewSearchService(aggregator, summarizer, log)
	httpServer := server.NewHTTPServer(config, log, searchService)

	go func() {
		if err := httpServer.Start(); err != nil {
			log.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	log.Info("server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Stop(ctx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/classifier"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/classifier/mlclient"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/config"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/events"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/ingest"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/logger"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/metrics"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/source"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/storage"
)

// app holds the fully wired service: config, logger, stores, classifier,
// and orchestrator, plus the resources that need closing on shutdown.
type app struct {
	cfg        *config.Config
	log        logger.Logger
	registry   *prometheus.Registry
	classifier *classifier.InternClassifier
	ingester   *ingest.Orchestrator

	redisClient *redis.Client
}

// newApp wires the service from configuration. When dryRun is set the
// pipeline writes to in-memory stores and publishes nowhere, so a run can
// be inspected without touching Elasticsearch or Redis.
func newApp(ctx context.Context, dryRun bool) (*app, error) {
	path := cfgFile
	if path == "" {
		path = "config.yml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		registry: prometheus.NewRegistry(),
	}
	m := metrics.New(a.registry)

	// The rich model is optional; a nil model puts the classifier on its
	// rule-based path from the start.
	var model classifier.RichModel
	if cfg.ML.Enabled {
		model = mlclient.NewClient(cfg.ML.BaseURL, cfg.ML.Timeout)
	}
	a.classifier = classifier.New(model, cfg.Classifier, log)
	a.classifier.Init(ctx)

	var rawStore storage.RawStore
	var jobStore storage.JobStore
	var channel events.Channel

	if dryRun {
		rawStore = storage.NewMemoryRawStore()
		jobStore = storage.NewMemoryJobStore()
		channel = events.NopChannel{}
		log.Info("dry run: using in-memory stores, events disabled")
	} else {
		esClient, esErr := storage.NewESClient(cfg.Elasticsearch)
		if esErr != nil {
			return nil, fmt.Errorf("create elasticsearch client: %w", esErr)
		}
		if err := storage.EnsureIndices(ctx, esClient, cfg.Elasticsearch, log); err != nil {
			return nil, fmt.Errorf("ensure indices: %w", err)
		}
		rawStore = storage.NewESRawStore(esClient, cfg.Elasticsearch)
		jobStore = storage.NewESJobStore(esClient, cfg.Elasticsearch)

		redisClient, redisErr := events.NewRedisClient(cfg.Redis)
		if redisErr != nil {
			return nil, fmt.Errorf("connect redis: %w", redisErr)
		}
		a.redisClient = redisClient
		channel = events.NewRedisChannel(redisClient, log)
	}

	var topCVOpts []source.TopCVOption
	if cfg.Ingest.Keyword != "" {
		topCVOpts = append(topCVOpts, source.WithTopCVKeyword(cfg.Ingest.Keyword))
	}
	adapters := source.NewRegistry(
		source.NewTopCVAdapter(log, topCVOpts...),
	)

	a.ingester = ingest.New(adapters, rawStore, jobStore, a.classifier, channel, m, log, cfg.Ingest)
	return a, nil
}

// Close releases the app's external connections.
func (a *app) Close() {
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Warn("closing redis client", logger.Error(err))
		}
	}
	_ = a.log.Sync()
}

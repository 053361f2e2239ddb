package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/BRO3886/user-search/internal/config"
	"github.com/BRO3886/user-search/internal/ingest"
	"github.com/BRO3886/user-search/internal/kafka"
	"github.com/BRO3886/user-search/internal/memstore"
	"github.com/BRO3886/user-search/internal/opensearch"
	"github.com/BRO3886/user-search/internal/search"
	"github.com/BRO3886/user-search/internal/service"
	"github.com/BRO3886/user-search/internal/telemetry"
	"github.com/BRO3886/user-search/internal/types"
)

var (
	mode       string
	configPath string
)

func init() {
	flag.StringVar(&mode, "mode", "serve", "mode to run in: serve, ingest or index")
	flag.StringVar(&configPath, "config", "configs/config.yaml", "path to the config file")
}

func main() {
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("error loading config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger := telemetry.NewLogger(os.Stdout, cfg.Log.Level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch mode {
	case "serve":
		err = runServer(ctx, cfg, mustUserService(ctx, cfg, logger), logger)
	case "index":
		err = runIndexing(ctx, cfg, mustUserService(ctx, cfg, logger), logger)
	case "ingest":
		err = runIngestion(ctx, cfg, logger)
	default:
		logger.Error("unknown mode", "mode", mode)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("exited with error", "mode", mode, "error", err)
		os.Exit(1)
	}
}

func mustUserService(ctx context.Context, cfg *config.Config, logger *slog.Logger) *service.Service[*types.User] {
	store, err := newStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("error starting store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}

	svc, err := service.New[*types.User](store, logger)
	if err != nil {
		logger.Error("error binding user service", "error", err)
		os.Exit(1)
	}
	return svc
}

func newStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (search.Store, error) {
	if cfg.Store.Driver == config.DriverMemory {
		logger.Warn("using in-memory store, data is lost on exit")
		return memstore.New(), nil
	}

	store, err := opensearch.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Opensearch.CreateIndices {
		for _, b := range types.Bindings() {
			if err := store.EnsureIndex(ctx, b.Index, b.Mapping); err != nil {
				return nil, err
			}
		}
	}
	return store, nil
}

func runIndexing(ctx context.Context, cfg *config.Config, svc service.EntityService[*types.User], logger *slog.Logger) error {
	if err := cfg.ValidateKafka(); err != nil {
		return err
	}
	dequeuer, err := kafka.NewDequeuer(kafka.FromConfig(cfg, kafka.WithConsumeOldest()), logger)
	if err != nil {
		return err
	}
	defer dequeuer.Close()

	logger.Info("started indexing", "topic", cfg.Kafka.Topic.Name, "group", cfg.Kafka.ConsumerGroup)
	return dequeuer.Dequeue(ctx, cfg.Kafka.Topic.Name, ingest.Handler(svc, logger))
}

func runIngestion(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if err := cfg.ValidateKafka(); err != nil {
		return err
	}
	kcfg := kafka.FromConfig(cfg, kafka.WithSyncProducer())
	if err := kafka.EnsureTopic(kcfg, cfg.Kafka.Topic.Name, cfg.Kafka.Topic.Partitions, logger); err != nil {
		return err
	}

	enqueuer, err := kafka.NewEnqueuer(kcfg, logger)
	if err != nil {
		return err
	}
	defer enqueuer.Close()

	f, err := os.Open(cfg.Ingest.File)
	if err != nil {
		return err
	}
	defer f.Close()

	logger.Info("started ingestion", "file", cfg.Ingest.File, "topic", cfg.Kafka.Topic.Name)
	_, err = ingest.NewPublisher(enqueuer, cfg.Kafka.Topic.Name, logger).Publish(ctx, f)
	return err
}

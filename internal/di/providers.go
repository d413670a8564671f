package di

import (
	"context"
	"fmt"
	"time"

	"StrikeScope/internal/domain/repository"
	"StrikeScope/internal/handler/api"
	mid "StrikeScope/internal/middleware"
	internalrepo "StrikeScope/internal/repository"
	"StrikeScope/internal/service/markets"
	"StrikeScope/internal/service/spot"
	"StrikeScope/internal/usecase"
	pkgcache "StrikeScope/pkg/cache"
	pkgch "StrikeScope/pkg/clickhouse"
	"StrikeScope/pkg/config"
	xhttp "StrikeScope/pkg/http"
	pkgkafka "StrikeScope/pkg/kafka"
	applogger "StrikeScope/pkg/logger"
	"StrikeScope/pkg/metrics"
	"StrikeScope/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.SchemaStatements); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, 1048576, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideTickStore creates the ClickHouse-backed store.
func ProvideTickStore(chClient *pkgch.Client) *internalrepo.ClickHouseStore {
	return internalrepo.NewClickHouseStore(chClient.DB(), "exchange")
}

// ProvideStorage exposes the tick store as Storage.
func ProvideStorage(store *internalrepo.ClickHouseStore) repository.Storage {
	return store
}

// ProvideSnapshotStore exposes the tick store as SnapshotStore.
func ProvideSnapshotStore(store *internalrepo.ClickHouseStore) repository.SnapshotStore {
	return store
}

// ProvideTickPublisher creates the Kafka publisher repository.
func ProvideTickPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideSpotStream creates the exchange WebSocket stream.
func ProvideSpotStream(cfg *config.Config) repository.SpotStream {
	return spot.New(
		cfg.Markets.APIKey,
		cfg.Exchange.WebSocketURL,
		cfg.Exchange.Symbols,
		cfg.Exchange.ReconnectDelay,
		cfg.Exchange.PingInterval,
	)
}

// ProvideSharedCache creates the quote cache: Redis when enabled,
// in-memory otherwise.
func ProvideSharedCache(cfg *config.Config) (pkgcache.Service, error) {
	if cfg.Markets.Redis.Enabled {
		return pkgcache.NewRedisCache(context.Background(),
			pkgcache.WithAddr(cfg.Markets.Redis.Addr),
			pkgcache.WithPassword(cfg.Markets.Redis.Password),
			pkgcache.WithDB(cfg.Markets.Redis.DB),
		)
	}
	return pkgcache.NewMemoryCache(), nil
}

// ProvideMarketsClient creates the markets REST client.
func ProvideMarketsClient(cfg *config.Config, cache pkgcache.Service, logger *applogger.Logger) *markets.Client {
	return markets.NewClient(
		cfg.Markets.BaseURL,
		cfg.Markets.APIKey,
		cfg.Markets.Timeout,
		cfg.Markets.CacheTTL,
		markets.WithSharedCache(cache),
		markets.WithLogger(logger),
	)
}

// ProvideTickProcessor creates the tick processor use case.
func ProvideTickProcessor(
	pub repository.Publisher,
	store repository.Storage,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.TickProcessor {
	return usecase.NewTickProcessor(pub, store, m, cfg.Backend.Type)
}

// ProvideSpotCollector creates the spot collector use case with its
// validation/throttle pipeline.
func ProvideSpotCollector(
	stream repository.SpotStream,
	processor *usecase.TickProcessor,
	m repository.Metrics,
) *usecase.SpotCollector {
	pipe := mid.NewTickPipeline(processor, m,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewSpotCollector(stream, processor, m, pipe)
}

// ProvideKafkaSpotHandler registers the handler for the tick topic.
func ProvideKafkaSpotHandler(store repository.Storage, m repository.Metrics, cfg *config.Config) *usecase.KafkaSpotHandler {
	return usecase.NewKafkaSpotHandler(cfg.Kafka.Topic, store, m)
}

// ProvideCalibrator creates the calibration use case.
func ProvideCalibrator(snaps repository.SnapshotStore, m repository.Metrics, cfg *config.Config, logger *applogger.Logger) *usecase.Calibrator {
	return usecase.NewCalibrator(snaps, m, cfg.Projection.FallbackVol, logger)
}

// ProvideProjectionBuilder creates the projection use case. The
// markets client doubles as the REST spot fallback.
func ProvideProjectionBuilder(
	mc *markets.Client,
	collector *usecase.SpotCollector,
	cal *usecase.Calibrator,
	m repository.Metrics,
	logger *applogger.Logger,
	cfg *config.Config,
) *usecase.ProjectionBuilder {
	return usecase.NewProjectionBuilder(mc, collector, mc, cal, m, logger, cfg.Projection.RangeFrac)
}

// ProvideTickHistory creates the tick history use case.
func ProvideTickHistory(store repository.Storage, m repository.Metrics) *usecase.TickHistory {
	return usecase.NewTickHistory(store, m)
}

// ProvideProjectionHandler creates the HTTP API handler.
func ProvideProjectionHandler(logger *applogger.Logger, builder *usecase.ProjectionBuilder, collector *usecase.SpotCollector, history *usecase.TickHistory) xhttp.Handler {
	return api.NewProjectionHandler(logger, builder, collector, history)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	collector *usecase.SpotCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaSpotHandler,
	chClient *pkgch.Client,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, logger, collector, consumer, kh, chClient, handler)
}

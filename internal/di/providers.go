package di

import (
	"context"
	"fmt"
	"time"

	"PumpPulse/internal/domain/models"
	domrepo "PumpPulse/internal/domain/repository"
	dservice "PumpPulse/internal/domain/service"
	"PumpPulse/internal/handler/api"
	mid "PumpPulse/internal/middleware"
	internalrepo "PumpPulse/internal/repository"
	icache "PumpPulse/internal/service/cache"
	"PumpPulse/internal/service/exchange"
	"PumpPulse/internal/service/notify"
	"PumpPulse/internal/services/market"
	"PumpPulse/internal/usecase"
	pkgcache "PumpPulse/pkg/cache"
	pkgch "PumpPulse/pkg/clickhouse"
	"PumpPulse/pkg/config"
	xhttp "PumpPulse/pkg/http"
	pkgkafka "PumpPulse/pkg/kafka"
	applogger "PumpPulse/pkg/logger"
	"PumpPulse/pkg/metrics"
	"PumpPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideCacheService creates the Redis-backed cache.
func ProvideCacheService(cfg *config.Config) (pkgcache.Service, error) {
	c, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Redis.Host),
		pkgcache.WithRedisPort(cfg.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
		pkgcache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return c, nil
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.SchemaStatements(cfg.ClickHouse.Database)); err != nil {
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
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
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

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideTickerCache creates the Redis ticker cache.
func ProvideTickerCache(c pkgcache.Service, cfg *config.Config, l *applogger.Logger) domrepo.TickerCache {
	return internalrepo.NewRedisTickerCache(c, internalrepo.TickerCacheConfig{
		AggregatedTTL: cfg.Cache.AggregatedTTL,
		PriceTTL:      cfg.Cache.PriceTTL,
		PumpCooldown:  cfg.Pump.Cooldown,
	}, l)
}

// ProvideSignalRepository creates the ClickHouse signal store.
func ProvideSignalRepository(ch *pkgch.Client, cfg *config.Config, l *applogger.Logger) domrepo.SignalRepository {
	return internalrepo.NewSignalStore(ch, cfg.ClickHouse.Database, l)
}

// ProvideTickerHistory creates the aggregated ticker archive.
func ProvideTickerHistory(ch *pkgch.Client, cfg *config.Config) domrepo.TickerHistory {
	return internalrepo.NewTickerHistoryStore(ch, cfg.ClickHouse.Database)
}

// ProvideBroadcaster creates the Kafka notification broadcaster.
func ProvideBroadcaster(p *pkgkafka.Producer, cfg *config.Config, l *applogger.Logger) dservice.Broadcaster {
	return notify.NewKafkaBroadcaster(p, cfg.Kafka.PumpTopic, cfg.Kafka.ClosureTopic, l)
}

// ProvideExchangeClients creates one REST client per configured exchange.
func ProvideExchangeClients(cfg *config.Config) []domrepo.ExchangeClient {
	clients := make([]domrepo.ExchangeClient, 0, len(cfg.Exchanges))
	for _, e := range cfg.Exchanges {
		clients = append(clients, exchange.NewRESTClient(e.Name, e.BaseURL, 10*time.Second))
	}
	return clients
}

// ProvideMarketScan creates the aggregation use case.
func ProvideMarketScan(
	clients []domrepo.ExchangeClient,
	cache domrepo.TickerCache,
	history domrepo.TickerHistory,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.MarketScanUseCase {
	return usecase.NewMarketScanUseCase(clients, cache, history, m, l, cfg.Symbols)
}

// ProvidePumpScan creates the pump-detection use case.
func ProvidePumpScan(
	cache domrepo.TickerCache,
	signals domrepo.SignalRepository,
	broadcaster dservice.Broadcaster,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.PumpScanUseCase {
	return usecase.NewPumpScanUseCase(
		market.NewSnapshotStore(),
		cache,
		signals,
		broadcaster,
		m,
		l,
		models.PumpConfig{
			ThresholdPct:     cfg.Pump.ThresholdPct,
			WindowMinutes:    cfg.Pump.WindowMinutes,
			VolumeMultiplier: cfg.Pump.VolumeMultiplier,
		},
		cfg.Pump.EventTTL,
	)
}

// ProvideSignalMonitor creates the lifecycle monitor use case.
func ProvideSignalMonitor(
	signals domrepo.SignalRepository,
	cache domrepo.TickerCache,
	broadcaster dservice.Broadcaster,
	m domrepo.Metrics,
	l *applogger.Logger,
) *usecase.SignalMonitorUseCase {
	return usecase.NewSignalMonitorUseCase(signals, cache, broadcaster, m, l)
}

// ProvideScheduler creates the cadence scheduler.
func ProvideScheduler(
	marketScan *usecase.MarketScanUseCase,
	pumpScan *usecase.PumpScanUseCase,
	monitor *usecase.SignalMonitorUseCase,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.Scheduler {
	return usecase.NewScheduler(
		marketScan, pumpScan, monitor, l,
		cfg.Scan.AggregateInterval,
		cfg.Scan.PumpScanInterval,
		cfg.Scan.SignalCheckInterval,
	)
}

// ProvideStreamCollector creates the live stream collector, or nil when the
// stream is disabled or no exchange exposes a WebSocket endpoint.
func ProvideStreamCollector(
	cfg *config.Config,
	cache domrepo.TickerCache,
	m domrepo.Metrics,
) *usecase.StreamCollector {
	if !cfg.Stream.Enabled {
		return nil
	}
	var streamCfg *config.ExchangeConfig
	for i := range cfg.Exchanges {
		if cfg.Exchanges[i].StreamURL != "" {
			streamCfg = &cfg.Exchanges[i]
			break
		}
	}
	if streamCfg == nil {
		return nil
	}

	stream := exchange.NewStream(
		streamCfg.Name,
		streamCfg.StreamURL,
		cfg.Symbols,
		streamCfg.ReconnectDelay,
		streamCfg.PingInterval,
	)
	proc := usecase.NewPriceUpdater(cache, m)
	pipe := mid.NewStreamPipeline(proc, m,
		mid.WithMaxRPS(cfg.Stream.MaxRPS),
		mid.WithBufferSize(cfg.Stream.BufferSize),
	)
	return usecase.NewStreamCollector(stream, proc, m, pipe)
}

// ProvideAPIHandler creates the HTTP API handler. Responses are cached in
// Redis so replicas behind one load balancer share the cache.
func ProvideAPIHandler(
	signals domrepo.SignalRepository,
	cache domrepo.TickerCache,
	collector *usecase.StreamCollector,
	cfg *config.Config,
	l *applogger.Logger,
) xhttp.Handler {
	h := api.NewHandler(signals, cache, l)
	h.SetResponseCache(icache.NewRedisCache(icache.RedisConfig{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}))
	if collector != nil {
		h.SetStream(collector)
	}
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	scheduler *usecase.Scheduler,
	collector *usecase.StreamCollector,
	handler xhttp.Handler,
	broadcaster dservice.Broadcaster,
	chClient *pkgch.Client,
) *server.App {
	return server.New(cfg, l, scheduler, collector, handler, broadcaster, chClient)
}

package di

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gannontraynor/marketPulse/internal/domain/repository"
	"github.com/gannontraynor/marketPulse/internal/handler/api"
	internalrepo "github.com/gannontraynor/marketPulse/internal/repository"
	icache "github.com/gannontraynor/marketPulse/internal/service/cache"
	"github.com/gannontraynor/marketPulse/internal/service/stooq"
	"github.com/gannontraynor/marketPulse/internal/signals"
	"github.com/gannontraynor/marketPulse/internal/usecase"
	pkgch "github.com/gannontraynor/marketPulse/pkg/clickhouse"
	"github.com/gannontraynor/marketPulse/pkg/config"
	xhttp "github.com/gannontraynor/marketPulse/pkg/http"
	pkgkafka "github.com/gannontraynor/marketPulse/pkg/kafka"
	applogger "github.com/gannontraynor/marketPulse/pkg/logger"
	"github.com/gannontraynor/marketPulse/pkg/metrics"
	"github.com/gannontraynor/marketPulse/pkg/server"
)

// ProvideLogger creates the application logger. Development gets a console
// writer at debug level, everything else structured JSON at info.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	lc := &applogger.Config{Level: "info", Format: "json", Output: "stdout"}
	if cfg.Environment == "development" {
		lc.Level = "debug"
		lc.Format = "console"
	}
	return applogger.New(lc)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideBarStore creates the configured bar store and ensures its schema.
func ProvideBarStore(cfg *config.Config, l *applogger.Logger) (repository.BarStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch cfg.Backend.Type {
	case "clickhouse":
		client, err := pkgch.NewClient(
			pkgch.WithHost(cfg.ClickHouse.Host),
			pkgch.WithPort(cfg.ClickHouse.Port),
			pkgch.WithDatabase(cfg.ClickHouse.Database),
			pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
			pkgch.WithMaxConnections(10, 5),
			pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
			pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
			pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
		)
		if err != nil {
			return nil, fmt.Errorf("clickhouse client: %w", err)
		}
		db := cfg.ClickHouse.Database
		if err := client.InitSchema(ctx, []string{
			"CREATE DATABASE IF NOT EXISTS " + db,
			"CREATE TABLE IF NOT EXISTS " + db + ".daily_bars (" +
				"symbol String, date Date, open Float64, high Float64, low Float64, close Float64, volume Float64" +
				") ENGINE=ReplacingMergeTree ORDER BY (symbol, date)",
		}); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("clickhouse schema: %w", err)
		}
		store := internalrepo.NewClickHouseBarStore(client, db+".daily_bars")
		store.SetLogger(l)
		return store, nil

	default: // postgres
		poolCfg, err := pgxpool.ParseConfig(cfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("postgres dsn: %w", err)
		}
		if cfg.Postgres.MaxOpenConns > 0 {
			poolCfg.MaxConns = int32(cfg.Postgres.MaxOpenConns)
		}
		if cfg.Postgres.MinIdleConns > 0 {
			poolCfg.MinConns = int32(cfg.Postgres.MinIdleConns)
		}
		if cfg.Postgres.ConnMaxLifetime > 0 {
			poolCfg.MaxConnLifetime = cfg.Postgres.ConnMaxLifetime
		}
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, fmt.Errorf("postgres pool: %w", err)
		}
		store := internalrepo.NewPostgresBarStore(pool)
		store.SetLogger(l)
		if err := store.InitSchema(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	}
}

// ProvidePublisher creates the Kafka transition publisher, or nil when
// Kafka is disabled in config.
func ProvidePublisher(cfg *config.Config) (repository.Publisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
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
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideCalculator creates the volatility calculator over the bar store.
func ProvideCalculator(store repository.BarStore, cfg *config.Config) *signals.Calculator {
	return signals.NewCalculator(store, cfg.Signals.TradingDays)
}

// ProvideSignalService creates the query-side service, wiring the optional
// response cache (Redis when configured, in-process otherwise).
func ProvideSignalService(
	calc *signals.Calculator,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.SignalService {
	opts := make([]usecase.SignalServiceOption, 0, 1)
	if cfg.Signals.Cache.Enabled {
		var c icache.ResponseCache
		if cfg.Signals.Cache.Redis.Enabled {
			c = icache.NewRedisCache(icache.RedisConfig{
				Addr:     cfg.Signals.Cache.Redis.Addr,
				Password: cfg.Signals.Cache.Redis.Password,
				DB:       cfg.Signals.Cache.Redis.DB,
			})
		} else {
			c = icache.NewTTLCache()
		}
		opts = append(opts, usecase.WithResponseCache(c, cfg.Signals.Cache.TTL))
	}
	return usecase.NewSignalService(calc, m, l, cfg.Signals.Symbols, opts...)
}

// ProvideHandler creates the Echo route handler.
func ProvideHandler(l *applogger.Logger, svc *usecase.SignalService, store repository.BarStore) xhttp.Handler {
	return api.NewSignalsEchoHandler(l, svc, store)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	store repository.BarStore,
	publisher repository.Publisher,
) *server.App {
	return server.New(cfg, l, handler, store, publisher)
}

// Ingest bundles everything the ingestion command needs.
type Ingest struct {
	Ingestor  *usecase.Ingestor
	Store     repository.BarStore
	Publisher repository.Publisher
	Logger    *applogger.Logger
	Symbols   []string
}

// ProvideFetcher creates the Stooq history fetcher.
func ProvideFetcher(cfg *config.Config, l *applogger.Logger) usecase.BarFetcher {
	opts := []stooq.Option{stooq.WithLogger(l)}
	if cfg.Stooq.RequestTimeout > 0 {
		opts = append(opts, stooq.WithTimeout(cfg.Stooq.RequestTimeout))
	}
	return stooq.NewClient(cfg.Stooq.BaseURL, opts...)
}

// ProvideIngestor creates the ingestion use case.
func ProvideIngestor(
	fetcher usecase.BarFetcher,
	store repository.BarStore,
	calc *signals.Calculator,
	m repository.Metrics,
	l *applogger.Logger,
	publisher repository.Publisher,
	cfg *config.Config,
) *usecase.Ingestor {
	opts := []usecase.IngestorOption{
		usecase.WithBatchSize(cfg.Stooq.BatchSize),
		usecase.WithUpstreamRPS(cfg.Stooq.MaxRPS),
		usecase.WithLookback(cfg.Signals.DefaultLookback),
	}
	if publisher != nil {
		opts = append(opts, usecase.WithPublisher(publisher))
	}
	return usecase.NewIngestor(fetcher, store, calc, m, l, opts...)
}

// ProvideIngest bundles the ingest job dependencies.
func ProvideIngest(
	ing *usecase.Ingestor,
	store repository.BarStore,
	publisher repository.Publisher,
	l *applogger.Logger,
	cfg *config.Config,
) *Ingest {
	return &Ingest{
		Ingestor:  ing,
		Store:     store,
		Publisher: publisher,
		Logger:    l,
		Symbols:   cfg.Signals.Symbols,
	}
}

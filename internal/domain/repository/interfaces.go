package repository

import (
	"context"
	"errors"
	"time"

	"PumpPulse/internal/domain/models"
)

// ErrNoPrice is returned by TickerCache when no cached price exists for a
// symbol. A miss is "no data available", never a failure.
var ErrNoPrice = errors.New("no cached price for symbol")

// ExchangeClient fetches tickers from one exchange. Implementations are pure
// I/O translation; errors propagate to the orchestrator, which isolates the
// failing exchange for that tick.
type ExchangeClient interface {
	Name() string
	GetAllTickers(ctx context.Context) ([]models.Ticker, error)
}

// TickerStream is a live per-symbol price feed (WebSocket miniTicker style)
// that keeps the cache warm between aggregation ticks.
type TickerStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Ticker, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// TickerCache stores the aggregated ticker map, per-symbol latest prices and
// recent pump events, each under its own TTL.
type TickerCache interface {
	SetAggregated(ctx context.Context, tickers map[string]models.AggregatedTicker) error
	GetAggregated(ctx context.Context) (map[string]models.AggregatedTicker, error)
	SetLatestPrice(ctx context.Context, symbol string, price float64) error
	GetLatestPrice(ctx context.Context, symbol string) (float64, error)
	StorePumpEvent(ctx context.Context, ev models.PumpEvent, ttl time.Duration) error
	RecentPumpEvents(ctx context.Context) ([]models.PumpEvent, error)
	PumpCooldownActive(ctx context.Context, symbol string) (bool, error)
	Health(ctx context.Context) error
}

// SignalRepository persists signals keyed by an opaque id.
type SignalRepository interface {
	Create(ctx context.Context, s *models.Signal) error
	GetByID(ctx context.Context, id string) (*models.Signal, error)
	ListActive(ctx context.Context) ([]*models.Signal, error)
	ListByStatus(ctx context.Context, status models.SignalStatus, limit int) ([]*models.Signal, error)
	UpdateStatus(ctx context.Context, s *models.Signal) error
	Health(ctx context.Context) error
}

// TickerHistory archives aggregated ticker rows for later analysis.
type TickerHistory interface {
	StoreBatch(ctx context.Context, tickers []models.AggregatedTicker) error
}

// Metrics records operational metrics for the pipeline.
type Metrics interface {
	RecordTickAggregated(exchange string, symbols int)
	RecordPumpDetected(symbol string)
	RecordSignalGenerated(trigger string)
	RecordSignalClosed(status string)
	RecordLastPrice(symbol string, price float64)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}

package usecase

import (
	"context"
	"sync"
	"time"

	"PumpPulse/internal/domain/models"
	domrepo "PumpPulse/internal/domain/repository"
	applogger "PumpPulse/pkg/logger"
)

func testLogger() *applogger.Logger {
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		panic(err)
	}
	return l
}

type fakeExchange struct {
	name    string
	tickers []models.Ticker
	err     error
}

func (f *fakeExchange) Name() string { return f.name }

func (f *fakeExchange) GetAllTickers(ctx context.Context) ([]models.Ticker, error) {
	return f.tickers, f.err
}

// memTickerCache is an in-memory TickerCache for tests.
type memTickerCache struct {
	mu       sync.Mutex
	agg      map[string]models.AggregatedTicker
	prices   map[string]float64
	priceErr map[string]error
	pumps    []models.PumpEvent
	cooldown map[string]bool
	storeErr error
}

func newMemTickerCache() *memTickerCache {
	return &memTickerCache{
		agg:      map[string]models.AggregatedTicker{},
		prices:   map[string]float64{},
		priceErr: map[string]error{},
		cooldown: map[string]bool{},
	}
}

func (m *memTickerCache) SetAggregated(ctx context.Context, tickers map[string]models.AggregatedTicker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.agg = tickers
	for sym, t := range tickers {
		m.prices[sym] = t.Price
	}
	return nil
}

func (m *memTickerCache) GetAggregated(ctx context.Context) (map[string]models.AggregatedTicker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.agg, nil
}

func (m *memTickerCache) SetLatestPrice(ctx context.Context, symbol string, price float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[symbol] = price
	return nil
}

func (m *memTickerCache) GetLatestPrice(ctx context.Context, symbol string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.priceErr[symbol]; ok {
		return 0, err
	}
	p, ok := m.prices[symbol]
	if !ok {
		return 0, domrepo.ErrNoPrice
	}
	return p, nil
}

func (m *memTickerCache) StorePumpEvent(ctx context.Context, ev models.PumpEvent, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storeErr != nil {
		return m.storeErr
	}
	m.pumps = append(m.pumps, ev)
	m.cooldown[ev.Symbol] = true
	return nil
}

func (m *memTickerCache) RecentPumpEvents(ctx context.Context) ([]models.PumpEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.PumpEvent(nil), m.pumps...), nil
}

func (m *memTickerCache) PumpCooldownActive(ctx context.Context, symbol string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cooldown[symbol], nil
}

func (m *memTickerCache) Health(ctx context.Context) error { return nil }

type fakeHistory struct {
	mu   sync.Mutex
	rows []models.AggregatedTicker
}

func (f *fakeHistory) StoreBatch(ctx context.Context, tickers []models.AggregatedTicker) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, tickers...)
	return nil
}

type fakeSignalRepo struct {
	mu      sync.Mutex
	created []*models.Signal
	updated []*models.Signal
	active  []*models.Signal
}

func (f *fakeSignalRepo) Create(ctx context.Context, s *models.Signal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.created = append(f.created, &cp)
	return nil
}

func (f *fakeSignalRepo) GetByID(ctx context.Context, id string) (*models.Signal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.created {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSignalRepo) ListActive(ctx context.Context) ([]*models.Signal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active, nil
}

func (f *fakeSignalRepo) ListByStatus(ctx context.Context, status models.SignalStatus, limit int) ([]*models.Signal, error) {
	return nil, nil
}

func (f *fakeSignalRepo) UpdateStatus(ctx context.Context, s *models.Signal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.updated = append(f.updated, &cp)
	return nil
}

func (f *fakeSignalRepo) Health(ctx context.Context) error { return nil }

type fakeBroadcaster struct {
	mu       sync.Mutex
	pumps    []models.PumpNotification
	closures []models.SignalClosureNotification
}

func (f *fakeBroadcaster) BroadcastPump(ctx context.Context, n models.PumpNotification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pumps = append(f.pumps, n)
	return nil
}

func (f *fakeBroadcaster) BroadcastSignalClosure(ctx context.Context, n models.SignalClosureNotification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closures = append(f.closures, n)
	return nil
}

func (f *fakeBroadcaster) Close() error { return nil }

type nopMetrics struct{}

func (nopMetrics) RecordTickAggregated(exchange string, symbols int) {}
func (nopMetrics) RecordPumpDetected(symbol string)                 {}
func (nopMetrics) RecordSignalGenerated(trigger string)             {}
func (nopMetrics) RecordSignalClosed(status string)                 {}
func (nopMetrics) RecordLastPrice(symbol string, price float64)     {}
func (nopMetrics) RecordError(kind string)                          {}
func (nopMetrics) RecordLatency(op string, seconds float64)         {}

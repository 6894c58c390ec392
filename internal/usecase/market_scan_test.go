package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"PumpPulse/internal/domain/models"
	domrepo "PumpPulse/internal/domain/repository"
)

func tick(symbol string, price, volume float64) models.Ticker {
	return models.Ticker{
		Symbol:    symbol,
		Price:     price,
		Volume24h: volume,
		High24h:   price * 1.05,
		Low24h:    price * 0.95,
		Timestamp: time.Now(),
	}
}

func TestScanAggregatesAcrossExchanges(t *testing.T) {
	clients := []domrepo.ExchangeClient{
		&fakeExchange{name: "binance", tickers: []models.Ticker{tick("BTCUSDT", 50000, 1000)}},
		&fakeExchange{name: "kraken", tickers: []models.Ticker{tick("BTCUSDT", 50200, 500)}},
	}
	cache := newMemTickerCache()
	history := &fakeHistory{}
	uc := NewMarketScanUseCase(clients, cache, history, nopMetrics{}, testLogger(), nil)

	res, err := uc.Scan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected exchange errors: %v", res.Errors)
	}

	agg, ok := res.Tickers["BTCUSDT"]
	if !ok {
		t.Fatal("expected BTCUSDT in result")
	}
	if math.Abs(agg.Price-50100) > 1e-9 {
		t.Fatalf("expected mean price 50100, got %v", agg.Price)
	}
	if agg.Volume24h != 1500 {
		t.Fatalf("expected summed volume 1500, got %v", agg.Volume24h)
	}
	if len(agg.Exchanges) != 2 || agg.Exchanges[0] != "binance" || agg.Exchanges[1] != "kraken" {
		t.Fatalf("expected first-seen exchange order, got %v", agg.Exchanges)
	}

	if _, ok := cache.agg["BTCUSDT"]; !ok {
		t.Fatal("expected aggregated map in cache")
	}
	if len(history.rows) != 1 {
		t.Fatalf("expected 1 history row, got %d", len(history.rows))
	}
}

func TestScanIsolatesFailingExchange(t *testing.T) {
	clients := []domrepo.ExchangeClient{
		&fakeExchange{name: "binance", tickers: []models.Ticker{tick("BTCUSDT", 50000, 1000)}},
		&fakeExchange{name: "broken", err: errors.New("connection refused")},
	}
	uc := NewMarketScanUseCase(clients, newMemTickerCache(), &fakeHistory{}, nopMetrics{}, testLogger(), nil)

	res, err := uc.Scan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := res.Errors["broken"]; !ok {
		t.Fatalf("expected error entry for broken exchange, got %v", res.Errors)
	}

	agg := res.Tickers["BTCUSDT"]
	if agg.Price != 50000 {
		t.Fatalf("expected price from surviving exchange, got %v", agg.Price)
	}
	if len(agg.Exchanges) != 1 || agg.Exchanges[0] != "binance" {
		t.Fatalf("failing exchange must not contribute: %v", agg.Exchanges)
	}
}

func TestScanFiltersConfiguredSymbols(t *testing.T) {
	clients := []domrepo.ExchangeClient{
		&fakeExchange{name: "binance", tickers: []models.Ticker{
			tick("BTCUSDT", 50000, 1000),
			tick("DOGEUSDT", 0.1, 9000),
		}},
	}
	uc := NewMarketScanUseCase(clients, newMemTickerCache(), &fakeHistory{}, nopMetrics{}, testLogger(), []string{"BTCUSDT"})

	res, err := uc.Scan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Tickers) != 1 {
		t.Fatalf("expected only configured symbol, got %v", res.Tickers)
	}
	if _, ok := res.Tickers["DOGEUSDT"]; ok {
		t.Fatal("unconfigured symbol must be filtered")
	}
}

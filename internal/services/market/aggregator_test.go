package market

import (
	"math"
	"testing"

	"PumpPulse/internal/domain/models"
)

func tick(symbol string, price, volume, change, high, low float64) models.Ticker {
	return models.Ticker{Symbol: symbol, Price: price, Volume24h: volume, Change24h: change, High24h: high, Low24h: low}
}

func TestAggregateTickersEmpty(t *testing.T) {
	out := AggregateTickers(map[string][]models.Ticker{}, nil)
	if len(out) != 0 {
		t.Fatalf("expected empty map, got %d entries", len(out))
	}
}

func TestAggregateTickersSingleExchange(t *testing.T) {
	in := map[string][]models.Ticker{
		"binance": {tick("BTCUSDT", 50000, 1000, 2.5, 51000, 49000)},
	}
	out := AggregateTickers(in, []string{"binance"})

	agg, ok := out["BTCUSDT"]
	if !ok {
		t.Fatalf("expected BTCUSDT in output")
	}
	if agg.Price != 50000 || agg.Volume24h != 1000 || agg.Change24h != 2.5 {
		t.Fatalf("single-exchange values must match input: %+v", agg)
	}
	if agg.High24h != 51000 || agg.Low24h != 49000 {
		t.Fatalf("unexpected high/low: %+v", agg)
	}
	if len(agg.Exchanges) != 1 || agg.Exchanges[0] != "binance" {
		t.Fatalf("unexpected exchanges: %v", agg.Exchanges)
	}
}

func TestAggregateTickersMeanSumMaxMin(t *testing.T) {
	in := map[string][]models.Ticker{
		"binance": {tick("ETHUSDT", 3000, 500, 1.0, 3100, 2900)},
		"bybit":   {tick("ETHUSDT", 3010, 300, 3.0, 3150, 2880)},
		"okx":     {tick("ETHUSDT", 2990, 200, 2.0, 3050, 2950)},
	}
	out := AggregateTickers(in, []string{"binance", "bybit", "okx"})

	agg := out["ETHUSDT"]
	if math.Abs(agg.Price-3000) > 1e-9 {
		t.Fatalf("price must be the arithmetic mean, got %v", agg.Price)
	}
	if agg.Volume24h != 1000 {
		t.Fatalf("volume must be the sum, got %v", agg.Volume24h)
	}
	if math.Abs(agg.Change24h-2.0) > 1e-9 {
		t.Fatalf("change must be the mean, got %v", agg.Change24h)
	}
	if agg.High24h != 3150 || agg.Low24h != 2880 {
		t.Fatalf("high/low must be max/min, got %v/%v", agg.High24h, agg.Low24h)
	}
	want := []string{"binance", "bybit", "okx"}
	if len(agg.Exchanges) != len(want) {
		t.Fatalf("unexpected exchange count: %v", agg.Exchanges)
	}
	for i := range want {
		if agg.Exchanges[i] != want[i] {
			t.Fatalf("exchanges must keep first-seen order, got %v", agg.Exchanges)
		}
	}
}

func TestAggregateTickersDisjointSymbols(t *testing.T) {
	in := map[string][]models.Ticker{
		"binance": {tick("BTCUSDT", 50000, 10, 1, 50500, 49500)},
		"bybit":   {tick("SOLUSDT", 150, 20, -2, 155, 148)},
	}
	out := AggregateTickers(in, []string{"binance", "bybit"})
	if len(out) != 2 {
		t.Fatalf("expected two symbols, got %d", len(out))
	}
	if out["SOLUSDT"].Exchanges[0] != "bybit" {
		t.Fatalf("unexpected contributor for SOLUSDT: %v", out["SOLUSDT"].Exchanges)
	}
}

func TestAggregateTickersSkipsAbsentExchange(t *testing.T) {
	in := map[string][]models.Ticker{
		"binance": {tick("BTCUSDT", 50000, 10, 1, 50500, 49500)},
	}
	// bybit failed upstream this tick and is absent from the mapping
	out := AggregateTickers(in, []string{"bybit", "binance"})
	agg := out["BTCUSDT"]
	if len(agg.Exchanges) != 1 || agg.Exchanges[0] != "binance" {
		t.Fatalf("absent exchange must contribute nothing: %v", agg.Exchanges)
	}
}

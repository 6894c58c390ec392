package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"PumpPulse/internal/domain/models"
	"PumpPulse/internal/services/market"
)

func aggTicker(symbol string, price, volume float64) models.AggregatedTicker {
	return models.AggregatedTicker{
		Symbol:    symbol,
		Price:     price,
		Volume24h: volume,
		High24h:   price * 1.05,
		Low24h:    price * 0.95,
		Timestamp: time.Now(),
		Exchanges: []string{"binance"},
	}
}

func newPumpScan(cache *memTickerCache, repo *fakeSignalRepo, bc *fakeBroadcaster) *PumpScanUseCase {
	cfg := models.PumpConfig{ThresholdPct: 5, WindowMinutes: 5, VolumeMultiplier: 2}
	return NewPumpScanUseCase(
		market.NewSnapshotStore(), cache, repo, bc,
		nopMetrics{}, testLogger(), cfg, 30*time.Minute,
	)
}

func TestFirstScanEstablishesBaseline(t *testing.T) {
	cache := newMemTickerCache()
	cache.agg = map[string]models.AggregatedTicker{"BTCUSDT": aggTicker("BTCUSDT", 50000, 1000)}
	uc := newPumpScan(cache, &fakeSignalRepo{}, &fakeBroadcaster{})

	report, err := uc.Scan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Detected) != 0 {
		t.Fatalf("first scan must only set the baseline, got %v", report.Detected)
	}
}

func TestPumpDetectedBroadcastAndSignal(t *testing.T) {
	cache := newMemTickerCache()
	repo := &fakeSignalRepo{}
	bc := &fakeBroadcaster{}
	uc := newPumpScan(cache, repo, bc)
	ctx := context.Background()

	cache.agg = map[string]models.AggregatedTicker{"BTCUSDT": aggTicker("BTCUSDT", 50000, 1000)}
	if _, err := uc.Scan(ctx); err != nil {
		t.Fatalf("baseline scan: %v", err)
	}

	// +6% price, x3 volume clears both thresholds
	cache.agg = map[string]models.AggregatedTicker{"BTCUSDT": aggTicker("BTCUSDT", 53000, 3000)}
	report, err := uc.Scan(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Detected) != 1 {
		t.Fatalf("expected 1 pump, got %d", len(report.Detected))
	}
	ev := report.Detected[0]
	if ev.Symbol != "BTCUSDT" || ev.StartPrice != 50000 || ev.CurrentPrice != 53000 {
		t.Fatalf("unexpected event: %+v", ev)
	}

	if len(cache.pumps) != 1 {
		t.Fatalf("expected stored pump event, got %d", len(cache.pumps))
	}
	if len(bc.pumps) != 1 || bc.pumps[0].Symbol != "BTCUSDT" {
		t.Fatalf("expected pump broadcast, got %v", bc.pumps)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected 1 generated signal, got %d", len(repo.created))
	}
	sig := repo.created[0]
	if sig.Status != models.StatusActive {
		t.Fatalf("new signal must be active, got %s", sig.Status)
	}
	if sig.Direction != models.DirectionBuy {
		t.Fatalf("pump signal must be buy, got %s", sig.Direction)
	}
	if len(sig.AITriggers) != 1 || sig.AITriggers[0].Type != models.TriggerPumpDetection {
		t.Fatalf("expected pump_detection trigger, got %v", sig.AITriggers)
	}
	if sig.Exchange != "binance" {
		t.Fatalf("expected exchange of record, got %q", sig.Exchange)
	}
}

func TestCooldownSuppressesRepeatPump(t *testing.T) {
	cache := newMemTickerCache()
	repo := &fakeSignalRepo{}
	uc := newPumpScan(cache, repo, &fakeBroadcaster{})
	ctx := context.Background()

	cache.cooldown["BTCUSDT"] = true
	cache.agg = map[string]models.AggregatedTicker{"BTCUSDT": aggTicker("BTCUSDT", 50000, 1000)}
	if _, err := uc.Scan(ctx); err != nil {
		t.Fatalf("baseline scan: %v", err)
	}

	cache.agg = map[string]models.AggregatedTicker{"BTCUSDT": aggTicker("BTCUSDT", 53000, 3000)}
	report, err := uc.Scan(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Detected) != 0 || len(cache.pumps) != 0 || len(repo.created) != 0 {
		t.Fatal("cooldown must suppress event, broadcast and signal")
	}
}

func TestSymbolErrorDoesNotAbortScan(t *testing.T) {
	cache := newMemTickerCache()
	uc := newPumpScan(cache, &fakeSignalRepo{}, &fakeBroadcaster{})
	ctx := context.Background()

	cache.agg = map[string]models.AggregatedTicker{"BTCUSDT": aggTicker("BTCUSDT", 50000, 1000)}
	if _, err := uc.Scan(ctx); err != nil {
		t.Fatalf("baseline scan: %v", err)
	}

	cache.storeErr = errors.New("redis down")
	cache.agg = map[string]models.AggregatedTicker{"BTCUSDT": aggTicker("BTCUSDT", 53000, 3000)}
	report, err := uc.Scan(ctx)
	if err != nil {
		t.Fatalf("scan must not fail on one symbol: %v", err)
	}
	if _, ok := report.Errors["BTCUSDT"]; !ok {
		t.Fatalf("expected per-symbol error, got %v", report.Errors)
	}
	if len(report.Detected) != 0 {
		t.Fatal("failed symbol must not appear in detected list")
	}
}

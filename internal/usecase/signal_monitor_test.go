package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"PumpPulse/internal/domain/models"
)

func buySignal(id string, entry, sl, tp1, tp2, tp3 float64) *models.Signal {
	return &models.Signal{
		GeneratedSignal: models.GeneratedSignal{
			Symbol:      "BTCUSDT",
			Exchange:    "binance",
			Direction:   models.DirectionBuy,
			EntryPrice:  entry,
			StopLoss:    sl,
			TakeProfit1: tp1,
			TakeProfit2: tp2,
			TakeProfit3: tp3,
		},
		ID:        id,
		Status:    models.StatusActive,
		CreatedAt: time.Now(),
	}
}

func newMonitor(cache *memTickerCache, repo *fakeSignalRepo, bc *fakeBroadcaster) *SignalMonitorUseCase {
	return NewSignalMonitorUseCase(repo, cache, bc, nopMetrics{}, testLogger())
}

func TestStopLossCloses(t *testing.T) {
	cache := newMemTickerCache()
	repo := &fakeSignalRepo{active: []*models.Signal{
		buySignal("s1", 50000, 49000, 51000, 52000, 53000),
	}}
	bc := &fakeBroadcaster{}
	cache.prices["BTCUSDT"] = 48500

	report, err := newMonitor(cache, repo, bc).Check(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Checked != 1 || len(report.Closed) != 1 {
		t.Fatalf("expected 1 closed of 1 checked, got %+v", report)
	}

	closed := report.Closed[0]
	if closed.Status != models.StatusClosed {
		t.Fatalf("expected closed, got %s", closed.Status)
	}
	// the position exits at the stop level, not at the gapped-through price
	if closed.ResultPnl == nil || *closed.ResultPnl != -2.0 {
		t.Fatalf("expected pnl -2.00, got %v", closed.ResultPnl)
	}
	if closed.ClosedAt == nil {
		t.Fatal("expected closed_at set")
	}
	if len(repo.updated) != 1 {
		t.Fatalf("expected persisted update, got %d", len(repo.updated))
	}
	if len(bc.closures) != 1 || bc.closures[0].ID != "s1" {
		t.Fatalf("expected closure broadcast, got %v", bc.closures)
	}
}

func TestTakeProfitLaddersUp(t *testing.T) {
	tests := []struct {
		name   string
		price  float64
		status models.SignalStatus
		pnl    float64
	}{
		{"tp1", 51500, models.StatusTP1Hit, 2.0},
		{"tp2", 52100, models.StatusTP2Hit, 4.0},
		{"tp3", 53500, models.StatusTP3Hit, 6.0},
		{"hold", 50500, models.StatusActive, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := newMemTickerCache()
			repo := &fakeSignalRepo{active: []*models.Signal{
				buySignal("s1", 50000, 49000, 51000, 52000, 53000),
			}}
			cache.prices["BTCUSDT"] = tt.price

			report, err := newMonitor(cache, repo, &fakeBroadcaster{}).Check(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.status == models.StatusActive {
				if len(report.Closed) != 0 {
					t.Fatalf("expected signal to stay active, got %v", report.Closed)
				}
				return
			}
			if len(report.Closed) != 1 {
				t.Fatalf("expected 1 closed, got %d", len(report.Closed))
			}
			if report.Closed[0].Status != tt.status {
				t.Fatalf("expected %s, got %s", tt.status, report.Closed[0].Status)
			}
			if *report.Closed[0].ResultPnl != tt.pnl {
				t.Fatalf("expected pnl %v, got %v", tt.pnl, *report.Closed[0].ResultPnl)
			}
		})
	}
}

func TestStopLossWinsOverTakeProfit(t *testing.T) {
	// degenerate geometry where one price satisfies both: stop must win
	sig := buySignal("s1", 50000, 49000, 48000, 47000, 46000)
	got, exit := Evaluate(sig, 48500)
	if got != models.StatusClosed {
		t.Fatalf("stop loss must take priority, got %s", got)
	}
	if exit != 49000 {
		t.Fatalf("expected exit at stop level 49000, got %v", exit)
	}
}

func TestUnsetTakeProfitLevelsSkipped(t *testing.T) {
	// only TP1 configured: higher levels must not fire on their zero value
	sig := buySignal("s1", 50000, 49000, 51000, 0, 0)

	got, _ := Evaluate(sig, 50500)
	if got != models.StatusActive {
		t.Fatalf("expected active between stop and tp1, got %s", got)
	}

	got, exit := Evaluate(sig, 51500)
	if got != models.StatusTP1Hit {
		t.Fatalf("expected tp1_hit, got %s", got)
	}
	if exit != 51000 {
		t.Fatalf("expected exit at tp1 level 51000, got %v", exit)
	}
	if pnl := PnlPercent(sig, exit); pnl != 2.0 {
		t.Fatalf("expected pnl 2.00, got %v", pnl)
	}
}

func TestSellDirectionEvaluation(t *testing.T) {
	sig := &models.Signal{
		GeneratedSignal: models.GeneratedSignal{
			Symbol:      "ETHUSDT",
			Direction:   models.DirectionSell,
			EntryPrice:  3000,
			StopLoss:    3060,
			TakeProfit1: 2940,
			TakeProfit2: 2880,
			TakeProfit3: 2820,
		},
		ID:     "s2",
		Status: models.StatusActive,
	}

	got, exit := Evaluate(sig, 3100)
	if got != models.StatusClosed || exit != 3060 {
		t.Fatalf("sell stop: expected closed at 3060, got %s at %v", got, exit)
	}
	got, exit = Evaluate(sig, 2930)
	if got != models.StatusTP1Hit || exit != 2940 {
		t.Fatalf("sell tp1: expected tp1_hit at 2940, got %s at %v", got, exit)
	}
	got, exit = Evaluate(sig, 2800)
	if got != models.StatusTP3Hit || exit != 2820 {
		t.Fatalf("sell tp3: expected tp3_hit at 2820, got %s at %v", got, exit)
	}
	if got := PnlPercent(sig, 3060); got != -2.0 {
		t.Fatalf("sell stop pnl: expected -2.00, got %v", got)
	}
	if got := PnlPercent(sig, 2940); got != 2.0 {
		t.Fatalf("sell tp pnl: expected 2.00, got %v", got)
	}
}

func TestMissingPriceIsQuietNoOp(t *testing.T) {
	cache := newMemTickerCache()
	repo := &fakeSignalRepo{active: []*models.Signal{
		buySignal("s1", 50000, 49000, 51000, 52000, 53000),
	}}

	report, err := newMonitor(cache, repo, &fakeBroadcaster{}).Check(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Checked != 1 || len(report.Closed) != 0 || len(report.Errors) != 0 {
		t.Fatalf("missing price must be a no-op, got %+v", report)
	}
	if len(repo.updated) != 0 {
		t.Fatal("signal must stay untouched without a price")
	}
}

func TestSignalErrorDoesNotAbortBatch(t *testing.T) {
	cache := newMemTickerCache()
	broken := buySignal("bad", 50000, 49000, 51000, 52000, 53000)
	broken.Symbol = "BROKEN"
	good := buySignal("good", 50000, 49000, 51000, 52000, 53000)
	repo := &fakeSignalRepo{active: []*models.Signal{broken, good}}

	cache.priceErr["BROKEN"] = errors.New("redis timeout")
	cache.prices["BTCUSDT"] = 51500

	report, err := newMonitor(cache, repo, &fakeBroadcaster{}).Check(context.Background())
	if err != nil {
		t.Fatalf("batch must not fail on one signal: %v", err)
	}
	if _, ok := report.Errors["bad"]; !ok {
		t.Fatalf("expected per-signal error, got %v", report.Errors)
	}
	if len(report.Closed) != 1 || report.Closed[0].ID != "good" {
		t.Fatalf("healthy signal must still close, got %v", report.Closed)
	}
}

package usecase

import (
	"context"
	"errors"
	"math"
	"time"

	"PumpPulse/internal/domain/models"
	domrepo "PumpPulse/internal/domain/repository"
	dservice "PumpPulse/internal/domain/service"
	applogger "PumpPulse/pkg/logger"
)

// SignalMonitorUseCase walks every active signal against the latest cached
// price and moves it to a terminal status when a stop or take-profit level is
// touched. The position settles at the touched level. A signal is mutated
// exactly once; a missing price is a quiet no-op, not an error.
type SignalMonitorUseCase struct {
	signalRepo  domrepo.SignalRepository
	cache       domrepo.TickerCache
	broadcaster dservice.Broadcaster
	metrics     domrepo.Metrics
	log         *applogger.Logger
}

// NewSignalMonitorUseCase creates the lifecycle monitor.
func NewSignalMonitorUseCase(
	signalRepo domrepo.SignalRepository,
	cache domrepo.TickerCache,
	broadcaster dservice.Broadcaster,
	metrics domrepo.Metrics,
	log *applogger.Logger,
) *SignalMonitorUseCase {
	return &SignalMonitorUseCase{
		signalRepo:  signalRepo,
		cache:       cache,
		broadcaster: broadcaster,
		metrics:     metrics,
		log:         log,
	}
}

// CheckReport is one monitor tick: how many signals were inspected, which
// closed, and per-signal errors. One failing signal never aborts the batch.
type CheckReport struct {
	Checked int
	Closed  []models.Signal
	Errors  map[string]string
}

// Check runs one lifecycle tick over all active signals.
func (uc *SignalMonitorUseCase) Check(ctx context.Context) (*CheckReport, error) {
	start := time.Now()

	active, err := uc.signalRepo.ListActive(ctx)
	if err != nil {
		uc.metrics.RecordError("monitor_list")
		return nil, err
	}

	report := &CheckReport{Checked: len(active), Errors: map[string]string{}}
	for _, sig := range active {
		price, err := uc.cache.GetLatestPrice(ctx, sig.Symbol)
		if errors.Is(err, domrepo.ErrNoPrice) {
			uc.log.Debug("no price for signal", applogger.String("symbol", sig.Symbol))
			continue
		}
		if err != nil {
			report.Errors[sig.ID] = err.Error()
			uc.metrics.RecordError("monitor_price")
			uc.log.Error("price read failed for signal",
				applogger.String("signal_id", sig.ID),
				applogger.String("symbol", sig.Symbol),
				applogger.Error(err),
			)
			continue
		}

		status, exitPrice := Evaluate(sig, price)
		if status == models.StatusActive {
			continue
		}

		if err := uc.close(ctx, sig, status, exitPrice); err != nil {
			report.Errors[sig.ID] = err.Error()
			continue
		}
		report.Closed = append(report.Closed, *sig)
	}

	uc.metrics.RecordLatency("signal_monitor", time.Since(start).Seconds())
	return report, nil
}

// Evaluate decides the next status for a signal at the given price, along
// with the exit price that settles it. The exit price is the level that was
// touched, not the observed price: a gap through the stop still settles at
// the stop. The stop loss always wins over any take profit touched in the
// same tick, the highest touched take profit wins among themselves, and
// unset (zero) take-profit levels are skipped.
func Evaluate(sig *models.Signal, price float64) (models.SignalStatus, float64) {
	if sig.Direction == models.DirectionBuy {
		switch {
		case price <= sig.StopLoss:
			return models.StatusClosed, sig.StopLoss
		case sig.TakeProfit3 > 0 && price >= sig.TakeProfit3:
			return models.StatusTP3Hit, sig.TakeProfit3
		case sig.TakeProfit2 > 0 && price >= sig.TakeProfit2:
			return models.StatusTP2Hit, sig.TakeProfit2
		case sig.TakeProfit1 > 0 && price >= sig.TakeProfit1:
			return models.StatusTP1Hit, sig.TakeProfit1
		}
		return models.StatusActive, 0
	}

	switch {
	case price >= sig.StopLoss:
		return models.StatusClosed, sig.StopLoss
	case sig.TakeProfit3 > 0 && price <= sig.TakeProfit3:
		return models.StatusTP3Hit, sig.TakeProfit3
	case sig.TakeProfit2 > 0 && price <= sig.TakeProfit2:
		return models.StatusTP2Hit, sig.TakeProfit2
	case sig.TakeProfit1 > 0 && price <= sig.TakeProfit1:
		return models.StatusTP1Hit, sig.TakeProfit1
	}
	return models.StatusActive, 0
}

// PnlPercent computes the realized percent move for a signal exited at
// exitPrice, rounded to 2 decimals. Positive is profit for the signal's
// direction.
func PnlPercent(sig *models.Signal, exitPrice float64) float64 {
	pnl := (exitPrice - sig.EntryPrice) / sig.EntryPrice * 100
	if sig.Direction == models.DirectionSell {
		pnl = -pnl
	}
	return math.Round(pnl*100) / 100
}

func (uc *SignalMonitorUseCase) close(ctx context.Context, sig *models.Signal, status models.SignalStatus, exitPrice float64) error {
	now := time.Now()
	pnl := PnlPercent(sig, exitPrice)

	sig.Status = status
	sig.ResultPnl = &pnl
	sig.ClosedAt = &now

	if err := uc.signalRepo.UpdateStatus(ctx, sig); err != nil {
		uc.metrics.RecordError("monitor_update")
		return err
	}
	uc.metrics.RecordSignalClosed(string(status))
	uc.log.Info("signal closed",
		applogger.String("signal_id", sig.ID),
		applogger.String("symbol", sig.Symbol),
		applogger.String("status", string(status)),
		applogger.Float64("pnl", pnl),
	)

	_ = uc.broadcaster.BroadcastSignalClosure(ctx, models.SignalClosureNotification{
		ID:         sig.ID,
		Symbol:     sig.Symbol,
		Direction:  sig.Direction,
		Confidence: sig.AIConfidence,
		Timestamp:  now,
	})
	return nil
}

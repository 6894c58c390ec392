package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"PumpPulse/internal/domain/models"
	domrepo "PumpPulse/internal/domain/repository"
	dservice "PumpPulse/internal/domain/service"
	"PumpPulse/internal/services/market"
	"PumpPulse/internal/services/signals"
	applogger "PumpPulse/pkg/logger"
)

// PumpScanUseCase compares the current aggregated snapshot against the
// previous one, records pump events, broadcasts them and turns each into a
// pump_detection signal. One failing symbol never aborts the scan.
type PumpScanUseCase struct {
	snapshots   *market.SnapshotStore
	cache       domrepo.TickerCache
	signalRepo  domrepo.SignalRepository
	broadcaster dservice.Broadcaster
	metrics     domrepo.Metrics
	log         *applogger.Logger

	pumpCfg  models.PumpConfig
	eventTTL time.Duration
}

// NewPumpScanUseCase creates the pump scanner.
func NewPumpScanUseCase(
	snapshots *market.SnapshotStore,
	cache domrepo.TickerCache,
	signalRepo domrepo.SignalRepository,
	broadcaster dservice.Broadcaster,
	metrics domrepo.Metrics,
	log *applogger.Logger,
	pumpCfg models.PumpConfig,
	eventTTL time.Duration,
) *PumpScanUseCase {
	return &PumpScanUseCase{
		snapshots:   snapshots,
		cache:       cache,
		signalRepo:  signalRepo,
		broadcaster: broadcaster,
		metrics:     metrics,
		log:         log,
		pumpCfg:     pumpCfg,
		eventTTL:    eventTTL,
	}
}

// PumpScanReport is one scan tick: detected events plus per-symbol errors.
type PumpScanReport struct {
	Detected []models.PumpEvent
	Errors   map[string]string
}

// Scan runs one pump-detection tick.
func (uc *PumpScanUseCase) Scan(ctx context.Context) (*PumpScanReport, error) {
	start := time.Now()

	current, err := uc.cache.GetAggregated(ctx)
	if err != nil {
		uc.metrics.RecordError("pump_scan_read")
		return nil, err
	}

	previous := uc.snapshots.Swap(current)
	report := &PumpScanReport{Errors: map[string]string{}}
	if previous == nil {
		// first tick establishes the baseline, nothing to compare yet
		return report, nil
	}

	for symbol, cur := range current {
		var prev *models.AggregatedTicker
		if p, ok := previous[symbol]; ok {
			prev = &p
		}

		ev := market.DetectPump(cur, prev, uc.pumpCfg)
		if ev == nil {
			continue
		}

		if err := uc.handlePump(ctx, cur, *ev); err != nil {
			report.Errors[symbol] = err.Error()
			continue
		}
		report.Detected = append(report.Detected, *ev)
	}

	uc.metrics.RecordLatency("pump_scan", time.Since(start).Seconds())
	return report, nil
}

func (uc *PumpScanUseCase) handlePump(ctx context.Context, cur models.AggregatedTicker, ev models.PumpEvent) error {
	active, err := uc.cache.PumpCooldownActive(ctx, ev.Symbol)
	if err != nil {
		uc.metrics.RecordError("pump_cooldown_read")
		return err
	}
	if active {
		uc.log.Debug("pump suppressed by cooldown", applogger.String("symbol", ev.Symbol))
		return nil
	}

	if err := uc.cache.StorePumpEvent(ctx, ev, uc.eventTTL); err != nil {
		uc.metrics.RecordError("pump_store")
		return err
	}
	uc.metrics.RecordPumpDetected(ev.Symbol)
	uc.log.Info("pump detected",
		applogger.String("symbol", ev.Symbol),
		applogger.Float64("change_pct", ev.ChangePct),
		applogger.Float64("volume_mult", ev.VolumeMultiplier),
	)

	// fire-and-forget; a failed broadcast never blocks the signal
	_ = uc.broadcaster.BroadcastPump(ctx, models.PumpNotification{
		ID:        ev.ID,
		Symbol:    ev.Symbol,
		Change:    ev.ChangePct,
		Volume:    ev.Volume24h,
		Timestamp: ev.DetectedAt,
	})

	return uc.generateSignal(ctx, cur, ev)
}

func (uc *PumpScanUseCase) generateSignal(ctx context.Context, cur models.AggregatedTicker, ev models.PumpEvent) error {
	exchange := ""
	if len(cur.Exchanges) > 0 {
		exchange = cur.Exchanges[0]
	}
	data := models.TickerData{
		Symbol:         cur.Symbol,
		Exchange:       exchange,
		Price:          cur.Price,
		Volume24h:      cur.Volume24h,
		PriceChange24h: cur.Change24h,
		High24h:        cur.High24h,
		Low24h:         cur.Low24h,
	}
	payload := map[string]any{
		"change_pct":        ev.ChangePct,
		"volume_multiplier": ev.VolumeMultiplier,
	}

	generated := signals.Generate(data, models.TriggerPumpDetection, payload)
	sig := &models.Signal{
		GeneratedSignal: generated,
		ID:              uuid.NewString(),
		Status:          models.StatusActive,
		CreatedAt:       time.Now(),
	}
	if err := uc.signalRepo.Create(ctx, sig); err != nil {
		uc.metrics.RecordError("signal_create")
		return err
	}
	uc.metrics.RecordSignalGenerated(string(models.TriggerPumpDetection))
	uc.log.Info("signal generated",
		applogger.String("signal_id", sig.ID),
		applogger.String("symbol", sig.Symbol),
		applogger.String("direction", string(sig.Direction)),
		applogger.Float64("confidence", sig.AIConfidence),
	)
	return nil
}

package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	applogger "PumpPulse/pkg/logger"
)

// Scheduler drives the three pipeline cadences: market aggregation, pump
// scanning and signal lifecycle checks. Each cadence skips a tick when the
// previous run of the same job is still in flight.
type Scheduler struct {
	marketScan *MarketScanUseCase
	pumpScan   *PumpScanUseCase
	monitor    *SignalMonitorUseCase
	log        *applogger.Logger

	aggregateInterval time.Duration
	pumpInterval      time.Duration
	monitorInterval   time.Duration

	stopCh  chan struct{}
	wg      sync.WaitGroup
	started bool
	mu      sync.Mutex
}

// NewScheduler creates the pipeline scheduler.
func NewScheduler(
	marketScan *MarketScanUseCase,
	pumpScan *PumpScanUseCase,
	monitor *SignalMonitorUseCase,
	log *applogger.Logger,
	aggregateInterval, pumpInterval, monitorInterval time.Duration,
) *Scheduler {
	return &Scheduler{
		marketScan:        marketScan,
		pumpScan:          pumpScan,
		monitor:           monitor,
		log:               log,
		aggregateInterval: aggregateInterval,
		pumpInterval:      pumpInterval,
		monitorInterval:   monitorInterval,
		stopCh:            make(chan struct{}),
	}
}

// Start launches the three loops.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	s.loop(ctx, "market_scan", s.aggregateInterval, func(ctx context.Context) error {
		_, err := s.marketScan.Scan(ctx)
		return err
	})
	s.loop(ctx, "pump_scan", s.pumpInterval, func(ctx context.Context) error {
		_, err := s.pumpScan.Scan(ctx)
		return err
	})
	s.loop(ctx, "signal_monitor", s.monitorInterval, func(ctx context.Context) error {
		_, err := s.monitor.Check(ctx)
		return err
	})

	s.log.Info("scheduler started",
		applogger.Duration("aggregate", s.aggregateInterval),
		applogger.Duration("pump", s.pumpInterval),
		applogger.Duration("monitor", s.monitorInterval),
	)
}

func (s *Scheduler) loop(ctx context.Context, name string, interval time.Duration, job func(context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var busy atomic.Bool
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-ticker.C:
				if !busy.CompareAndSwap(false, true) {
					s.log.Warn("tick skipped, previous run still in flight",
						applogger.String("job", name),
					)
					continue
				}
				go func() {
					defer busy.Store(false)
					if err := job(ctx); err != nil {
						s.log.Error("scheduled job failed",
							applogger.String("job", name),
							applogger.Error(err),
						)
					}
				}()
			}
		}
	}()
}

// Stop stops the loops and waits for them to exit. In-flight jobs finish on
// their own.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.mu.Unlock()
	close(s.stopCh)
	s.wg.Wait()
}

package usecase

import (
	"context"
	"sync"
	"time"

	"PumpPulse/internal/domain/models"
	domrepo "PumpPulse/internal/domain/repository"
	"PumpPulse/internal/services/market"
	applogger "PumpPulse/pkg/logger"
)

// MarketScanUseCase fans out to every configured exchange, merges the
// per-exchange tickers into one consensus view and publishes it to the cache
// and the history archive. A failing exchange is isolated for that tick; the
// scan proceeds with whoever answered.
type MarketScanUseCase struct {
	clients []domrepo.ExchangeClient
	cache   domrepo.TickerCache
	history domrepo.TickerHistory
	metrics domrepo.Metrics
	log     *applogger.Logger

	symbols map[string]struct{} // empty means no filter
	order   []string            // configured exchange order
	timeout time.Duration
}

// NewMarketScanUseCase creates the scan orchestrator. The exchange order of
// clients decides first-seen ordering in aggregated tickers.
func NewMarketScanUseCase(
	clients []domrepo.ExchangeClient,
	cache domrepo.TickerCache,
	history domrepo.TickerHistory,
	metrics domrepo.Metrics,
	log *applogger.Logger,
	symbols []string,
) *MarketScanUseCase {
	filter := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		filter[s] = struct{}{}
	}
	order := make([]string, 0, len(clients))
	for _, c := range clients {
		order = append(order, c.Name())
	}
	return &MarketScanUseCase{
		clients: clients,
		cache:   cache,
		history: history,
		metrics: metrics,
		log:     log,
		symbols: filter,
		order:   order,
		timeout: 10 * time.Second,
	}
}

// ScanResult is one aggregation tick: the merged tickers plus per-exchange
// fetch errors.
type ScanResult struct {
	Tickers map[string]models.AggregatedTicker
	Errors  map[string]string
}

// Scan runs one aggregation tick.
func (uc *MarketScanUseCase) Scan(ctx context.Context) (*ScanResult, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	type item struct {
		exchange string
		tickers  []models.Ticker
		err      error
	}
	ch := make(chan item, len(uc.clients))
	var wg sync.WaitGroup

	for _, client := range uc.clients {
		wg.Add(1)
		go func(c domrepo.ExchangeClient) {
			defer wg.Done()
			tickers, err := c.GetAllTickers(ctx)
			ch <- item{c.Name(), tickers, err}
		}(client)
	}
	go func() { wg.Wait(); close(ch) }()

	res := &ScanResult{Errors: map[string]string{}}
	byExchange := make(map[string][]models.Ticker, len(uc.clients))
	for it := range ch {
		if it.err != nil {
			res.Errors[it.exchange] = it.err.Error()
			uc.metrics.RecordError("exchange_fetch")
			uc.log.Warn("exchange fetch failed",
				applogger.String("exchange", it.exchange),
				applogger.Error(it.err),
			)
			continue
		}
		filtered := uc.filter(it.tickers)
		byExchange[it.exchange] = filtered
		uc.metrics.RecordTickAggregated(it.exchange, len(filtered))
	}

	res.Tickers = market.AggregateTickers(byExchange, uc.order)

	if len(res.Tickers) > 0 {
		if err := uc.cache.SetAggregated(ctx, res.Tickers); err != nil {
			uc.metrics.RecordError("cache_write")
			uc.log.Error("aggregated cache write failed", applogger.Error(err))
		}

		rows := make([]models.AggregatedTicker, 0, len(res.Tickers))
		for _, t := range res.Tickers {
			rows = append(rows, t)
			uc.metrics.RecordLastPrice(t.Symbol, t.Price)
		}
		if err := uc.history.StoreBatch(ctx, rows); err != nil {
			uc.metrics.RecordError("history_write")
			uc.log.Error("ticker history write failed", applogger.Error(err))
		}
	}

	uc.metrics.RecordLatency("market_scan", time.Since(start).Seconds())
	uc.log.Debug("market scan done",
		applogger.Int("symbols", len(res.Tickers)),
		applogger.Int("exchange_errors", len(res.Errors)),
	)
	return res, nil
}

func (uc *MarketScanUseCase) filter(tickers []models.Ticker) []models.Ticker {
	if len(uc.symbols) == 0 {
		return tickers
	}
	out := make([]models.Ticker, 0, len(uc.symbols))
	for _, t := range tickers {
		if _, ok := uc.symbols[t.Symbol]; ok {
			out = append(out, t)
		}
	}
	return out
}

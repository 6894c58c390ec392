package usecase

import (
	"context"

	"PumpPulse/internal/domain/models"
	domrepo "PumpPulse/internal/domain/repository"
	mid "PumpPulse/internal/middleware"
)

// PriceUpdater is the stream's downstream: it keeps the per-symbol price
// cache warm between aggregation ticks.
type PriceUpdater struct {
	cache   domrepo.TickerCache
	metrics domrepo.Metrics
}

// NewPriceUpdater creates the cache-writing processor.
func NewPriceUpdater(cache domrepo.TickerCache, metrics domrepo.Metrics) *PriceUpdater {
	return &PriceUpdater{cache: cache, metrics: metrics}
}

// Process writes the ticker's price into the cache.
func (p *PriceUpdater) Process(ctx context.Context, t *models.Ticker) error {
	if err := p.cache.SetLatestPrice(ctx, t.Symbol, t.Price); err != nil {
		p.metrics.RecordError("price_update")
		return err
	}
	p.metrics.RecordLastPrice(t.Symbol, t.Price)
	return nil
}

// StreamCollector consumes tickers from the live stream and pushes them
// through the pipeline into the price cache.
type StreamCollector struct {
	stream  domrepo.TickerStream
	proc    *PriceUpdater
	metrics domrepo.Metrics
	pipe    *mid.StreamPipeline
}

// NewStreamCollector creates a new StreamCollector instance.
func NewStreamCollector(stream domrepo.TickerStream, proc *PriceUpdater, metrics domrepo.Metrics, pipe *mid.StreamPipeline) *StreamCollector {
	return &StreamCollector{stream: stream, proc: proc, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the ticker stream is connected.
func (c *StreamCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *StreamCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	tkCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, tkCh, errCh)
	return nil
}

func (c *StreamCollector) consume(ctx context.Context, tkCh <-chan *models.Ticker, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case t := <-tkCh:
			if t == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, t)
			} else {
				_ = c.proc.Process(ctx, t)
			}
		}
	}
}

// Shutdown stops the pipeline and closes the stream.
func (c *StreamCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}

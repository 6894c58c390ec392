package repository

import (
	"context"
	"errors"
	"time"

	"PumpPulse/internal/domain/models"
	domrepo "PumpPulse/internal/domain/repository"
	"PumpPulse/pkg/cache"
	applogger "PumpPulse/pkg/logger"
)

const (
	keyAggregated   = "tickers:agg"
	keyPumpsRecent  = "pumps:recent"
	keyPricePrefix  = "price"
	keyPumpCooldown = "pump:cooldown"
)

// RedisTickerCache implements TickerCache on top of the cache service.
type RedisTickerCache struct {
	cache    cache.Service
	aggTTL   time.Duration
	priceTTL time.Duration
	cooldown time.Duration
	l        *applogger.Logger
}

// TickerCacheConfig holds the TTLs for the cached market state.
type TickerCacheConfig struct {
	AggregatedTTL time.Duration
	PriceTTL      time.Duration
	PumpCooldown  time.Duration
}

// NewRedisTickerCache creates a TickerCache.
func NewRedisTickerCache(c cache.Service, cfg TickerCacheConfig, l *applogger.Logger) domrepo.TickerCache {
	return &RedisTickerCache{
		cache:    c,
		aggTTL:   cfg.AggregatedTTL,
		priceTTL: cfg.PriceTTL,
		cooldown: cfg.PumpCooldown,
		l:        l,
	}
}

// SetAggregated stores the aggregated map and refreshes per-symbol prices.
func (r *RedisTickerCache) SetAggregated(ctx context.Context, tickers map[string]models.AggregatedTicker) error {
	if err := r.cache.Set(ctx, keyAggregated, tickers, r.aggTTL); err != nil {
		return err
	}

	prices := make(map[string]interface{}, len(tickers))
	for sym, t := range tickers {
		prices[cache.Key(keyPricePrefix, sym)] = t.Price
	}
	if len(prices) == 0 {
		return nil
	}
	return r.cache.MSet(ctx, prices, r.priceTTL)
}

// GetAggregated returns the aggregated map; an empty map when nothing is
// cached.
func (r *RedisTickerCache) GetAggregated(ctx context.Context) (map[string]models.AggregatedTicker, error) {
	out := make(map[string]models.AggregatedTicker)
	err := r.cache.Get(ctx, keyAggregated, &out)
	if errors.Is(err, cache.ErrCacheMiss) {
		return map[string]models.AggregatedTicker{}, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetLatestPrice stores one symbol's latest price.
func (r *RedisTickerCache) SetLatestPrice(ctx context.Context, symbol string, price float64) error {
	return r.cache.Set(ctx, cache.Key(keyPricePrefix, symbol), price, r.priceTTL)
}

// GetLatestPrice returns the cached price or ErrNoPrice when absent.
func (r *RedisTickerCache) GetLatestPrice(ctx context.Context, symbol string) (float64, error) {
	var price float64
	err := r.cache.Get(ctx, cache.Key(keyPricePrefix, symbol), &price)
	if errors.Is(err, cache.ErrCacheMiss) {
		return 0, domrepo.ErrNoPrice
	}
	if err != nil {
		return 0, err
	}
	return price, nil
}

type storedPump struct {
	models.PumpEvent
	ExpiresAt time.Time `json:"expires_at"`
}

// StorePumpEvent appends the event to the recent list and arms the per-symbol
// cooldown. Events expire rather than being deleted.
func (r *RedisTickerCache) StorePumpEvent(ctx context.Context, ev models.PumpEvent, ttl time.Duration) error {
	now := time.Now()

	var list []storedPump
	err := r.cache.Get(ctx, keyPumpsRecent, &list)
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		return err
	}

	kept := make([]storedPump, 0, len(list)+1)
	for _, p := range list {
		if p.ExpiresAt.After(now) {
			kept = append(kept, p)
		}
	}
	kept = append(kept, storedPump{PumpEvent: ev, ExpiresAt: now.Add(ttl)})

	if err := r.cache.Set(ctx, keyPumpsRecent, kept, ttl); err != nil {
		return err
	}

	// arm cooldown; a lost race means another writer armed it already
	if _, err := r.cache.TryLock(ctx, cache.Key(keyPumpCooldown, ev.Symbol), r.cooldown); err != nil {
		r.l.Warn("pump cooldown arm failed",
			applogger.String("symbol", ev.Symbol),
			applogger.Error(err),
		)
	}
	return nil
}

// RecentPumpEvents returns the unexpired pump events, oldest first.
func (r *RedisTickerCache) RecentPumpEvents(ctx context.Context) ([]models.PumpEvent, error) {
	var list []storedPump
	err := r.cache.Get(ctx, keyPumpsRecent, &list)
	if errors.Is(err, cache.ErrCacheMiss) {
		return []models.PumpEvent{}, nil
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := make([]models.PumpEvent, 0, len(list))
	for _, p := range list {
		if p.ExpiresAt.After(now) {
			out = append(out, p.PumpEvent)
		}
	}
	return out, nil
}

// PumpCooldownActive reports whether the symbol is still in cooldown.
func (r *RedisTickerCache) PumpCooldownActive(ctx context.Context, symbol string) (bool, error) {
	return r.cache.Exists(ctx, cache.Key(keyPumpCooldown, symbol))
}

// Health pings the underlying cache.
func (r *RedisTickerCache) Health(ctx context.Context) error {
	return r.cache.Ping(ctx)
}

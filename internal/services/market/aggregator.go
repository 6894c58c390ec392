package market

import (
	"time"

	"PumpPulse/internal/domain/models"
)

// AggregateTickers merges per-exchange ticker lists into one consensus
// ticker per symbol. Exchanges that failed to respond are simply absent from
// the input; they are filtered out upstream and never represented here.
//
// For a symbol reported by n exchanges: price and change are arithmetic
// means, volume is the sum, high/low are max/min, and the timestamp is the
// aggregation instant rather than any input timestamp. The exchange list
// keeps first-seen order over exchangeOrder. Everything is recomputed from
// scratch each call; nothing is updated incrementally.
func AggregateTickers(byExchange map[string][]models.Ticker, exchangeOrder []string) map[string]models.AggregatedTicker {
	type group struct {
		count     int
		priceSum  float64
		volumeSum float64
		changeSum float64
		high      float64
		low       float64
		exchanges []string
	}

	groups := make(map[string]*group)
	order := make([]string, 0, len(byExchange))

	for _, exchange := range exchangeOrder {
		tickers, ok := byExchange[exchange]
		if !ok {
			continue
		}
		for _, t := range tickers {
			g, ok := groups[t.Symbol]
			if !ok {
				g = &group{high: t.High24h, low: t.Low24h}
				groups[t.Symbol] = g
				order = append(order, t.Symbol)
			}
			g.count++
			g.priceSum += t.Price
			g.volumeSum += t.Volume24h
			g.changeSum += t.Change24h
			if t.High24h > g.high {
				g.high = t.High24h
			}
			if t.Low24h < g.low {
				g.low = t.Low24h
			}
			if !contains(g.exchanges, exchange) {
				g.exchanges = append(g.exchanges, exchange)
			}
		}
	}

	now := time.Now()
	out := make(map[string]models.AggregatedTicker, len(groups))
	for _, symbol := range order {
		g := groups[symbol]
		n := float64(g.count)
		out[symbol] = models.AggregatedTicker{
			Symbol:    symbol,
			Price:     g.priceSum / n,
			Volume24h: g.volumeSum,
			Change24h: g.changeSum / n,
			High24h:   g.high,
			Low24h:    g.low,
			Timestamp: now,
			Exchanges: g.exchanges,
		}
	}
	return out
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

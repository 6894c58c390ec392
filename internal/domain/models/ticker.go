package models

import "time"

// Ticker is a point-in-time price/volume summary for one symbol on one
// exchange. Immutable once returned by an exchange client.
type Ticker struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Volume24h float64   `json:"volume_24h"`
	Change24h float64   `json:"change_24h"` // percent
	High24h   float64   `json:"high_24h"`
	Low24h    float64   `json:"low_24h"`
	Timestamp time.Time `json:"timestamp"`
}

// AggregatedTicker is the consensus view of a symbol merged across every
// exchange currently reporting it. Recomputed from scratch each tick.
type AggregatedTicker struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`      // mean of contributing prices
	Volume24h float64   `json:"volume_24h"` // sum
	Change24h float64   `json:"change_24h"` // mean percent
	High24h   float64   `json:"high_24h"`   // max
	Low24h    float64   `json:"low_24h"`    // min
	Timestamp time.Time `json:"timestamp"`  // aggregation instant
	Exchanges []string  `json:"exchanges"`  // contributors, first-seen order
}

// TickerData is the market snapshot the signal generator works from.
// Flattened to one exchange of record so a signal names where to trade.
type TickerData struct {
	Symbol         string  `json:"symbol"`
	Exchange       string  `json:"exchange"`
	Price          float64 `json:"price"`
	Volume24h      float64 `json:"volume_24h"`
	PriceChange24h float64 `json:"price_change_24h"`
	High24h        float64 `json:"high_24h"`
	Low24h         float64 `json:"low_24h"`
}

package models

import "time"

// PumpConfig holds the thresholds gating pump detection.
// WindowMinutes documents the expected snapshot cadence; the detector itself
// does not enforce it, the scheduler owns the cadence.
type PumpConfig struct {
	ThresholdPct     float64 `json:"threshold_pct" yaml:"threshold_pct"`
	WindowMinutes    int     `json:"window_minutes" yaml:"window_minutes"`
	VolumeMultiplier float64 `json:"volume_multiplier" yaml:"volume_multiplier"`
}

// PumpEvent records one detected pump. Created once, stored under a TTL,
// never mutated; it expires rather than being deleted.
type PumpEvent struct {
	ID               string    `json:"id"`
	Symbol           string    `json:"symbol"`
	Exchanges        []string  `json:"exchanges"`
	StartPrice       float64   `json:"start_price"`
	CurrentPrice     float64   `json:"current_price"`
	ChangePct        float64   `json:"change_pct"`
	Volume24h        float64   `json:"volume_24h"`
	VolumeMultiplier float64   `json:"volume_multiplier"`
	DetectedAt       time.Time `json:"detected_at"`
}

// PumpNotification is the broadcast payload for a detected pump.
type PumpNotification struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Change    float64   `json:"change"`
	Volume    float64   `json:"volume"`
	Timestamp time.Time `json:"timestamp"`
}

package market

import (
	"math"
	"time"

	"github.com/google/uuid"

	"PumpPulse/internal/domain/models"
)

// DetectPump compares the current aggregated ticker against the previous
// snapshot and returns a PumpEvent when the move clears both thresholds, or
// nil otherwise.
//
// nil is returned when there is no baseline yet (previous == nil) or when
// previous.Price == 0, where the percent change is undefined. A previous
// volume of zero yields +Inf as the multiplier, which trivially clears any
// configured multiplier. Both comparisons are inclusive (>=), and negative
// moves are never flagged regardless of magnitude: dumps are not pumps.
func DetectPump(current models.AggregatedTicker, previous *models.AggregatedTicker, cfg models.PumpConfig) *models.PumpEvent {
	if previous == nil || previous.Price == 0 {
		return nil
	}

	changePct := (current.Price - previous.Price) / previous.Price * 100

	volumeMult := math.Inf(1)
	if previous.Volume24h != 0 {
		volumeMult = current.Volume24h / previous.Volume24h
	}

	if changePct < 0 || changePct < cfg.ThresholdPct || volumeMult < cfg.VolumeMultiplier {
		return nil
	}

	return &models.PumpEvent{
		ID:               uuid.NewString(),
		Symbol:           current.Symbol,
		Exchanges:        append([]string(nil), current.Exchanges...),
		StartPrice:       previous.Price,
		CurrentPrice:     current.Price,
		ChangePct:        changePct,
		Volume24h:        current.Volume24h,
		VolumeMultiplier: volumeMult,
		DetectedAt:       time.Now(),
	}
}

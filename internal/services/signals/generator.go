package signals

import (
	"math"

	"PumpPulse/internal/domain/models"
)

// TriggerInput pairs a trigger type with its optional free-form payload.
type TriggerInput struct {
	Type    models.TriggerType
	Payload map[string]any
}

// Generate turns one market snapshot plus a trigger into a fully
// parameterized signal. Pure function, never errors: unknown triggers fall
// back to the default configuration.
func Generate(data models.TickerData, trigger models.TriggerType, payload map[string]any) models.GeneratedSignal {
	cfg := configFor(trigger)
	direction := resolveDirection(trigger, cfg, data)
	entry := data.Price

	var tp1, tp2, tp3, stopLoss float64
	if direction == models.DirectionBuy {
		tp1 = round8(entry * (1 + cfg.TP1Pct/100))
		tp2 = round8(entry * (1 + cfg.TP2Pct/100))
		tp3 = round8(entry * (1 + cfg.TP3Pct/100))
		stopLoss = round8(entry * (1 - cfg.StopLossPct/100))
	} else {
		tp1 = round8(entry * (1 - cfg.TP1Pct/100))
		tp2 = round8(entry * (1 - cfg.TP2Pct/100))
		tp3 = round8(entry * (1 - cfg.TP3Pct/100))
		stopLoss = round8(entry * (1 + cfg.StopLossPct/100))
	}

	confidence := calculateConfidence(cfg.BaseConfidence, data)

	return models.GeneratedSignal{
		Symbol:       data.Symbol,
		Exchange:     data.Exchange,
		Direction:    direction,
		EntryPrice:   entry,
		StopLoss:     stopLoss,
		TakeProfit1:  tp1,
		TakeProfit2:  tp2,
		TakeProfit3:  tp3,
		AIConfidence: confidence,
		AITriggers: []models.Trigger{
			{Type: trigger, Confidence: confidence, Payload: payload},
		},
		MinTier: minTier(trigger, confidence),
	}
}

// GenerateCompound combines several simultaneous triggers sharing one market
// snapshot into a single signal. The first trigger's entry/stop/take-profit
// geometry is reused for the whole position; the combined confidence is
// min(100, avg + min(10, (N-1)*3)) and the tier is recomputed from it with
// the first trigger's type. An empty trigger list yields nil.
func GenerateCompound(data models.TickerData, triggers []TriggerInput) *models.GeneratedSignal {
	if len(triggers) == 0 {
		return nil
	}

	generated := make([]models.GeneratedSignal, len(triggers))
	for i, in := range triggers {
		generated[i] = Generate(data, in.Type, in.Payload)
	}

	sum := 0.0
	combined := generated[0]
	combined.AITriggers = make([]models.Trigger, 0, len(triggers))
	for i, g := range generated {
		sum += g.AIConfidence
		combined.AITriggers = append(combined.AITriggers, models.Trigger{
			Type:       triggers[i].Type,
			Confidence: g.AIConfidence,
			Payload:    triggers[i].Payload,
		})
	}

	bonus := math.Min(10, float64(len(triggers)-1)*3)
	combined.AIConfidence = math.Min(100, sum/float64(len(triggers))+bonus)
	combined.MinTier = minTier(triggers[0].Type, combined.AIConfidence)
	return &combined
}

func resolveDirection(trigger models.TriggerType, cfg triggerConfig, data models.TickerData) models.Direction {
	switch trigger {
	case models.TriggerRSIOversold:
		return models.DirectionBuy
	case models.TriggerMACDCross:
		if data.PriceChange24h >= 0 {
			return models.DirectionBuy
		}
		return models.DirectionSell
	default:
		return cfg.Direction
	}
}

// calculateConfidence adjusts the trigger's base confidence for liquidity
// and volatility and clamps to [0, 100].
func calculateConfidence(base float64, data models.TickerData) float64 {
	confidence := base

	switch {
	case data.Volume24h > 10_000_000:
		confidence += 5
	case data.Volume24h > 1_000_000:
		confidence += 2
	}

	if data.Price > 0 {
		volatility := (data.High24h - data.Low24h) / data.Price * 100
		if volatility > 10 {
			confidence -= 3
		} else if volatility < 3 {
			confidence += 3
		}
	}

	return math.Min(100, math.Max(0, confidence))
}

// minTier gates who may see the signal: high confidence is premium,
// technical triggers are at least pro, decent confidence is pro.
func minTier(trigger models.TriggerType, confidence float64) models.Tier {
	if confidence >= 85 {
		return models.TierPremium
	}
	switch trigger {
	case models.TriggerMACDCross, models.TriggerResistanceBreak, models.TriggerSupportBounce:
		return models.TierPro
	}
	if confidence >= 75 {
		return models.TierPro
	}
	return models.TierFree
}

// round8 keeps prices meaningful for sub-cent assets.
func round8(x float64) float64 {
	return math.Round(x*1e8) / 1e8
}

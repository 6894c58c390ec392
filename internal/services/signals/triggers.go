package signals

import "PumpPulse/internal/domain/models"

// triggerConfig parameterizes signal geometry and confidence per trigger.
// Percentages are relative to the entry price.
type triggerConfig struct {
	TP1Pct         float64
	TP2Pct         float64
	TP3Pct         float64
	StopLossPct    float64
	BaseConfidence float64
	Direction      models.Direction
}

// defaultConfig backs any field a trigger does not override, so an
// unconfigured trigger type still yields a usable signal instead of a
// runtime error.
var defaultConfig = triggerConfig{
	TP1Pct:         2,
	TP2Pct:         4,
	TP3Pct:         6,
	StopLossPct:    2,
	BaseConfidence: 65,
	Direction:      models.DirectionBuy,
}

var triggerConfigs = map[models.TriggerType]triggerConfig{
	models.TriggerPumpDetection: {
		TP1Pct: 3, TP2Pct: 6, TP3Pct: 10, StopLossPct: 3,
		BaseConfidence: 75, Direction: models.DirectionBuy,
	},
	models.TriggerVolumeAnomaly: {
		TP1Pct: 2.5, TP2Pct: 5, TP3Pct: 8, StopLossPct: 2.5,
		BaseConfidence: 70, Direction: models.DirectionBuy,
	},
	models.TriggerSupportBounce: {
		TP1Pct: 2, TP2Pct: 4, TP3Pct: 6, StopLossPct: 2,
		BaseConfidence: 72, Direction: models.DirectionBuy,
	},
	models.TriggerResistanceBreak: {
		TP1Pct: 2.5, TP2Pct: 5, TP3Pct: 8, StopLossPct: 2,
		BaseConfidence: 78, Direction: models.DirectionBuy,
	},
	models.TriggerMACDCross: {
		TP1Pct: 2, TP2Pct: 4, TP3Pct: 6, StopLossPct: 2,
		BaseConfidence: 74, Direction: models.DirectionBuy,
	},
	models.TriggerRSIOversold: {
		TP1Pct: 2, TP2Pct: 4, TP3Pct: 6, StopLossPct: 2,
		BaseConfidence: 68, Direction: models.DirectionBuy,
	},
}

// configFor resolves the trigger configuration, falling back to the global
// defaults field by field.
func configFor(trigger models.TriggerType) triggerConfig {
	cfg, ok := triggerConfigs[trigger]
	if !ok {
		return defaultConfig
	}
	if cfg.TP1Pct == 0 {
		cfg.TP1Pct = defaultConfig.TP1Pct
	}
	if cfg.TP2Pct == 0 {
		cfg.TP2Pct = defaultConfig.TP2Pct
	}
	if cfg.TP3Pct == 0 {
		cfg.TP3Pct = defaultConfig.TP3Pct
	}
	if cfg.StopLossPct == 0 {
		cfg.StopLossPct = defaultConfig.StopLossPct
	}
	if cfg.BaseConfidence == 0 {
		cfg.BaseConfidence = defaultConfig.BaseConfidence
	}
	if cfg.Direction == "" {
		cfg.Direction = defaultConfig.Direction
	}
	return cfg
}

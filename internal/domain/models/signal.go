package models

import "time"

// Direction of a signal position.
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// Tier is the minimum subscription level allowed to see a signal.
type Tier string

const (
	TierFree    Tier = "free"
	TierPro     Tier = "pro"
	TierPremium Tier = "premium"
	TierVIP     Tier = "vip"
)

// TriggerType names the market condition that caused a signal.
type TriggerType string

const (
	TriggerPumpDetection   TriggerType = "pump_detection"
	TriggerVolumeAnomaly   TriggerType = "volume_anomaly"
	TriggerSupportBounce   TriggerType = "support_bounce"
	TriggerResistanceBreak TriggerType = "resistance_break"
	TriggerMACDCross       TriggerType = "macd_cross"
	TriggerRSIOversold     TriggerType = "rsi_oversold"
)

// IsValidTrigger reports whether t is one of the known trigger types.
func IsValidTrigger(t TriggerType) bool {
	switch t {
	case TriggerPumpDetection, TriggerVolumeAnomaly, TriggerSupportBounce,
		TriggerResistanceBreak, TriggerMACDCross, TriggerRSIOversold:
		return true
	default:
		return false
	}
}

// Trigger is one contributing condition attached to a generated signal.
type Trigger struct {
	Type       TriggerType    `json:"type"`
	Confidence float64        `json:"confidence"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// SignalStatus is the lifecycle state of a persisted signal.
type SignalStatus string

const (
	StatusActive    SignalStatus = "active"
	StatusTP1Hit    SignalStatus = "tp1_hit"
	StatusTP2Hit    SignalStatus = "tp2_hit"
	StatusTP3Hit    SignalStatus = "tp3_hit"
	StatusClosed    SignalStatus = "closed"
	StatusCancelled SignalStatus = "cancelled" // administrative path only
)

// IsTerminal reports whether s is a final state for the lifecycle monitor.
func (s SignalStatus) IsTerminal() bool {
	return s != StatusActive
}

// GeneratedSignal is the output of the signal generator: a fully
// parameterized position with entry, stop and three take-profit levels.
// Invariant for buy: stopLoss < entry < tp1 < tp2 < tp3; reversed for sell.
type GeneratedSignal struct {
	Symbol       string    `json:"symbol"`
	Exchange     string    `json:"exchange"`
	Direction    Direction `json:"direction"`
	EntryPrice   float64   `json:"entry_price"`
	StopLoss     float64   `json:"stop_loss"`
	TakeProfit1  float64   `json:"take_profit_1"`
	TakeProfit2  float64   `json:"take_profit_2"`
	TakeProfit3  float64   `json:"take_profit_3"`
	AIConfidence float64   `json:"ai_confidence"` // 0-100
	AITriggers   []Trigger `json:"ai_triggers"`
	MinTier      Tier      `json:"min_tier"`
}

// Signal is the persisted record: generator output plus lifecycle fields.
// Created active; mutated exactly once into a terminal status by the
// lifecycle monitor, immutable thereafter.
type Signal struct {
	GeneratedSignal

	ID        string       `json:"id"`
	Status    SignalStatus `json:"status"`
	ResultPnl *float64     `json:"result_pnl,omitempty"` // percent, 2 decimals
	ClosedAt  *time.Time   `json:"closed_at,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// SignalClosureNotification is the broadcast payload when a signal leaves
// the active state.
type SignalClosureNotification struct {
	ID         string    `json:"id"`
	Symbol     string    `json:"symbol"`
	Direction  Direction `json:"direction"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

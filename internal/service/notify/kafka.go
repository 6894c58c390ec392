package notify

import (
	"context"

	"PumpPulse/internal/domain/models"
	dservice "PumpPulse/internal/domain/service"
	"PumpPulse/pkg/kafka"
	"PumpPulse/pkg/logger"
)

// KafkaBroadcaster publishes notifications to Kafka topics. Delivery is
// fire-and-forget; publish errors are logged and surfaced but the caller is
// expected not to retry.
type KafkaBroadcaster struct {
	producer     *kafka.Producer
	pumpTopic    string
	closureTopic string
	log          *logger.Logger
}

// NewKafkaBroadcaster creates a Broadcaster backed by a Kafka producer.
func NewKafkaBroadcaster(p *kafka.Producer, pumpTopic, closureTopic string, log *logger.Logger) dservice.Broadcaster {
	return &KafkaBroadcaster{
		producer:     p,
		pumpTopic:    pumpTopic,
		closureTopic: closureTopic,
		log:          log,
	}
}

// BroadcastPump publishes a pump notification keyed by symbol.
func (b *KafkaBroadcaster) BroadcastPump(ctx context.Context, n models.PumpNotification) error {
	if err := b.producer.Publish(ctx, b.pumpTopic, []byte(n.Symbol), n); err != nil {
		b.log.Error("broadcast pump failed",
			logger.String("symbol", n.Symbol),
			logger.Error(err),
		)
		return err
	}
	b.log.Debug("pump broadcast",
		logger.String("symbol", n.Symbol),
		logger.Float64("change", n.Change),
	)
	return nil
}

// BroadcastSignalClosure publishes a signal closure keyed by signal id.
func (b *KafkaBroadcaster) BroadcastSignalClosure(ctx context.Context, n models.SignalClosureNotification) error {
	if err := b.producer.Publish(ctx, b.closureTopic, []byte(n.ID), n); err != nil {
		b.log.Error("broadcast signal closure failed",
			logger.String("signal_id", n.ID),
			logger.String("symbol", n.Symbol),
			logger.Error(err),
		)
		return err
	}
	return nil
}

// Close closes the underlying producer.
func (b *KafkaBroadcaster) Close() error {
	return b.producer.Close()
}

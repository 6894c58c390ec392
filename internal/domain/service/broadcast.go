package service

import (
	"context"

	"PumpPulse/internal/domain/models"
)

// Broadcaster fans notifications out to subscribers. Delivery is
// fire-and-forget; this core makes no acknowledgment or retry promises.
type Broadcaster interface {
	BroadcastPump(ctx context.Context, n models.PumpNotification) error
	BroadcastSignalClosure(ctx context.Context, n models.SignalClosureNotification) error
	Close() error
}

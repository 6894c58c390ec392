package market

import (
	"sync"

	"PumpPulse/internal/domain/models"
)

// SnapshotStore holds the previous aggregated ticker map between pump-scan
// ticks. It is an explicit state object owned by the pump-scan use case, so
// independent pipeline instances each get their own baseline and tests can
// reset deterministically.
type SnapshotStore struct {
	mu   sync.Mutex
	prev map[string]models.AggregatedTicker
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Swap installs current as the new baseline and returns the previous one.
// The first call returns nil, meaning no baseline yet.
func (s *SnapshotStore) Swap(current map[string]models.AggregatedTicker) map[string]models.AggregatedTicker {
	s.mu.Lock()
	prev := s.prev
	s.prev = current
	s.mu.Unlock()
	return prev
}

// Previous returns the stored baseline without replacing it.
func (s *SnapshotStore) Previous() map[string]models.AggregatedTicker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prev
}

// Reset clears the baseline.
func (s *SnapshotStore) Reset() {
	s.mu.Lock()
	s.prev = nil
	s.mu.Unlock()
}

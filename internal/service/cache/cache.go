package cache

import (
	"fmt"
	"time"
)

// BytesCache is a minimal cache API storing raw bytes with TTL.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}

// SignalsKey builds the response-cache key for a signals listing.
func SignalsKey(status string, limit int) string {
	return fmt.Sprintf("api:signals:%s:%d", status, limit)
}

// Package cache provides the pluggable response cache used by the data
// collectors. Callers depend only on Store; the backend is chosen at
// wiring time.
package cache

import "time"

// Store is a byte-blob cache with per-read TTL. Get reports a miss for
// entries older than ttl; a ttl of zero disables expiry for that read.
type Store interface {
	Get(key string, ttl time.Duration) ([]byte, bool)
	Put(key string, data []byte) error
}

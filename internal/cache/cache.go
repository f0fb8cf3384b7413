package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the interface shared by the memory, disk, and layered caches.
// The scrapers use it to avoid re-downloading books and manuscripts on
// repeated runs.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from a source URL
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "lincoln:v1:" + hex.EncodeToString(hash[:])
}

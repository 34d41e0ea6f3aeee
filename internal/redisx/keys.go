package redisx

import "time"

const (
	// Opaque bearer tokens: session:access:{token} -> user_id
	KeyAccessToken  = "session:access:%s"
	KeyRefreshToken = "session:refresh:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Set of product ids currently at/below the low-stock threshold.
	KeyLowStock = "alerts:lowstock"
)

var (
	TTLAccessToken  = 30 * time.Minute
	TTLRefreshToken = 24 * time.Hour
	TTLDedup        = 48 * time.Hour
)

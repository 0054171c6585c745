package cache

import (
	"context"
	"time"

	"github.com/sells-group/profilegen/internal/model"
)

// DefaultTTL is how long a cached generation stays valid.
const DefaultTTL = time.Hour

// Entry is one cached generation result.
type Entry struct {
	Fingerprint string
	Result      model.GenerationResult
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the entry is past its TTL at the given time.
func (e *Entry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Cache stores generation results by fingerprint. Implementations must
// be safe for concurrent use. Get never returns an expired entry.
type Cache interface {
	Get(ctx context.Context, fingerprint string) (*Entry, error)
	Put(ctx context.Context, fingerprint string, result model.GenerationResult, ttl time.Duration) error
	Invalidate(ctx context.Context, fingerprint string) error
	Close() error
}

// ErrMiss is returned by Get when no live entry exists.
var ErrMiss = errMiss{}

type errMiss struct{}

func (errMiss) Error() string { return "cache: miss" }

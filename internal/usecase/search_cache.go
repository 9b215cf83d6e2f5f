package usecase

import (
	"context"
	"time"
)

// SearchCache is the JSON cache the catalog reads through. Implementations
// may drop entries at any time.
type SearchCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

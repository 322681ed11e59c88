package cache

import (
	"context"
	"time"
)

// nullCache reports a miss for every key and forgets every write. It
// backs the --no-cache flag and stands in wherever a Cache is required
// but persistence is unwanted, such as a server configured without an
// artifact directory.
type nullCache struct{}

// NewNullCache returns a Cache that never stores anything.
func NewNullCache() Cache {
	return nullCache{}
}

func (nullCache) Get(ctx context.Context, key string) ([]byte, bool, error) { return nil, false, nil }

func (nullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

func (nullCache) Delete(ctx context.Context, key string) error { return nil }

func (nullCache) Close() error { return nil }

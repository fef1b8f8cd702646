package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/lastweeknextday/review-gateway/interfaces"
)

// Default cache timings for CachedBackend.
const (
	DefaultCacheTTL     = 10 * time.Minute
	DefaultCacheCleanup = 15 * time.Minute
)

// CachedBackend keeps fetched content in memory. Content IDs are derived
// from the content, so an entry never goes stale; the TTL only bounds memory.
type CachedBackend struct {
	backend interfaces.StorageBackend
	cache   *cache.Cache
	log     *slog.Logger
}

// NewCachedBackend wraps backend with an in-memory cache.
func NewCachedBackend(backend interfaces.StorageBackend, ttl, cleanup time.Duration, log *slog.Logger) *CachedBackend {
	return &CachedBackend{
		backend: backend,
		cache:   cache.New(ttl, cleanup),
		log:     log,
	}
}

// Fetch returns cached content or fetches it from the wrapped backend.
func (b *CachedBackend) Fetch(ctx context.Context, id interfaces.ContentID) ([]byte, error) {
	if cached, found := b.cache.Get(id.String()); found {
		b.log.Debug("Content cache hit", slog.String("contentID", id.Short()))
		return cached.([]byte), nil
	}

	data, err := b.backend.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	b.cache.SetDefault(id.String(), data)
	return data, nil
}

// Store writes through to the wrapped backend and caches the content under
// the returned ID.
func (b *CachedBackend) Store(ctx context.Context, data []byte, name string) (interfaces.ContentID, error) {
	id, err := b.backend.Store(ctx, data, name)
	if err != nil {
		return "", err
	}

	b.cache.SetDefault(id.String(), data)
	return id, nil
}

// Available reports the wrapped backend's availability.
func (b *CachedBackend) Available(ctx context.Context) bool {
	return b.backend.Available(ctx)
}

// Name returns a unique identifier for this storage backend.
func (b *CachedBackend) Name() string {
	return fmt.Sprintf("cached-%s", b.backend.Name())
}

// LocationURI returns the wrapped backend's URI.
func (b *CachedBackend) LocationURI() string {
	return b.backend.LocationURI()
}

// ItemCount returns the number of cached documents.
func (b *CachedBackend) ItemCount() int {
	return b.cache.ItemCount()
}

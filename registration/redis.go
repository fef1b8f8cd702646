package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/lastweeknextday/review-gateway/interfaces"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces the registration keys.
const DefaultRedisPrefix = "reviews:registration"

// RedisBackend keeps each collection as a JSON string under its own key.
type RedisBackend struct {
	client    *redis.Client
	keys      map[interfaces.RecordKind]string
	available bool
	log       *slog.Logger
}

// NewRedisBackend pings the server and seeds both keys with an empty array
// unless they already hold data. On failure the backend is returned disabled
// and the failure is logged once.
func NewRedisBackend(ctx context.Context, client *redis.Client, prefix string, log *slog.Logger) *RedisBackend {
	b := &RedisBackend{
		client: client,
		keys: map[interfaces.RecordKind]string{
			interfaces.QueueKind:   prefix + ":" + interfaces.QueueKind.String(),
			interfaces.MappingKind: prefix + ":" + interfaces.MappingKind.String(),
		},
		log: log,
	}

	if err := b.init(ctx); err != nil {
		log.Error("Failed to initialize item registration keys",
			slog.String("addr", client.Options().Addr),
			slog.String("db", redisDB(client.Options())),
			"err", err)
		return b
	}

	b.available = true
	return b
}

func (b *RedisBackend) init(ctx context.Context) error {
	if err := b.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	for _, key := range b.keys {
		if err := b.client.SetNX(ctx, key, emptyCollection, 0).Err(); err != nil {
			return fmt.Errorf("failed to initialize %s: %w", key, err)
		}
	}

	return nil
}

// Read returns the stored JSON array.
func (b *RedisBackend) Read(ctx context.Context, kind interfaces.RecordKind) ([]byte, error) {
	if !b.available {
		return nil, interfaces.ErrStorageUnavailable
	}

	data, err := b.client.Get(ctx, b.keys[kind]).Bytes()
	if errors.Is(err, redis.Nil) {
		return emptyCollection, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", kind, err)
	}
	return data, nil
}

// Write replaces the stored JSON array with a single SET.
func (b *RedisBackend) Write(ctx context.Context, kind interfaces.RecordKind, data []byte) error {
	if !b.available {
		return interfaces.ErrStorageUnavailable
	}

	if err := b.client.Set(ctx, b.keys[kind], data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", kind, err)
	}
	return nil
}

// Available reports whether initialization succeeded.
func (b *RedisBackend) Available() bool {
	return b.available
}

// Name returns a unique identifier for this backend.
func (b *RedisBackend) Name() string {
	return fmt.Sprintf("redis-%s-%s", b.client.Options().Addr, redisDB(b.client.Options()))
}

// Close releases the redis connection pool.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}

// redisDB extracts the database number for logging.
func redisDB(opts *redis.Options) string {
	return strconv.Itoa(opts.DB)
}

package registration

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/lastweeknextday/review-gateway/interfaces"
	"github.com/redis/go-redis/v9"
)

// Backend persists the raw JSON array of one registration collection.
// Writes replace the whole collection.
type Backend interface {
	// Read returns the stored JSON array for kind.
	Read(ctx context.Context, kind interfaces.RecordKind) ([]byte, error)

	// Write atomically replaces the stored JSON array for kind.
	Write(ctx context.Context, kind interfaces.RecordKind, data []byte) error

	// Available reports whether initialization succeeded.
	Available() bool

	// Name returns identifier for logging.
	Name() string
}

// emptyCollection is the serialized form of a fresh collection.
var emptyCollection = []byte("[]")

// NewBackendFromURI creates a registration backend from a location URI.
//
// Supported schemes:
//   - file:///var/lib/reviews/reg - two JSON files in the directory
//   - redis://[:password@]host:port/db?prefix=reviews - two keys in redis
//
// Initialization failures do not return an error: the backend is created in
// the unavailable state and the failure is logged once. Only a malformed URI
// is an error.
func NewBackendFromURI(ctx context.Context, uri string, log *slog.Logger) (Backend, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrInvalidLocationURI, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "file", "":
		path := u.Path
		if u.Host != "" {
			path = u.Host + "/" + strings.TrimPrefix(path, "/")
		}
		if path == "" {
			return nil, fmt.Errorf("%w: empty path in file URI %q", interfaces.ErrInvalidLocationURI, uri)
		}
		return NewFileBackend(path, log), nil
	case "redis", "rediss":
		prefix := u.Query().Get("prefix")
		if prefix == "" {
			prefix = DefaultRedisPrefix
		}
		q := u.Query()
		q.Del("prefix")
		u.RawQuery = q.Encode()

		opts, err := redis.ParseURL(u.String())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", interfaces.ErrInvalidLocationURI, err)
		}
		return NewRedisBackend(ctx, redis.NewClient(opts), prefix, log), nil
	default:
		return nil, fmt.Errorf("%w: unsupported registration scheme %q", interfaces.ErrInvalidLocationURI, u.Scheme)
	}
}

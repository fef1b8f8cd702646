package storage

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lastweeknextday/review-gateway/interfaces"
)

// StorageBackendFactory creates content storage backends from URI strings.
type StorageBackendFactory struct {
	log *slog.Logger
}

// NewStorageBackendFactory creates a new factory instance that can create storage backends.
func NewStorageBackendFactory(logger *slog.Logger) *StorageBackendFactory {
	return &StorageBackendFactory{log: logger}
}

// StorageBackendFor creates a storage backend from a location URI.
// The URI format should be [scheme]://[auth@]host[:port][/path][?params]
//
// Supported schemes:
//   - ipfs:// - IPFS HTTP API (default for item info)
//   - file:// - Local filesystem storage
//   - s3:// - Amazon S3 or compatible object storage
//   - vault:// - HashiCorp Vault KV v2
//
// Every backend accepts cache=true to wrap it in a CachedBackend.
// Returns an error if the URI is invalid or the scheme is unsupported.
func (sf *StorageBackendFactory) StorageBackendFor(locationURI string) (interfaces.StorageBackend, error) {
	loc, err := interfaces.NewStorageBackendLocation(locationURI)
	if err != nil {
		return nil, err
	}

	var backend interfaces.StorageBackend
	switch loc.Scheme {
	case "ipfs":
		backend, err = sf.createIPFSBackend(loc)
	case "s3":
		backend, err = sf.createS3Backend(loc)
	case "file":
		backend, err = sf.createFileBackend(loc)
	case "vault":
		backend, err = sf.createVaultBackend(loc)
	default:
		return nil, fmt.Errorf("%w: unsupported backend scheme %s", interfaces.ErrInvalidLocationURI, loc.Scheme)
	}
	if err != nil {
		return nil, err
	}

	if loc.GetParamBool("cache") {
		ttl, err := durationParam(loc, "cacheTTL", DefaultCacheTTL)
		if err != nil {
			return nil, err
		}
		backend = NewCachedBackend(backend, ttl, DefaultCacheCleanup, sf.log)
	}

	return backend, nil
}

// createIPFSBackend creates an IPFS storage backend.
// URI format: ipfs://[projectID:secret@]host:port/?tls=true&timeout=30s
func (sf *StorageBackendFactory) createIPFSBackend(loc interfaces.StorageBackendLocation) (interfaces.StorageBackend, error) {
	sf.log.Debug("Creating IPFS backend", slog.String("host", loc.Host))

	host := loc.Host
	if host == "" {
		host = "127.0.0.1:5001"
	} else if !strings.Contains(host, ":") {
		host += ":5001"
	}

	scheme := "http"
	if loc.GetParamBool("tls") {
		scheme = "https"
	}

	timeout, err := durationParam(loc, "timeout", 30*time.Second)
	if err != nil {
		return nil, err
	}

	username, password := loc.Credentials()
	return NewIPFSBackend(fmt.Sprintf("%s://%s", scheme, host), username, password, timeout, sf.log), nil
}

// createS3Backend creates an S3 or S3-compatible storage backend.
// URI format: s3://[ACCESS_KEY:SECRET_KEY@]bucket-name/path/?region=us-west-2&endpoint=http://minio:9000&pathStyle=true
func (sf *StorageBackendFactory) createS3Backend(loc interfaces.StorageBackendLocation) (interfaces.StorageBackend, error) {
	sf.log.Debug("Creating S3 backend", slog.String("bucket", loc.Host))

	accessKey, secretKey := loc.Credentials()
	return NewS3Backend(S3Options{
		Bucket:    loc.Host,
		Prefix:    strings.TrimPrefix(loc.Path, "/"),
		Region:    loc.GetParam("region"),
		Endpoint:  loc.GetParam("endpoint"),
		AccessKey: accessKey,
		SecretKey: secretKey,
		PathStyle: loc.GetParamBool("pathStyle"),
	}, sf.log)
}

// createFileBackend creates a file system storage backend.
// URI format: file:///absolute/path/ or file://./relative/path/
func (sf *StorageBackendFactory) createFileBackend(loc interfaces.StorageBackendLocation) (interfaces.StorageBackend, error) {
	sf.log.Debug("Creating file backend", slog.String("uri", loc.String()))

	path := loc.Path
	if loc.Host != "" {
		path = loc.Host + "/" + strings.TrimPrefix(path, "/")
	}

	if path == "" {
		return nil, fmt.Errorf("%w: empty path in file URI %s", interfaces.ErrInvalidLocationURI, loc.String())
	}

	return NewFileBackend(path, sf.log)
}

// createVaultBackend creates a Vault KV v2 storage backend.
// URI format: vault://[token@]host:port/mount/path?tls=false
// Without a token in the URI the client uses VAULT_TOKEN.
func (sf *StorageBackendFactory) createVaultBackend(loc interfaces.StorageBackendLocation) (interfaces.StorageBackend, error) {
	sf.log.Debug("Creating Vault backend", slog.String("host", loc.Host))

	parts := strings.SplitN(strings.Trim(loc.Path, "/"), "/", 2)
	if parts[0] == "" {
		return nil, fmt.Errorf("%w: vault URI needs a mount path", interfaces.ErrInvalidLocationURI)
	}
	mount := parts[0]
	var dataPath string
	if len(parts) > 1 {
		dataPath = parts[1]
	}

	scheme := "https"
	if loc.GetParam("tls") == "false" {
		scheme = "http"
	}

	token, _ := loc.Credentials()
	return NewVaultBackend(fmt.Sprintf("%s://%s", scheme, loc.Host), mount, dataPath, token, sf.log)
}

func durationParam(loc interfaces.StorageBackendLocation, name string, def time.Duration) (time.Duration, error) {
	raw := loc.GetParam(name)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", interfaces.ErrInvalidLocationURI, name, raw)
	}
	return d, nil
}

package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	shell "github.com/ipfs/go-ipfs-api"

	"github.com/lastweeknextday/review-gateway/interfaces"
)

// IPFSBackend implements a storage backend on top of an IPFS HTTP API, either
// a local node or a hosted one such as Infura. Content IDs are the CIDs the
// node returns.
type IPFSBackend struct {
	shell       *shell.Shell
	apiURL      string
	log         *slog.Logger
	locationURI string
}

// basicAuthTransport adds project credentials required by hosted IPFS APIs.
type basicAuthTransport struct {
	username string
	password string
	next     http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.SetBasicAuth(t.username, t.password)
	return t.next.RoundTrip(req)
}

// NewIPFSBackend creates a new IPFS storage backend for the API at apiURL
// (host:port or a full http(s) URL). Credentials are sent with basic auth
// when username is not empty.
func NewIPFSBackend(apiURL, username, password string, timeout time.Duration, log *slog.Logger) *IPFSBackend {
	var transport http.RoundTripper = http.DefaultTransport
	if username != "" {
		transport = &basicAuthTransport{username: username, password: password, next: transport}
	}

	sh := shell.NewShellWithClient(apiURL, &http.Client{Transport: transport})
	if timeout > 0 {
		sh.SetTimeout(timeout)
	}

	uri := fmt.Sprintf("ipfs://%s/?timeout=%s", strings.TrimPrefix(strings.TrimPrefix(apiURL, "http://"), "https://"), timeout)
	if strings.HasPrefix(apiURL, "https://") {
		uri += "&tls=true"
	}

	return &IPFSBackend{
		shell:       sh,
		apiURL:      apiURL,
		log:         log,
		locationURI: uri,
	}
}

// Fetch retrieves content by CID.
// Returns ErrContentNotFound if the node cannot resolve the CID or
// ErrBackendUnavailable if the node is not accessible.
func (b *IPFSBackend) Fetch(ctx context.Context, id interfaces.ContentID) ([]byte, error) {
	start := time.Now()

	if id == "" {
		return nil, interfaces.ErrContentNotFound
	}

	if !b.shell.IsUp() {
		b.log.Warn("IPFS node unavailable", slog.String("api", b.apiURL))
		return nil, interfaces.ErrBackendUnavailable
	}

	reader, err := b.shell.Cat(id.String())
	if err != nil {
		if isIPFSNotFound(err) {
			b.log.Debug("Content not found in IPFS",
				slog.String("cid", id.String()),
				slog.Duration("duration", time.Since(start)))
			return nil, interfaces.ErrContentNotFound
		}

		b.log.Error("Failed to fetch data from IPFS",
			slog.String("cid", id.String()),
			"err", err,
			slog.Duration("duration", time.Since(start)))
		return nil, fmt.Errorf("failed to fetch data from IPFS: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		b.log.Error("Failed to read data from IPFS",
			slog.String("cid", id.String()),
			"err", err,
			slog.Duration("duration", time.Since(start)))
		return nil, fmt.Errorf("failed to read data from IPFS: %w", err)
	}

	b.log.Debug("Fetched content from IPFS",
		slog.String("cid", id.String()),
		slog.Int("size", len(data)),
		slog.Duration("duration", time.Since(start)))

	return data, nil
}

// Store adds and pins data on the node and returns its CID.
// Returns ErrBackendUnavailable if the IPFS node is not accessible.
func (b *IPFSBackend) Store(ctx context.Context, data []byte, name string) (interfaces.ContentID, error) {
	if !b.shell.IsUp() {
		return "", interfaces.ErrBackendUnavailable
	}

	cid, err := b.shell.Add(bytes.NewReader(data), shell.Pin(true))
	if err != nil {
		return "", fmt.Errorf("failed to add %s.json to IPFS: %w", name, err)
	}

	b.log.Debug("Stored content in IPFS",
		slog.String("cid", cid),
		slog.String("name", name+".json"),
		slog.Int("size", len(data)))

	return interfaces.ContentID(cid), nil
}

// Available checks if the IPFS node is accessible.
func (b *IPFSBackend) Available(ctx context.Context) bool {
	return b.shell.IsUp()
}

// Name returns a unique identifier for this storage backend.
func (b *IPFSBackend) Name() string {
	return fmt.Sprintf("ipfs-%s", b.apiURL)
}

// LocationURI returns the URI that identifies this storage backend.
func (b *IPFSBackend) LocationURI() string {
	return b.locationURI
}

func isIPFSNotFound(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "no link named") ||
		strings.Contains(msg, "not found") ||
		strings.Contains(msg, "invalid path") ||
		strings.Contains(msg, "invalid cid")
}

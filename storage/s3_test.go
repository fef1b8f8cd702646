package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lastweeknextday/review-gateway/interfaces"
)

// fakeS3 serves path-style object requests for a single bucket.
func fakeS3(t *testing.T, bucket string) (*httptest.Server, map[string][]byte) {
	var mu sync.Mutex
	objects := map[string][]byte{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == bucket && r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		if !strings.HasPrefix(path, bucket+"/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		key := strings.TrimPrefix(path, bucket+"/")

		mu.Lock()
		defer mu.Unlock()

		switch r.Method {
		case http.MethodPut:
			data, _ := io.ReadAll(r.Body)
			objects[key] = data
			w.Header().Set("ETag", `"etag"`)
			w.WriteHeader(http.StatusOK)
		case http.MethodGet:
			data, ok := objects[key]
			if !ok {
				w.Header().Set("Content-Type", "application/xml")
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(data)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, objects
}

func TestS3Backend_StoreAndFetch(t *testing.T) {
	srv, objects := fakeS3(t, "reviews")
	backend, err := NewS3Backend(S3Options{
		Bucket:    "reviews",
		Prefix:    "items/",
		Region:    "us-east-1",
		Endpoint:  srv.URL,
		AccessKey: "key",
		SecretKey: "secret",
		PathStyle: true,
	}, testLogger())
	require.NoError(t, err)
	ctx := context.Background()

	data := []byte(`{"Item Name":"Widget"}`)
	id, err := backend.Store(ctx, data, "Widget")
	require.NoError(t, err)
	assert.Equal(t, interfaces.ComputeID(data), id)
	assert.Equal(t, data, objects["items/"+id.String()])

	fetched, err := backend.Fetch(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, data, fetched)

	assert.True(t, backend.Available(ctx))
}

func TestS3Backend_FetchMissing(t *testing.T) {
	srv, _ := fakeS3(t, "reviews")
	backend, err := NewS3Backend(S3Options{
		Bucket:    "reviews",
		Endpoint:  srv.URL,
		AccessKey: "key",
		SecretKey: "secret",
		PathStyle: true,
	}, testLogger())
	require.NoError(t, err)

	_, err = backend.Fetch(context.Background(), interfaces.ComputeID([]byte("nope")))
	assert.ErrorIs(t, err, interfaces.ErrContentNotFound)
}

func TestS3Backend_RequiresBucket(t *testing.T) {
	_, err := NewS3Backend(S3Options{}, testLogger())
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)
}

package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/items/{itemName}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("/items/{itemName}", http.MethodGet, "404"))

	req := httptest.NewRequest(http.MethodGet, "/items/Widget", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	after := testutil.ToFloat64(httpRequests.WithLabelValues("/items/{itemName}", http.MethodGet, "404"))
	assert.Equal(t, before+1, after)
}

func TestRecordRegistration(t *testing.T) {
	okBefore := testutil.ToFloat64(registrationOps.WithLabelValues("queue", "ok"))
	errBefore := testutil.ToFloat64(registrationOps.WithLabelValues("queue", "error"))

	RecordRegistration("queue", nil)
	RecordRegistration("queue", errors.New("disk full"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(registrationOps.WithLabelValues("queue", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(registrationOps.WithLabelValues("queue", "error")))
}

func TestMetricsServer_ServesMetrics(t *testing.T) {
	RecordUpstreamError(UpstreamContract)

	srv, err := New("127.0.0.1:0")
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `review_gateway_upstream_errors_total{upstream="contract"}`)
}

package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, env *testEnv, origins ...string) *Server {
	t.Helper()
	srv, err := New(&HTTPServerConfig{
		ListenAddr:               "127.0.0.1:0",
		Log:                      discardLogger(),
		CORSOrigins:              origins,
		DrainDuration:            time.Millisecond,
		GracefulShutdownDuration: time.Second,
	}, NewHandler(env.contract, env.registrations, env.content, discardLogger()))
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestServer_HealthAndDrain(t *testing.T) {
	env := newTestEnv(t)
	env.contract.On("Connected", mock.Anything).Return(true)
	srv := newTestServer(t, env)
	h := srv.Handler()

	assert.Equal(t, http.StatusOK, get(t, h, "/livez").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/readyz").Code)

	rr := get(t, h, "/drain")
	assert.JSONEq(t, `{"status":"draining"}`, rr.Body.String())
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/readyz").Code)
	assert.JSONEq(t, `{"status":"already draining"}`, get(t, h, "/drain").Body.String())

	assert.JSONEq(t, `{"status":"ready"}`, get(t, h, "/undrain").Body.String())
	assert.Equal(t, http.StatusOK, get(t, h, "/readyz").Code)
	assert.JSONEq(t, `{"status":"already ready"}`, get(t, h, "/undrain").Body.String())
}

func TestServer_NotReadyWithoutContract(t *testing.T) {
	env := newTestEnv(t)
	env.contract.On("Connected", mock.Anything).Return(false)
	srv := newTestServer(t, env)

	rr := get(t, srv.Handler(), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.JSONEq(t, `{"status":"contract unreachable"}`, rr.Body.String())
}

func TestServer_CORS(t *testing.T) {
	env := newTestEnv(t)
	srv := newTestServer(t, env, "https://shop.com")

	req := httptest.NewRequest(http.MethodOptions, "/items/register?itemName=Widget", nil)
	req.Header.Set("Origin", "https://shop.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	assert.Equal(t, "https://shop.com", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, env.registrations.GetQueue(req.Context()), "preflight must not reach the handler")

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.com")
	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

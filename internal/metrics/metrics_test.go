package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tuplekv/pkg/backend"
	"tuplekv/pkg/backend/memory"
	"tuplekv/pkg/keys"
)

type failing struct{ backend.Backend }

func (failing) Write(keys.Key, []byte) error { return errors.New("disk on fire") }

func TestInstrumentCountsOps(t *testing.T) {
	m := New()
	b := m.Instrument(memory.New())

	require.NoError(t, b.Write(keys.Pack1("a"), []byte("1")))
	require.NoError(t, b.Write(keys.Pack1("b"), []byte("2")))
	require.NoError(t, b.Write(keys.Pack1("b"), nil))
	entries, err := b.RangeScan(nil, nil)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	require.NoError(t, b.Clear())

	assert.Equal(t, 4, testutil.CollectAndCount(m.backendOps))
	assert.Equal(t, 0, testutil.CollectAndCount(m.backendErrors))

	bad := m.Instrument(failing{memory.New()})
	assert.Error(t, bad.Write(keys.Pack1("x"), []byte("y")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.backendErrors.WithLabelValues("write")))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/kv", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/metrics", m.Handler().ServeHTTP)

	for _, q := range []string{"users:1", "users:2"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/kv?key="+q, nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/kv", "GET", "404")))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	body, _ := io.ReadAll(rr.Body)
	assert.True(t, strings.Contains(string(body), `tuplekv_http_requests_total{code="404",method="GET",route="/api/kv"} 2`))
	assert.Contains(t, string(body), "go_goroutines")
}

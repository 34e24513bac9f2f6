package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/textflow/internal/core"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ core.Observer = (*Metrics)(nil)

func TestObserveOperation(t *testing.T) {
	m := New()

	m.ObserveOperation("Convert Case", core.StatusSuccess, 5*time.Millisecond)
	m.ObserveOperation("Convert Case", core.StatusSuccess, 5*time.Millisecond)
	m.ObserveOperation("Convert Case", core.StatusCached, 0)
	m.ObserveOperation("Spell Check", core.StatusFailure, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("Convert Case", core.StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("Convert Case", core.StatusCached)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("Spell Check", core.StatusFailure)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.operationDuration))
}

func TestDispatcherReportsToMetrics(t *testing.T) {
	m := New()
	reg := core.NewRegistry()
	reg.Register("Upper", core.Func(strings.ToUpper))
	reg.Register("Broken", core.FuncErr(func(string) (string, error) { return "", errors.New("x") }))

	d := core.NewDispatcher(reg, core.DispatcherConfig{}, core.WithObserver(m))
	d.Dispatch(context.Background(), "a", []string{"Upper", "Broken", "Unknown"})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("Upper", core.StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("Broken", core.StatusFailure)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.operations))
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", m.Handler())

	for _, id := range []string{"1", "2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
		require.Equal(t, http.StatusTeapot, rec.Code)
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/items/{id}", http.MethodGet, "418")))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "textflow_http_requests_total")
	assert.Contains(t, string(body), "go_goroutines")
}

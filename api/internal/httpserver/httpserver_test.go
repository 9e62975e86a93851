package httpserver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avbot/api/internal/metrics"
)

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestHealth(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	code, body := get(t, Health(map[string]Check{"db": ok, "redis": ok}), "/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body)

	code, body = get(t, Health(map[string]Check{"db": ok, "redis": down}), "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, body, "redis: not ok")
	assert.Contains(t, body, "connection refused")
	assert.NotContains(t, body, "db:")
}

func TestRegisterExposesMetrics(t *testing.T) {
	mux := http.NewServeMux()
	Register(mux, nil)
	metrics.Classifications.WithLabelValues("single").Inc()

	code, body := get(t, mux, "/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "avbot_classifications_total")

	code, _ = get(t, mux, "/healthz")
	assert.Equal(t, http.StatusOK, code)
}

func TestStartHTTPStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- StartHTTP(ctx, "127.0.0.1:0", http.NewServeMux(), zerolog.Nop()) }()
	cancel()
	assert.NoError(t, <-done)
}

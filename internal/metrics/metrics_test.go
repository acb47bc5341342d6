package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorsCount(t *testing.T) {
	m := New()

	m.ObserveBackend("list_by_date", 200, 30*time.Millisecond)
	m.ObserveBackend("list_by_date", 0, time.Second)
	m.ObserveRefresh("ok", 50*time.Millisecond)
	m.ObserveSkippedTick()
	m.ObserveLogin("ok")
	m.ObserveTeardown("hidden")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.backendRequests.WithLabelValues("list_by_date", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.backendRequests.WithLabelValues("list_by_date", "0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.refreshes.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.skippedTicks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.teardowns.WithLabelValues("hidden")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.activeSession))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.ObserveHTTP("GET", "/api/dashboard", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `barber_dashboard_http_requests_total{method="GET",route="/api/dashboard",status="200"} 1`)
}

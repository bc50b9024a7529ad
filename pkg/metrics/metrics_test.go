package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartOp(t *testing.T) {
	m := New()

	m.CartOp("add", "ok")
	m.CartOp("add", "rejected")
	m.CartOp("update", "rejected")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CartOperations.WithLabelValues("add", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.StockRejections))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.CartOp("add", "ok")
		m.ObserveHTTP("GET", "/", 200, time.Millisecond)
		m.ImageNormalized(false)
		m.Registered()
		m.Login(true)
	})
}

func TestHandlerExportsStorefrontMetrics(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodGet, "/products", http.StatusOK, 20*time.Millisecond)
	m.Registered()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `storefront_http_requests_total{method="GET",route="/products",status="200"} 1`))
	assert.True(t, strings.Contains(body, "storefront_customer_registrations_total 1"))
}

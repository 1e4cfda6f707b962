package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareRecordsRouteAndStatus(t *testing.T) {
	m := New("test", prometheus.NewRegistry())
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/products/:id", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "missing")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/42", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HttpRequestsTotal.WithLabelValues(http.MethodGet, "/api/products/:id", "404")))
}

func TestDomainCounters(t *testing.T) {
	m := New("test", prometheus.NewRegistry())

	m.RecordSale(12.5)
	m.RecordSale(7.5)
	m.RecordSaleFailure("insufficient_quantity")
	m.RecordJobRun("low-stock-scan", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SalesTotal))
	assert.Equal(t, 20.0, testutil.ToFloat64(m.SaleAmount))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SaleFailures.WithLabelValues("insufficient_quantity")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobRuns.WithLabelValues("low-stock-scan", "error")))
}

func TestSetLowStockReplacesPreviousValues(t *testing.T) {
	m := New("test", prometheus.NewRegistry())

	const a, b = "0b5c3f1e-7d2a-4c1b-9e8f-1a2b3c4d5e6f", "7f6e5d4c-3b2a-4190-8f7e-6d5c4b3a2910"
	m.SetLowStock(map[string]int{a: 2, b: 1})
	m.SetLowStock(map[string]int{b: 4})

	assert.Equal(t, 1, testutil.CollectAndCount(m.LowStockProducts))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.LowStockProducts.WithLabelValues(b)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordSale(1)
		m.RecordSaleFailure("x")
		m.SetLowStock(map[string]int{"A": 1})
	})
}

package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors exported on /metrics. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	SalesTotal         prometheus.Counter
	SaleFailures       *prometheus.CounterVec
	SaleAmount         prometheus.Counter
	ProductOperations  *prometheus.CounterVec
	EmployeeOperations *prometheus.CounterVec
	TenantOperations   *prometheus.CounterVec
	LowStockProducts   *prometheus.GaugeVec
	JobRuns            *prometheus.CounterVec
}

// New registers every collector on reg with the given name prefix.
func New(prefix string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HttpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HttpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		SalesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_sales_total",
				Help: "Total number of committed sales",
			},
		),
		SaleFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_sale_failures_total",
				Help: "Total number of rejected sales by reason",
			},
			[]string{"reason"},
		),
		SaleAmount: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_sale_amount_total",
				Help: "Sum of committed sale amounts",
			},
		),
		ProductOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_product_operations_total",
				Help: "Total number of product operations",
			},
			[]string{"operation"},
		),
		EmployeeOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_employee_operations_total",
				Help: "Total number of employee operations",
			},
			[]string{"operation"},
		),
		TenantOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_tenant_operations_total",
				Help: "Total number of tenant operations",
			},
			[]string{"operation"},
		),
		LowStockProducts: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: prefix + "_low_stock_products",
				Help: "Products below the low stock threshold per tenant",
			},
			[]string{"tenant_id"},
		),
		JobRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_job_runs_total",
				Help: "Background job executions by job and outcome",
			},
			[]string{"job", "outcome"},
		),
	}
}

// RecordSale counts a committed sale and its amount.
func (m *Metrics) RecordSale(amount float64) {
	if m == nil {
		return
	}
	m.SalesTotal.Inc()
	m.SaleAmount.Add(amount)
}

func (m *Metrics) RecordSaleFailure(reason string) {
	if m == nil {
		return
	}
	m.SaleFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordProductOperation(operation string) {
	if m == nil {
		return
	}
	m.ProductOperations.WithLabelValues(operation).Inc()
}

func (m *Metrics) RecordEmployeeOperation(operation string) {
	if m == nil {
		return
	}
	m.EmployeeOperations.WithLabelValues(operation).Inc()
}

func (m *Metrics) RecordTenantOperation(operation string) {
	if m == nil {
		return
	}
	m.TenantOperations.WithLabelValues(operation).Inc()
}

// SetLowStock replaces the low stock gauge with counts keyed by tenant id.
func (m *Metrics) SetLowStock(counts map[string]int) {
	if m == nil {
		return
	}
	m.LowStockProducts.Reset()
	for tenant, n := range counts {
		m.LowStockProducts.WithLabelValues(tenant).Set(float64(n))
	}
}

func (m *Metrics) RecordJobRun(job string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.JobRuns.WithLabelValues(job, outcome).Inc()
}

// Middleware records request count and duration per route.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Resolve the error here so the recorded status is the one sent.
			if err := next(c); err != nil {
				c.Error(err)
			}

			duration := time.Since(start).Seconds()
			method := c.Request().Method
			path := c.Path()
			status := strconv.Itoa(c.Response().Status)

			m.HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
			m.HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration)
			return nil
		}
	}
}

package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics はPrometheusの指標をまとめる。nilでも呼び出せる
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	adjustments     *prometheus.CounterVec
	salesRecorded   prometheus.Counter
	lowStockAlerts  prometheus.Counter
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ecadmin_http_requests_total",
		Help: "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ecadmin_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
	adjustments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ecadmin_inventory_adjustments_total",
		Help: "Inventory adjustments by change type.",
	}, []string{"change_type"})
	sales := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ecadmin_sales_recorded_total",
		Help: "Sales recorded.",
	})
	alerts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ecadmin_low_stock_alerts_total",
		Help: "Low stock alerts raised after a stock change.",
	})
	registry.MustRegister(requests, duration, adjustments, sales, alerts)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		adjustments:     adjustments,
		salesRecorded:   sales,
		lowStockAlerts:  alerts,
	}
}

// /metrics 用
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware はルート単位でリクエスト数と処理時間を記録する。
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if m == nil {
			return next
		}
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				//ステータスを確定させる
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unknown"
			}
			method := c.Request().Method
			code := strconv.Itoa(c.Response().Status)
			m.requestsTotal.WithLabelValues(route, method, code).Inc()
			m.requestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

func (m *Metrics) ObserveAdjustment(changeType string) {
	if m == nil {
		return
	}
	m.adjustments.WithLabelValues(changeType).Inc()
}

func (m *Metrics) ObserveSale() {
	if m == nil {
		return
	}
	m.salesRecorded.Inc()
}

func (m *Metrics) ObserveLowStockAlert() {
	if m == nil {
		return
	}
	m.lowStockAlerts.Inc()
}

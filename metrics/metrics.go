package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route", "status"},
	)

	// Business metrics
	uploadsParsedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uploads_parsed_total",
			Help: "Total number of spreadsheet uploads by outcome",
		},
		[]string{"result"},
	)

	uploadRowsParsedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "upload_rows_parsed_total",
			Help: "Total number of data rows parsed from uploads",
		},
	)

	chartsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "charts_created_total",
			Help: "Total number of charts saved, by chart type",
		},
		[]string{"type"},
	)

	authLoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of login attempts by result",
		},
		[]string{"result"},
	)

	authRegistrationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_registrations_total",
			Help: "Total number of user registrations",
		},
	)
)

// Middleware records request count and latency, labelled by the matched route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordUpload(ok bool, rows int) {
	if !ok {
		uploadsParsedTotal.WithLabelValues("error").Inc()
		return
	}
	uploadsParsedTotal.WithLabelValues("ok").Inc()
	uploadRowsParsedTotal.Add(float64(rows))
}

func RecordChartCreated(chartType string) {
	chartsCreatedTotal.WithLabelValues(chartType).Inc()
}

// RecordLogin counts a login attempt; result is "success" or "failure".
func RecordLogin(result string) {
	authLoginsTotal.WithLabelValues(result).Inc()
}

func RecordRegistration() {
	authRegistrationsTotal.Inc()
}

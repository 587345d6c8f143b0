package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	ViewsMounted = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lesson_views_mounted",
			Help: "Number of lesson detail views currently held in memory",
		},
	)

	// result: accepted, rejected, failed
	ProgressToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progress_toggles_total",
			Help: "Subsection completion toggles by outcome",
		},
		[]string{"result"},
	)

	// state: content, empty
	SubsectionRenders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subsection_renders_total",
			Help: "Rendered subsections by renderer type and outcome",
		},
		[]string{"type", "state"},
	)

	SourceRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lesson_source_request_duration_seconds",
			Help:    "Duration of lesson source calls made by the viewer",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"operation", "outcome"},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(ViewsMounted)
		prometheus.MustRegister(ProgressToggles)
		prometheus.MustRegister(SubsectionRenders)
		prometheus.MustRegister(SourceRequestDuration)
	})
}

// ObserveSource 记录一次数据源调用
func ObserveSource(operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	SourceRequestDuration.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

package middleware

import (
	"strconv"
	"time"

	"github.com/facturo/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// HTTPMetrics records request counts and durations per route
type HTTPMetrics struct {
	requests *telemetry.Counter
	duration *telemetry.Histogram
}

// NewHTTPMetrics creates the HTTP metric instruments on the given provider
func NewHTTPMetrics(mp *telemetry.MeterProvider) (*HTTPMetrics, error) {
	meter := mp.Meter("facturo.http")

	requests, err := telemetry.NewCounter(meter,
		"http_requests_total", "Total HTTP requests", "{request}")
	if err != nil {
		return nil, err
	}

	duration, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_request_duration_seconds",
		Description: "HTTP request duration",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{requests: requests, duration: duration}, nil
}

// Middleware returns the gin middleware recording the instruments
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			// Unmatched routes share one label to keep cardinality bounded
			route = "unmatched"
		}

		attrs := []attribute.KeyValue{
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(route),
			telemetry.AttrHTTPStatusCode.String(strconv.Itoa(c.Writer.Status())),
		}

		ctx := c.Request.Context()
		m.requests.Inc(ctx, attrs...)
		m.duration.RecordDuration(ctx, time.Since(start), attrs...)
	}
}

// Metrics builds the HTTP metrics middleware, degrading to a pass-through
// when instrument creation fails
func Metrics(mp *telemetry.MeterProvider, logger *zap.Logger) gin.HandlerFunc {
	m, err := NewHTTPMetrics(mp)
	if err != nil {
		logger.Warn("Failed to create HTTP metrics, continuing without them", zap.Error(err))
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return m.Middleware()
}

// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file exposes Prometheus instrumentation. Metrics() measures HTTP
// request counts, latencies, in-flight concurrency, and response sizes.
// Alongside the transport metrics it registers two business counters that
// handlers record directly: content uploads by kind and outcome, and sermon
// like toggles.
//
// Label cardinality is kept bounded: the "path" label is the registered Gin
// route (e.g. /api/v1/sermons/:id/like), falling back to the raw URL path
// only when no route matched.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// httpReqs counts requests by method, route path, and status code.
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// httpLat records request duration in seconds by method and route path.
	// Status is omitted to keep histogram cardinality lower.
	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// httpInflight gauges the number of currently processing requests.
	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	// httpRespSize captures response sizes in bytes by method and route path.
	// Buckets span small JSON envelopes up to the larger content lists.
	httpRespSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_response_size_bytes",
			Help: "Size of HTTP responses in bytes.",
			Buckets: []float64{
				200, 500, 1 << 10, 2 << 10, 5 << 10,
				10 << 10, 25 << 10, 50 << 10,
				100 << 10, 250 << 10, 500 << 10,
				1 << 20, 2 << 20, 5 << 20,
			},
		},
		[]string{"method", "path"},
	)

	// contentUploads counts admin dashboard uploads by content kind
	// (sermons, events, praise_songs) and outcome (ok, rejected, failed,
	// orphaned).
	contentUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_uploads_total",
			Help: "Total number of content upload attempts by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	// likeToggles counts sermon like toggles by resulting state.
	likeToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sermon_like_toggles_total",
			Help: "Total number of sermon like toggles by resulting state.",
		},
		[]string{"state"},
	)
)

func init() {
	prometheus.MustRegister(httpReqs, httpLat, httpInflight, httpRespSize, contentUploads, likeToggles)
}

// RecordUpload increments the upload counter for a content kind with the
// given outcome ("ok", "rejected", "failed", "orphaned").
func RecordUpload(kind, outcome string) {
	contentUploads.WithLabelValues(kind, outcome).Inc()
}

// RecordLikeToggle increments the like-toggle counter with the resulting
// membership state.
func RecordLikeToggle(liked bool) {
	state := "unliked"
	if liked {
		state = "liked"
	}
	likeToggles.WithLabelValues(state).Inc()
}

// Metrics returns a Gin middleware that instruments requests with Prometheus.
//
// Usage:
//
//	r := gin.New()
//	r.Use(middleware.Metrics())
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
// Per request it increments http_requests_total(method, path, status),
// observes duration and response size, and tracks the in-flight gauge while
// the handler runs.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		c.Next()

		dur := time.Since(start).Seconds()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		httpReqs.WithLabelValues(method, path, status).Inc()
		httpLat.WithLabelValues(method, path).Observe(dur)
		// Size is -1 for handlers that never write a body; skip those.
		if size := c.Writer.Size(); size >= 0 {
			httpRespSize.WithLabelValues(method, path).Observe(float64(size))
		}
	}
}

package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and
// the scheduling pipeline.
type MetricsService struct {
	registry           *prometheus.Registry
	handler            http.Handler
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	providerDuration   *prometheus.HistogramVec
	searchDuration     prometheus.Histogram
	schedulesGenerated prometheus.Counter
	ratingCacheHits    prometheus.Counter
	ratingCacheMisses  prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	providerDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "provider_request_duration_seconds",
		Help:    "Latency of external provider calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})

	searchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_search_duration_seconds",
		Help:    "Duration of backtracking searches",
		Buckets: prometheus.DefBuckets,
	})

	schedulesGenerated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedules_generated_total",
		Help: "Total schedules produced by the search",
	})

	ratingCacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rating_cache_hits_total",
		Help: "Total rating lookups served from the cache store",
	})

	ratingCacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rating_cache_misses_total",
		Help: "Total rating lookups that reached the provider",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, providerDuration, searchDuration, schedulesGenerated, ratingCacheHits, ratingCacheMisses, goroutines)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		providerDuration:   providerDuration,
		searchDuration:     searchDuration,
		schedulesGenerated: schedulesGenerated,
		ratingCacheHits:    ratingCacheHits,
		ratingCacheMisses:  ratingCacheMisses,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveProvider records one external provider call.
func (m *MetricsService) ObserveProvider(provider string, duration time.Duration) {
	if m == nil {
		return
	}
	m.providerDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// ObserveSearch records the duration of one backtracking run and the number
// of schedules it produced.
func (m *MetricsService) ObserveSearch(duration time.Duration, schedules int) {
	if m == nil {
		return
	}
	m.searchDuration.Observe(duration.Seconds())
	m.schedulesGenerated.Add(float64(schedules))
}

// RecordRatingCache tracks rating cache hits and misses.
func (m *MetricsService) RecordRatingCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.ratingCacheHits.Inc()
	} else {
		m.ratingCacheMisses.Inc()
	}
}

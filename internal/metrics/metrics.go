package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives the service's measurements.
type Recorder interface {
	IncRequestsTotal(route string, status int)
	ObserveRequestDuration(route string, duration time.Duration)
	IncGuesses(outcome string)
	IncGamesCompleted(won bool, attemptsUsed int)
	IncCacheHits()
	IncCacheMisses()
	Handler() http.Handler
}

// Provider is a Recorder backed by its own Prometheus registry.
type Provider struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	guessesTotal    *prometheus.CounterVec
	gamesCompleted  *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

// New returns a Prometheus-backed Recorder, or a no-op one when disabled.
func New(enabled bool) Recorder {
	if !enabled {
		return noopMetrics{}
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Provider{
		registry: reg,
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wheelword_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wheelword_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		guessesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wheelword_guesses_total",
			Help: "Submitted guesses by outcome",
		}, []string{"outcome"}),
		gamesCompleted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wheelword_games_completed_total",
			Help: "Completed games by result and attempts used",
		}, []string{"result", "attempts"}),
		cacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "wheelword_cache_hits_total",
			Help: "Total number of cache hits",
		}),
		cacheMisses: f.NewCounter(prometheus.CounterOpts{
			Name: "wheelword_cache_misses_total",
			Help: "Total number of cache misses",
		}),
	}
}

func (m *Provider) IncRequestsTotal(route string, status int) {
	m.requestsTotal.WithLabelValues(route, httpStatusBucket(status)).Inc()
}

func (m *Provider) ObserveRequestDuration(route string, duration time.Duration) {
	m.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (m *Provider) IncGuesses(outcome string) {
	m.guessesTotal.WithLabelValues(outcome).Inc()
}

func (m *Provider) IncGamesCompleted(won bool, attemptsUsed int) {
	result := "lost"
	if won {
		result = "won"
	}
	m.gamesCompleted.WithLabelValues(result, strconv.Itoa(attemptsUsed)).Inc()
}

func (m *Provider) IncCacheHits() { m.cacheHits.Inc() }

func (m *Provider) IncCacheMisses() { m.cacheMisses.Inc() }

// Handler serves this provider's registry.
func (m *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// noopMetrics is used when metrics are disabled.
type noopMetrics struct{}

func (noopMetrics) IncRequestsTotal(string, int)                 {}
func (noopMetrics) ObserveRequestDuration(string, time.Duration) {}
func (noopMetrics) IncGuesses(string)                            {}
func (noopMetrics) IncGamesCompleted(bool, int)                  {}
func (noopMetrics) IncCacheHits()                                {}
func (noopMetrics) IncCacheMisses()                              {}
func (noopMetrics) Handler() http.Handler                        { return http.NotFoundHandler() }

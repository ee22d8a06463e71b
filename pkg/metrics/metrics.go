// Package metrics holds the process-wide HTTP request collectors exposed on
// /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const activeUserWindow = 5 * time.Minute

// Collector records one observation per completed request. Safe for
// concurrent use.
type Collector struct {
	registry *prometheus.Registry

	requests     prometheus.Counter
	authRequests prometheus.Counter
	statusCodes  *prometheus.CounterVec
	responseTime *prometheus.HistogramVec
	perEndpoint  *prometheus.CounterVec

	mu     sync.Mutex
	active map[string]time.Time
	now    func() time.Time
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		active:   make(map[string]time.Time),
		now:      time.Now,
	}
	c.requests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	})
	c.authRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_requests_total",
		Help: "Total number of successful auth requests",
	})
	c.statusCodes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_status_codes_total",
		Help: "Total number of HTTP responses by status code",
	}, []string{"status_code"})
	c.responseTime = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_response_time_seconds",
		Help:    "Response time in seconds",
		Buckets: []float64{0.1, 0.3, 0.5, 1, 2, 5},
	}, []string{"method", "path", "status_code"})
	c.perEndpoint = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_per_endpoint_total",
		Help: "Total number of HTTP requests per endpoint",
	}, []string{"method", "path"})
	activeUsers := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "active_users_total",
		Help: "Number of distinct authenticated users seen in the last 5 minutes",
	}, func() float64 { return float64(c.ActiveUsers()) })

	c.registry.MustRegister(
		c.requests,
		c.authRequests,
		c.statusCodes,
		c.responseTime,
		c.perEndpoint,
		activeUsers,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Observe records a finished request. path should be the route template so
// label cardinality stays bounded. userID may be empty.
func (c *Collector) Observe(method, path string, status int, elapsed time.Duration, userID string) {
	code := strconv.Itoa(status)
	c.requests.Inc()
	if strings.Contains(path, "/auth") && (status == http.StatusOK || status == http.StatusCreated) {
		c.authRequests.Inc()
	}
	c.statusCodes.WithLabelValues(code).Inc()
	c.responseTime.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
	c.perEndpoint.WithLabelValues(method, path).Inc()

	if userID != "" {
		c.mu.Lock()
		c.active[userID] = c.now()
		c.mu.Unlock()
	}
}

// ActiveUsers counts users seen within the window and forgets older ones.
func (c *Collector) ActiveUsers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := c.now().Add(-activeUserWindow)
	for id, seen := range c.active {
		if seen.Before(cutoff) {
			delete(c.active, id)
		}
	}
	return len(c.active)
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

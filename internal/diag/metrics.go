package diag

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neuronos",
			Subsystem: "diag",
			Name: "requests_total",
			Help: "Total number of debug-server HTTP requests",
		},
		[]string{"path", "method", "status"})

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "neuronos",
			Subsystem: "diag",
			Name: "request_duration_seconds",
			Help: "Duration of debug-server HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"})

	agentStepsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "neuronos",
			Subsystem: "agent",
			Name: "steps_total",
			Help: "Total number of ReAct steps executed across all runs",
		})
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, agentStepsTotal)
}

// RecordAgentStep increments the agent step counter; the CLI calls this
// from its step callback so /metrics reflects live agent activity.
func RecordAgentStep() {
	agentStepsTotal.Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware instruments requests for Prometheus using a
// routePatternOrPath + statusRecorder pattern that keeps label
// cardinality bounded to route patterns rather than raw paths.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sr, r)

		path := routePatternOrPath(r)
		statusLabel := strconv.Itoa(sr.status)
		dur := time.Since(start).Seconds()
		httpRequestsTotal.WithLabelValues(path, r.Method, statusLabel).Inc()
		httpRequestDuration.WithLabelValues(path, r.Method, statusLabel).Observe(dur)
	})
}

func routePatternOrPath(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

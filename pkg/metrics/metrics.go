package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "request_latency",
			Subsystem: "tidetimebot",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.2, 0.4, 0.8, 1.0, 2.0, 4.0, 8.0, 16.0, 32.0},
		},
		[]string{"verb", "path", "code"},
	)

	upstreamFetchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "upstream_fetch_seconds",
			Subsystem: "tidetimebot",
			Help:      "Open-Meteo fetch durations in seconds, per endpoint.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
		[]string{"endpoint"},
	)

	botCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "bot_commands_total",
			Subsystem: "tidetimebot",
			Help:      "Chat commands handled, by command and outcome.",
		},
		[]string{"command", "outcome"},
	)

	geocodeCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "geocode_cache_total",
			Subsystem: "tidetimebot",
			Help:      "Geocode cache lookups by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		requestLatency,
		upstreamFetchLatency,
		botCommands,
		geocodeCache,
	)
}

func ObserveRequestLatency(verb, path, code string, latency float64) {
	requestLatency.With(prometheus.Labels{
		"code": code,
		"verb": verb,
		"path": path,
	}).Observe(latency)
}

// ObserveUpstreamFetch records one Open-Meteo request duration.
func ObserveUpstreamFetch(endpoint string, seconds float64) {
	upstreamFetchLatency.With(prometheus.Labels{"endpoint": endpoint}).Observe(seconds)
}

// ObserveCommand counts one handled chat command.
func ObserveCommand(command, outcome string) {
	botCommands.With(prometheus.Labels{"command": command, "outcome": outcome}).Inc()
}

// ObserveGeocodeCache counts a geocode cache hit or miss.
func ObserveGeocodeCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	geocodeCache.With(prometheus.Labels{"result": result}).Inc()
}

// LatencyHandler wraps next to observe request latencies.
func LatencyHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := time.Now()
		verb := r.Method
		path := ""
		if r.URL != nil {
			path = r.URL.Path
		}

		// Defer metric observing. Any panics in next are reported as 500
		// errors and then re-thrown.
		defer func() {
			if err := recover(); err != nil {
				ObserveRequestLatency(verb, path, "500", time.Since(t).Seconds())
				panic(err)
			}
			code := getStatusCode(w)
			ObserveRequestLatency(verb, path, code, time.Since(t).Seconds())
		}()

		next.ServeHTTP(w, r)
	})
}

func getStatusCode(w http.ResponseWriter) string {
	statusFields, ok := w.Header()["Status-Code"]
	if !ok {
		// Unset, will be set to 200 by stdlib.
		return "200"
	}
	if len(statusFields) < 1 {
		// Not normal behavior.
		return "0"
	}
	return statusFields[0]
}

package handler

import (
	"net/http"
	"time"

	"listing-browser/internal/infrastructure/metrics"
)

// observe starts the request clock and returns the func that records the
// request metrics with whatever status the handler settled on.
func observe(m *metrics.HandlerMetrics, method, endpoint string, status *string) func() {
	startTime := time.Now()
	return func() {
		duration := time.Since(startTime).Seconds()
		m.RequestCount.WithLabelValues(method, endpoint, *status).Inc()
		m.RequestDuration.WithLabelValues(method, endpoint, *status).Observe(duration)
	}
}

func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

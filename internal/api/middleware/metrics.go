package middleware

import (
	"net/http"
	"sync/atomic"
	"time"
)

// MetricsCollector counts requests and failed responses.
type MetricsCollector struct {
	startTime    time.Time
	requestCount atomic.Int64
	clientErrors atomic.Int64
	serverErrors atomic.Int64
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{startTime: time.Now()}
}

// MetricsSnapshot is a point-in-time copy of the collector's counters.
type MetricsSnapshot struct {
	Uptime       time.Duration
	RequestCount int64
	ClientErrors int64
	ServerErrors int64
}

func (mc *MetricsCollector) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Uptime:       time.Since(mc.startTime),
		RequestCount: mc.requestCount.Load(),
		ClientErrors: mc.clientErrors.Load(),
		ServerErrors: mc.serverErrors.Load(),
	}
}

// Middleware counts every request and classifies 4xx and 5xx responses.
func (mc *MetricsCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mc.requestCount.Add(1)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		switch {
		case rw.statusCode >= 500:
			mc.serverErrors.Add(1)
		case rw.statusCode >= 400:
			mc.clientErrors.Add(1)
		}
	})
}

package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var dbLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "eduos_db_latency_seconds",
	Help:    "Histogram of database operation latencies.",
	Buckets: prometheus.DefBuckets,
}, []string{"operation"})

// observeDB times one database operation. Use as:
//
//	defer observeDB("goals.list")()
func observeDB(operation string) func() {
	start := time.Now()
	return func() {
		dbLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// Prometheus metrics for thread storage.
package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesTotal counts stored messages.
	// Labels: origin (user, participant)
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "councild",
			Subsystem: "store",
			Name:      "messages_total",
			Help:      "Total messages appended to threads by origin",
		},
		[]string{"origin"},
	)

	// ThreadsActive tracks the number of threads held in memory.
	ThreadsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "councild",
			Subsystem: "store",
			Name:      "threads_active",
			Help:      "Number of threads currently held in memory",
		},
	)
)

package document

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Results recorded in the mutations counter.
const (
	resultOK            = "ok"
	resultNoop          = "noop"
	resultInvalid       = "invalid_input"
	resultNotFound      = "not_found"
	resultPersistFailed = "persist_failed"
	resultUnavailable   = "unavailable"
)

var (
	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mathnote_store_mutations_total",
		Help: "Document store mutations by operation and result",
	}, []string{"op", "result"})

	persistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mathnote_store_persist_failures_total",
		Help: "Slot writes that failed after a mutation",
	})

	persistDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mathnote_store_persist_seconds",
		Help:    "Time spent writing the document to its slot",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})

	documentBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mathnote_store_document_bytes",
		Help: "Size of the encoded document",
	})
)

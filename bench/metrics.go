package bench

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	proofsMetric = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "provebench",
		Subsystem: "bench",
		Name:      "proofs_total",
		Help:      "Number of generated and verified proofs",
	})

	attemptsMetric = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "provebench",
		Subsystem: "bench",
		Name:      "attempts_total",
		Help:      "Number of proving attempts",
	})

	attemptLatencyMetric = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "provebench",
		Subsystem: "bench",
		Name:      "attempt_latency_seconds",
		Help:      "Latency of single proving attempts",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 20),
	})

	workerStopsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "provebench",
		Subsystem: "bench",
		Name:      "worker_stops_total",
		Help:      "Number of stopped workers by reason",
	}, []string{"reason"})

	throughputMetric = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "provebench",
		Subsystem: "bench",
		Name:      "throughput_proofs_per_second",
		Help:      "Proofs per second of the last finished challenge",
	})
)

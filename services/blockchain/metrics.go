package blockchain

import (
	"sync"

	"github.com/clamcoin/clamnode/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusRetarget               *prometheus.HistogramVec
	prometheusDifficultyMismatch     prometheus.Counter
	prometheusCheckProofOfWork       prometheus.Counter
	prometheusCheckProofOfWorkFailed *prometheus.CounterVec
)

var (
	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusRetarget = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "blockchain",
			Name:      "retarget",
			Help:      "Histogram of next target calculations by retarget era",
			Buckets:   util.MetricsBucketsMicroSeconds,
		},
		[]string{"era"},
	)

	prometheusDifficultyMismatch = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "blockchain",
			Name:      "difficulty_mismatch",
			Help:      "Number of blocks rejected for carrying the wrong bits",
		},
	)

	prometheusCheckProofOfWork = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "blockchain",
			Name:      "check_proof_of_work",
			Help:      "Number of proof of work checks",
		},
	)

	prometheusCheckProofOfWorkFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blockchain",
			Name:      "check_proof_of_work_failed",
			Help:      "Number of failed proof of work checks by reason",
		},
		[]string{"reason"},
	)
}

package stake

import (
	"sync"

	"github.com/clamcoin/clamnode/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusStakeCheckProofOfStake prometheus.Histogram
	prometheusStakeKernelChecks      prometheus.Counter
	prometheusStakeKernelHits        prometheus.Counter
	prometheusStakeCoinAge           prometheus.Counter
	prometheusStakeRuleViolations    *prometheus.CounterVec
)

var (
	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusStakeCheckProofOfStake = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "stake",
			Name:      "check_proof_of_stake",
			Help:      "Histogram of coinstake validation",
			Buckets:   util.MetricsBucketsMicroSeconds,
		},
	)

	prometheusStakeKernelChecks = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "stake",
			Name:      "kernel_checks",
			Help:      "Number of stake kernel candidates checked",
		},
	)

	prometheusStakeKernelHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "stake",
			Name:      "kernel_hits",
			Help:      "Number of stake kernel candidates meeting the target",
		},
	)

	prometheusStakeCoinAge = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "stake",
			Name:      "coin_age",
			Help:      "Number of coin age calculations",
		},
	)

	prometheusStakeRuleViolations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stake",
			Name:      "rule_violations",
			Help:      "Number of failed stake checks by error code",
		},
		[]string{"code"},
	)
}

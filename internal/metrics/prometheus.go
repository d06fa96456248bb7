// Package metrics provides Prometheus exporters for application metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the click pipeline.
var (
	// Counters.
	ClicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clicks_total",
			Help: "Total number of click increments processed",
		},
		[]string{"status", "premium"},
	)

	CoolNumbersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cool_numbers_total",
			Help: "Total number of cool numbers detected",
		},
		[]string{"type", "rarity"},
	)

	CoinsGrantedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coins_granted_total",
			Help: "Total coins credited by the reward ledger",
		},
	)

	AchievementsUnlockedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "achievements_unlocked_total",
			Help: "Total achievements unlocked",
		},
		[]string{"condition_type"},
	)

	CasesOpenedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cases_opened_total",
			Help: "Total loot cases opened",
		},
		[]string{"status"},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clicks_rate_limited_total",
			Help: "Total click requests rejected by the rate limiter",
		},
	)

	RewardJobsDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reward_jobs_dropped_total",
			Help: "Reward evaluations dropped because the queue was full",
		},
	)

	// Gauges.
	GlobalCounterValue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "global_counter_value",
			Help: "Last observed value of the global click counter",
		},
	)

	RewardQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reward_queue_depth",
			Help: "Current depth of the async reward evaluation queue",
		},
	)

	// Histograms.
	RewardEvalDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reward_eval_duration_seconds",
			Help:    "Duration of a full reward evaluation pass",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)
)

// RecordClick records a processed click.
func RecordClick(status string, premium bool) {
	label := "false"
	if premium {
		label = "true"
	}
	ClicksTotal.WithLabelValues(status, label).Inc()
}

// RecordCoolNumber records a classifier hit.
func RecordCoolNumber(numberType, rarity string) {
	CoolNumbersTotal.WithLabelValues(numberType, rarity).Inc()
}

// RecordCoinsGranted adds credited coins to the running total.
func RecordCoinsGranted(coins int64) {
	CoinsGrantedTotal.Add(float64(coins))
}

// RecordAchievementUnlocked records an unlock by condition type.
func RecordAchievementUnlocked(conditionType string) {
	AchievementsUnlockedTotal.WithLabelValues(conditionType).Inc()
}

// RecordCaseOpened records a case opening attempt outcome.
func RecordCaseOpened(status string) {
	CasesOpenedTotal.WithLabelValues(status).Inc()
}

// SetGlobalCounter updates the last observed global counter gauge.
func SetGlobalCounter(count int64) {
	GlobalCounterValue.Set(float64(count))
}

// SetRewardQueueDepth updates the reward queue depth gauge.
func SetRewardQueueDepth(depth int) {
	RewardQueueDepth.Set(float64(depth))
}

// ObserveRewardEvalDuration records the duration of a reward evaluation pass.
func ObserveRewardEvalDuration(seconds float64) {
	RewardEvalDurationSeconds.Observe(seconds)
}

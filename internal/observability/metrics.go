package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	operationsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exercise_service",
		Subsystem: "store",
		Name:      "operations_total",
		Help:      "Exercise store operations by operation and outcome.",
	}, []string{"operation", "outcome"})

	lastWriteGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "exercise_service",
		Subsystem: "store",
		Name:      "last_write_timestamp_seconds",
		Help:      "Unix timestamp of the most recent committed exercise write.",
	})

	lastReadGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "exercise_service",
		Subsystem: "store",
		Name:      "last_read_timestamp_seconds",
		Help:      "Unix timestamp of the most recent exercise read.",
	})

	totalCaloriesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "exercise_service",
		Subsystem: "store",
		Name:      "total_calories_burned",
		Help:      "Calories burned across all exercises, as of the last total computation.",
	})

	invalidationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "exercise_service",
		Subsystem: "cache",
		Name:      "invalidation_failures_total",
		Help:      "Cache invalidation calls that returned an error.",
	})
)

func init() {
	prometheus.MustRegister(operationsCounter, lastWriteGauge, lastReadGauge, totalCaloriesGauge, invalidationFailures)
}

// RecordOperation counts a finished store operation.
func RecordOperation(operation, outcome string) {
	operationsCounter.WithLabelValues(operation, outcome).Inc()
}

// RecordWrite updates the write watermark.
func RecordWrite(ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastWriteGauge.Set(float64(ts.Unix()))
}

// RecordRead updates the read watermark.
func RecordRead(ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastReadGauge.Set(float64(ts.Unix()))
}

// RecordTotalCalories publishes the latest computed total.
func RecordTotalCalories(total float64) {
	totalCaloriesGauge.Set(total)
}

// RecordInvalidationFailure counts a failed cache invalidation.
func RecordInvalidationFailure() {
	invalidationFailures.Inc()
}

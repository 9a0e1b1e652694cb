package publish

import "github.com/prometheus/client_golang/prometheus"

var (
	publishedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exercise_service",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Change events written to Kafka, labeled by event type.",
	}, []string{"event_type"})

	publishFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exercise_service",
		Subsystem: "events",
		Name:      "publish_failed_total",
		Help:      "Change events that could not be encoded or written, labeled by event type.",
	}, []string{"event_type"})
)

func init() {
	prometheus.MustRegister(publishedCounter, publishFailed)
}

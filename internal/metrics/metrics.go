package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "buttonpoll"

// PollMetrics records vote handling. It satisfies poll.Recorder.
type PollMetrics struct {
	Votes          *prometheus.CounterVec
	Promotions     prometheus.Counter
	StoreFailures  *prometheus.CounterVec
	RejectedEvents *prometheus.CounterVec
	ProcessingTime prometheus.Histogram
}

func NewPollMetrics(reg prometheus.Registerer) *PollMetrics {
	f := promauto.With(reg)
	return &PollMetrics{
		Votes: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "votes_total",
				Help:      "Votes applied, by outcome",
			},
			[]string{"outcome"},
		),
		Promotions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promotions_total",
			Help:      "Polls moved from inline to external storage",
		}),
		StoreFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_errors_total",
				Help:      "Failed external store operations",
			},
			[]string{"op"},
		),
		RejectedEvents: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rejected_events_total",
				Help:      "Button presses that did not change a poll, by reason",
			},
			[]string{"reason"},
		),
		ProcessingTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "vote_processing_seconds",
			Help:      "Time from button press to updated message",
			// Dominated by the message edit round trip.
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		}),
	}
}

func (m *PollMetrics) ObserveVote(outcome string, elapsed time.Duration) {
	m.Votes.WithLabelValues(outcome).Inc()
	m.ProcessingTime.Observe(elapsed.Seconds())
}

func (m *PollMetrics) Promoted() {
	m.Promotions.Inc()
}

func (m *PollMetrics) StoreError(op string) {
	m.StoreFailures.WithLabelValues(op).Inc()
}

func (m *PollMetrics) Rejected(reason string) {
	m.RejectedEvents.WithLabelValues(reason).Inc()
}

// Package metrics exposes Prometheus collectors for the quiz session.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gokatarajesh/quiz-desk/internal/quiz"
)

const namespace = "quizdesk"

// Collectors groups the session's instruments.
type Collectors struct {
	FetchTotal     *prometheus.CounterVec
	FetchDuration  prometheus.Histogram
	SubmitTotal    *prometheus.CounterVec
	SubmitDuration prometheus.Histogram
	Selections     *prometheus.CounterVec
	LastScore      prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quiz_fetch_total",
			Help:      "Quiz fetches by result.",
		}, []string{"result"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quiz_fetch_duration_seconds",
			Help:      "Latency of quiz fetches.",
			Buckets:   prometheus.DefBuckets,
		}),
		SubmitTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Answer submissions by trigger and result.",
		}, []string{"trigger", "result"}),
		SubmitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_duration_seconds",
			Help:      "Latency of answer submissions.",
			Buckets:   prometheus.DefBuckets,
		}),
		Selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "option_selections_total",
			Help:      "Option activations by question kind.",
		}, []string{"kind"}),
		LastScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_score_percent",
			Help:      "Percentage correct of the most recent scored attempt.",
		}),
	}
	reg.MustRegister(c.FetchTotal, c.FetchDuration, c.SubmitTotal, c.SubmitDuration, c.Selections, c.LastScore)
	return c
}

func (c *Collectors) FetchDone(elapsed time.Duration, err error) {
	c.FetchTotal.WithLabelValues(result(err)).Inc()
	c.FetchDuration.Observe(elapsed.Seconds())
}

func (c *Collectors) SubmitDone(elapsed time.Duration, auto bool, err error) {
	trigger := "manual"
	if auto {
		trigger = "timer"
	}
	c.SubmitTotal.WithLabelValues(trigger, result(err)).Inc()
	c.SubmitDuration.Observe(elapsed.Seconds())
}

func (c *Collectors) Selection(multi bool) {
	kind := "single"
	if multi {
		kind = "multi"
	}
	c.Selections.WithLabelValues(kind).Inc()
}

func (c *Collectors) Scored(res quiz.ScoringResult) {
	c.LastScore.Set(float64(res.PercentageCorrect))
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

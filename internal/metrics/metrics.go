// Package metrics records typing activity as Prometheus metrics.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/verte-zerg/codetype/internal/corpus"
	"github.com/verte-zerg/codetype/internal/stats"
)

// Outcome labels.
const (
	OutcomePassed            = "passed"
	OutcomeBelowMin          = "below_min"
	OutcomeOK                = "ok"
	OutcomeNoFiles           = "no_files"
	OutcomeInsufficientWords = "insufficient_words"
	OutcomeError             = "error"
)

// Option applies a configuration option to the Recorder.
type Option func(*Recorder)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// WithRegistry sets the registry metrics are registered with and gathered from.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(r *Recorder) {
		if registry != nil {
			r.registry = registry
		}
	}
}

// Recorder holds the collectors for one process.
type Recorder struct {
	namespace string
	registry  *prometheus.Registry

	keystrokes    prometheus.Counter
	mistakes      prometheus.Counter
	rounds        *prometheus.CounterVec
	samples       *prometheus.CounterVec
	skippedPaths  prometheus.Counter
	roundWPM      prometheus.Histogram
	roundAccuracy prometheus.Histogram
}

// New creates a Recorder registered on a private registry unless one is given.
func New(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: "codetype",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.keystrokes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "keystrokes_total",
		Help:      "Characters pushed into typing sessions.",
	})
	r.mistakes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "mistakes_total",
		Help:      "Mistakes counted by typing sessions, including skipped characters.",
	})
	r.rounds = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "rounds_finished_total",
		Help:      "Finished rounds by whether they met the minimum accuracy.",
	}, []string{"outcome"})
	r.samples = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "samples_total",
		Help:      "Corpus sampling attempts by outcome.",
	}, []string{"outcome"})
	r.skippedPaths = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "skipped_paths_total",
		Help:      "Paths skipped while walking or reading the project.",
	})
	r.roundWPM = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "round_wpm",
		Help:      "Words per minute of finished rounds.",
		Buckets:   prometheus.LinearBuckets(10, 10, 15),
	})
	r.roundAccuracy = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "round_accuracy_percent",
		Help:      "Accuracy of finished rounds.",
		Buckets:   []float64{50, 70, 80, 90, 95, 98, 99, 100},
	})

	r.registry.MustRegister(
		r.keystrokes,
		r.mistakes,
		r.rounds,
		r.samples,
		r.skippedPaths,
		r.roundWPM,
		r.roundAccuracy,
	)
	return r
}

// Registry returns the registry backing the recorder.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Keystrokes adds n pushed characters.
func (r *Recorder) Keystrokes(n int) {
	if n > 0 {
		r.keystrokes.Add(float64(n))
	}
}

// Mistakes adds n mistakes.
func (r *Recorder) Mistakes(n int) {
	if n > 0 {
		r.mistakes.Add(float64(n))
	}
}

// RoundFinished records a finished round.
func (r *Recorder) RoundFinished(res stats.Result, passed bool) {
	outcome := OutcomePassed
	if !passed {
		outcome = OutcomeBelowMin
	}
	r.rounds.WithLabelValues(outcome).Inc()
	r.roundWPM.Observe(res.WPM)
	r.roundAccuracy.Observe(res.Accuracy)
}

// Sampled records a sampling attempt and the paths it skipped.
func (r *Recorder) Sampled(sample corpus.Sample, err error) {
	r.samples.WithLabelValues(SampleOutcome(err)).Inc()
	if n := len(sample.Skipped); n > 0 {
		r.skippedPaths.Add(float64(n))
	}
}

// SampleOutcome maps a sampling error to its outcome label.
func SampleOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, corpus.ErrNoFilesFound):
		return OutcomeNoFiles
	case errors.Is(err, corpus.ErrInsufficientWords):
		return OutcomeInsufficientWords
	default:
		return OutcomeError
	}
}

// WriteTextfile writes all metrics in the text exposition format, suitable
// for the node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

package treeglow

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"libdb.so/treeglow/internal/xmas"
)

var _ prometheus.Collector = (*Metrics)(nil)

// Metrics are the Prometheus metrics of the daemon.
type Metrics struct {
	changes        prometheus.Counter
	commitErrors   prometheus.Counter
	commitDuration prometheus.Histogram
	pixels         *prometheus.GaugeVec
}

// NewMetrics creates the daemon metrics. Register them with a
// prometheus.Registerer to export them.
func NewMetrics() *Metrics {
	return &Metrics{
		changes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "treeglow_pattern_changes_total",
			Help: "Number of times the pattern was redrawn.",
		}),
		commitErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "treeglow_commit_errors_total",
			Help: "Number of frames the output failed to display.",
		}),
		commitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "treeglow_commit_duration_seconds",
			Help:    "Time taken to push a frame to the output.",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1},
		}),
		pixels: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "treeglow_pixels",
			Help: "Number of pixels of each color in the current pattern.",
		}, []string{"strip", "color"}),
	}
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.changes.Describe(ch)
	m.commitErrors.Describe(ch)
	m.commitDuration.Describe(ch)
	m.pixels.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.changes.Collect(ch)
	m.commitErrors.Collect(ch)
	m.commitDuration.Collect(ch)
	m.pixels.Collect(ch)
}

func (m *Metrics) observePattern(dist xmas.Distribution, hs []xmas.Histogram) {
	if m == nil {
		return
	}
	for i, h := range hs {
		strip := strconv.Itoa(i)
		for j, n := range h.Counts {
			m.pixels.WithLabelValues(strip, dist[j].Name).Set(float64(n))
		}
	}
}

func (m *Metrics) observeChange() {
	if m != nil {
		m.changes.Inc()
	}
}

func (m *Metrics) observeCommit(took time.Duration, err error) {
	if m == nil {
		return
	}
	m.commitDuration.Observe(took.Seconds())
	if err != nil {
		m.commitErrors.Inc()
	}
}

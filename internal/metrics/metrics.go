// Package metrics exports search progress to Prometheus.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/njchilds90/intbound"
)

// Observer implements intbound.Observer on a set of Prometheus collectors.
// It is safe for concurrent use.
type Observer struct {
	steps    *prometheus.CounterVec
	searches *prometheus.CounterVec
	duration *prometheus.HistogramVec
	shift    *prometheus.HistogramVec
}

var _ intbound.Observer = (*Observer)(nil)

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Observer {
	f := promauto.With(reg)
	return &Observer{
		steps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "intbound_search_steps_total",
			Help: "Search iterations by family and outcome",
		}, []string{"family", "outcome"}),
		searches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "intbound_searches_total",
			Help: "Finished searches by family and result class",
		}, []string{"family", "result"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "intbound_search_duration_seconds",
			Help:    "Wall time of one search",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"family"}),
		shift: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "intbound_certificate_shift",
			Help:    "Shift of the certificates found",
			Buckets: prometheus.LinearBuckets(0, 4, 17),
		}, []string{"family"}),
	}
}

func (o *Observer) Step(family string, _ int, outcome intbound.StepOutcome) {
	o.steps.WithLabelValues(familyLabel(family), string(outcome)).Inc()
}

func (o *Observer) Finished(family string, cert *intbound.Certificate, err error, elapsed time.Duration) {
	family = familyLabel(family)
	result := "certified"
	if err != nil {
		result = string(intbound.Classify(err))
	}
	o.searches.WithLabelValues(family, result).Inc()
	o.duration.WithLabelValues(family).Observe(elapsed.Seconds())
	if cert != nil {
		o.shift.WithLabelValues(family).Observe(float64(cert.Shift))
	}
}

// familyLabel folds parameterized keywords onto their pattern so that label
// cardinality stays bounded.
func familyLabel(id string) string {
	for _, prefix := range []string{"e_power_pi_", "pi_power_", "e_power_"} {
		if strings.HasPrefix(id, prefix) && id != "e_power_pi" {
			return prefix + "*"
		}
	}
	return id
}

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer is the process wide metrics collector for the clustering engine.
var Observer = &Metrics{
	mutex:      new(sync.RWMutex),
	prometheus: NewPrometheusMetrics(),
}

func init() {
	prometheus.MustRegister(Observer.prometheus.Fits)
	prometheus.MustRegister(Observer.prometheus.ConvergenceCaps)
	prometheus.MustRegister(Observer.prometheus.Cache)
}

type Metrics struct {
	mutex      *sync.RWMutex
	prometheus Prometheus
}

// IncrementFit counts one model fit for the given algorithm.
func (m *Metrics) IncrementFit(algorithm string) {
	m.prometheus.Fits.WithLabelValues(algorithm).Inc()
}

// IncrementConvergenceCap counts one centroid fit that hit the iteration cap.
func (m *Metrics) IncrementConvergenceCap() {
	m.prometheus.ConvergenceCaps.Inc()
}

// IncrementCache counts one model cache lookup.
func (m *Metrics) IncrementCache(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.prometheus.Cache.WithLabelValues(outcome).Inc()
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus bundles the prometheus collectors of the engine.
type Prometheus struct {
	Fits            *prometheus.CounterVec
	ConvergenceCaps prometheus.Counter
	Cache           *prometheus.CounterVec
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Fits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aid_cluster",
			Name:      "fits_total",
			Help:      "Number of model fits per clustering algorithm.",
		}, []string{"algorithm"}),
		ConvergenceCaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aid_cluster",
			Name:      "convergence_caps_total",
			Help:      "Number of centroid fits that hit the iteration cap.",
		}),
		Cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aid_cluster",
			Name:      "model_cache_lookups_total",
			Help:      "Model cache lookups by outcome.",
		}, []string{"outcome"}),
	}
}

package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/pidball/internal/metrics"
)

// DefaultStabilityBand is the tracking error band counted as stable.
const DefaultStabilityBand = 0.02

type Registry struct {
	metrics map[string]func() metrics.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func() metrics.Metric),
	}

	r.metrics["iae"] = func() metrics.Metric { return metrics.NewIAE() }
	r.metrics["control_effort"] = func() metrics.Metric { return metrics.NewControlEffort() }
	r.metrics["stability"] = func() metrics.Metric { return metrics.NewStability(DefaultStabilityBand) }
	r.metrics["overshoot"] = func() metrics.Metric { return metrics.NewOvershoot() }

	return r
}

func (r *Registry) GetMetric(name string) (metrics.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns fresh instances of every registered metric.
func (r *Registry) DefaultMetrics() []metrics.Metric {
	out := make([]metrics.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name]())
	}
	return out
}

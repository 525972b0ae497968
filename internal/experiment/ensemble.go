package experiment

import (
	"context"
	"sort"

	"github.com/san-kum/pidball/internal/config"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Ensemble runs the same configuration with consecutive seeds, one
// Simulation per goroutine. Runs are always offline.
type Ensemble struct {
	cfg       config.Config
	numRuns   int
	seedStart uint64
	workers   int
	log       logrus.FieldLogger
	registry  *Registry
}

func NewEnsemble(cfg config.Config, numRuns int, seedStart uint64, log logrus.FieldLogger) *Ensemble {
	return &Ensemble{
		cfg:       cfg,
		numRuns:   numRuns,
		seedStart: seedStart,
		log:       log,
		registry:  NewRegistry(),
	}
}

// SetWorkers bounds the number of concurrent runs. Zero means unbounded.
func (e *Ensemble) SetWorkers(n int) { e.workers = n }

// Summary holds per-metric statistics over all runs.
type Summary struct {
	Runs    int
	Metrics map[string]Stats
}

type Stats struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Median float64
}

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	if e.workers > 0 {
		g.SetLimit(e.workers)
	}
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			cfg := e.cfg
			cfg.Seed = e.seedStart + uint64(i)

			exp := New(Config{Sim: cfg}, e.log.WithField("seed", cfg.Seed))
			for _, m := range e.registry.DefaultMetrics() {
				exp.AddMetric(m)
			}

			res, err := exp.Run(ctx)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func Summarize(results []*Result) Summary {
	sum := Summary{Runs: len(results), Metrics: make(map[string]Stats)}
	if len(results) == 0 {
		return sum
	}

	for name := range results[0].Metrics {
		vals := make([]float64, 0, len(results))
		for _, r := range results {
			vals = append(vals, r.Metrics[name])
		}
		sort.Float64s(vals)

		mean, std := stat.MeanStdDev(vals, nil)
		sum.Metrics[name] = Stats{
			Mean:   mean,
			StdDev: std,
			Min:    vals[0],
			Max:    vals[len(vals)-1],
			Median: stat.Quantile(0.5, stat.Empirical, vals, nil),
		}
	}
	return sum
}

package optim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"

	"github.com/san-kum/pidball/internal/config"
	"github.com/san-kum/pidball/internal/experiment"
	"github.com/san-kum/pidball/internal/panel"
	"github.com/sirupsen/logrus"
)

var ErrNoCandidates = errors.New("optim: empty search grid")

// BuildFunc creates a ready-to-run experiment for one point of the grid.
type BuildFunc func(params map[string]float64) (*experiment.Experiment, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	maximize   bool
	evaluated  int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// SetMaximize flips the objective; metrics such as stability are better when
// larger.
func (g *GridSearch) SetMaximize(v bool) { g.maximize = v }

// Evaluated reports how many grid points the last Search ran.
func (g *GridSearch) Evaluated() int { return g.evaluated }

// Search runs every point of the cartesian grid and returns the parameters
// with the best value of metricName.
func (g *GridSearch) Search(ctx context.Context, build BuildFunc, metricName string) (map[string]float64, float64, error) {
	if len(g.paramNames) == 0 || len(g.paramNames) != len(g.ranges) {
		return nil, 0, ErrNoCandidates
	}
	for _, r := range g.ranges {
		if len(r) == 0 {
			return nil, 0, ErrNoCandidates
		}
	}

	g.evaluated = 0
	best := math.Inf(1)
	if g.maximize {
		best = math.Inf(-1)
	}
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), build, metricName, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build BuildFunc,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		exp, err := build(current)
		if err != nil {
			return err
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}
		g.evaluated++

		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("optim: experiment does not report %q", metricName)
		}
		if g.better(val, *best) || *bestParams == nil {
			*best = val
			*bestParams = maps.Clone(current)
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := maps.Clone(current)
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, build, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) better(val, best float64) bool {
	if g.maximize {
		return val > best
	}
	return val < best
}

// Builder returns a BuildFunc that starts every experiment from base, applies
// the grid point as configuration messages and records metricName.
func Builder(base config.Config, metricName string, log logrus.FieldLogger) BuildFunc {
	registry := experiment.NewRegistry()
	return func(params map[string]float64) (*experiment.Experiment, error) {
		m, err := registry.GetMetric(metricName)
		if err != nil {
			return nil, err
		}

		exp := experiment.New(experiment.Config{Sim: base}, log)
		fields := logrus.Fields{}
		for name, v := range params {
			fields[name] = v
			msg, err := panel.ParamMessage(name, float32(v))
			if err != nil {
				return nil, err
			}
			exp.Simulation().Config(msg)
		}
		exp.AddMetric(m)

		log.WithFields(fields).Debug("grid point")
		return exp, nil
	}
}

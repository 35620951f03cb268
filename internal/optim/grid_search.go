// Package optim searches config parameters for the run that minimizes a
// metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/anomaly/internal/config"
	"github.com/san-kum/anomaly/internal/experiment"
)

var ErrNoCandidate = errors.New("optim: no grid point produced the metric")

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(params), len(ranges))
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Points is the number of runs Search makes.
func (g *GridSearch) Points() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs every grid point on a copy of base for frames frames and
// returns the parameters with the smallest final value of metricName.
// Points that fail to build or run are skipped.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, frames int, metricName string) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64

	build := func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		if err := cfg.SetParams(params); err != nil {
			return nil, err
		}
		return experiment.New(cfg), nil
	}
	g.searchRecursive(ctx, 0, make(map[string]float64), build, frames, metricName, &best, &bestParams)

	if err := ctx.Err(); err != nil {
		return bestParams, best, err
	}
	if bestParams == nil {
		return nil, best, fmt.Errorf("%w: %s", ErrNoCandidate, metricName)
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	frames int,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) {
	if ctx.Err() != nil {
		return
	}
	if depth == len(g.paramNames) {
		exp, err := buildExperiment(current)
		if err != nil {
			return
		}

		result, err := exp.Run(ctx, frames)
		if err != nil || len(result.Errors) > 0 {
			return
		}

		val, ok := result.Metrics[metricName]
		if ok && val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, newParams, buildExperiment, frames, metricName, best, bestParams)
	}
}

package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/wavesim/internal/automation"
	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/experiment"
)

var ErrNoCandidate = errors.New("optim: no parameter combination completed")

// GridSearch tries every combination of parameter values and keeps the one
// that minimizes a metric. Parameter names use automation.SetParam keys.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// ParseAxis reads "key=min:max:n" into a name and n evenly spaced values.
func ParseAxis(s string) (string, []float64, error) {
	key, spec, ok := strings.Cut(s, "=")
	if !ok {
		return "", nil, fmt.Errorf("axis %q: want key=min:max:n", s)
	}
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("axis %q: want key=min:max:n", s)
	}
	lo, err1 := strconv.ParseFloat(parts[0], 64)
	hi, err2 := strconv.ParseFloat(parts[1], 64)
	n, err3 := strconv.Atoi(parts[2])
	if err := errors.Join(err1, err2, err3); err != nil {
		return "", nil, fmt.Errorf("axis %q: %w", s, err)
	}
	if n < 1 {
		return "", nil, fmt.Errorf("axis %q: need at least one value", s)
	}

	values := make([]float64, n)
	for i := range values {
		if n == 1 {
			values[i] = lo
			continue
		}
		values[i] = lo + float64(i)*(hi-lo)/float64(n-1)
	}
	return key, values, nil
}

// Search runs base once per combination. Runs that fail or diverge are
// skipped; metricName must be reported by the experiment.
func (g *GridSearch) Search(
	ctx context.Context,
	base *config.Config,
	registry *experiment.Registry,
	metricName string,
) (map[string]float64, float64, error) {

	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, registry, metricName, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, ErrNoCandidate
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	registry *experiment.Registry,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		cfg := base.Clone()
		for k, v := range current {
			if err := automation.SetParam(cfg, k, v); err != nil {
				return err
			}
		}

		exp, err := experiment.New(cfg, registry)
		if err != nil {
			return nil
		}
		result, err := exp.Run(ctx, nil)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("optim: unknown metric %q", metricName)
		}
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, registry, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// Package handicap maps two players' ratings to the asymmetric point
// targets each must reach to win a race, using a static chart keyed by
// absolute rating differential.
package handicap

import (
	"errors"
	"fmt"
	"sort"

	"pool-league/internal/models"
)

// ErrEmptyChart indicates a missing or empty race chart. This is a
// configuration error: the server refuses to start rather than score
// matches with no targets.
var ErrEmptyChart = errors.New("handicap chart is empty")

// Chart maps a rating differential to the (higher-rated, lower-rated)
// point targets for that differential.
type Chart map[int][2]int

// PointsChart is the league race-to-points chart. Both disciplines race to
// points with a per-game cap, so both use this chart. Differentials beyond
// the last key resolve to the nearest entry.
var PointsChart = Chart{
	0: {28, 28}, 25: {28, 25}, 50: {31, 28}, 75: {35, 28}, 100: {38, 25},
	125: {42, 25}, 150: {46, 25}, 175: {50, 25}, 200: {50, 19}, 250: {57, 19},
	300: {65, 19}, 350: {65, 14}, 400: {65, 10},
}

type Resolver struct {
	charts map[models.Discipline]Chart
	// sorted differential keys per discipline, fixed at construction
	keys map[models.Discipline][]int
}

// NewResolver builds a resolver from per-discipline charts. Every known
// discipline must have a non-empty chart.
func NewResolver(charts map[models.Discipline]Chart) (*Resolver, error) {
	r := &Resolver{
		charts: charts,
		keys:   make(map[models.Discipline][]int, len(charts)),
	}
	for _, d := range []models.Discipline{models.EightBall, models.NineBall} {
		chart := charts[d]
		if len(chart) == 0 {
			return nil, fmt.Errorf("discipline %s: %w", d, ErrEmptyChart)
		}
		keys := make([]int, 0, len(chart))
		for k := range chart {
			keys = append(keys, k)
		}
		sort.Ints(keys)
		r.keys[d] = keys
	}
	return r, nil
}

// NewDefaultResolver returns a resolver with the stock league charts.
func NewDefaultResolver() (*Resolver, error) {
	return NewResolver(map[models.Discipline]Chart{
		models.EightBall: PointsChart,
		models.NineBall:  PointsChart,
	})
}

// Resolve returns the point targets for players A and B. The larger target
// goes to the strictly higher-rated player; equal ratings get equal
// targets. The chart key nearest to |ratingA - ratingB| is used; when two
// keys are equally distant, the smaller key wins (keys are scanned in
// ascending order and only a strictly closer key replaces the candidate).
func (r *Resolver) Resolve(d models.Discipline, ratingA, ratingB int) (targetA, targetB int, err error) {
	chart, ok := r.charts[d]
	if !ok || len(chart) == 0 {
		return 0, 0, fmt.Errorf("discipline %s: %w", d, ErrEmptyChart)
	}

	diff := ratingA - ratingB
	if diff < 0 {
		diff = -diff
	}

	keys := r.keys[d]
	closest := keys[0]
	for _, k := range keys[1:] {
		if abs(k-diff) < abs(closest-diff) {
			closest = k
		}
	}

	race := chart[closest]
	if ratingA > ratingB {
		return race[0], race[1], nil
	}
	if ratingB > ratingA {
		return race[1], race[0], nil
	}
	// symmetric fallback: equal ratings race to the same target
	return race[0], race[0], nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

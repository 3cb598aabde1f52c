/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/samber/lo"
)

// Stats summarises repeated runs of one strategy on the same pool.
type Stats struct {
	Strategy Strategy
	Runs     int
	Elapsed  time.Duration
	Min      float64
	Max      float64
	Mean     float64
	Median   float64
}

func (s Stats) String() string {
	return fmt.Sprintf("%-13v runs=%d time=%v min=%.1f max=%.1f mean=%.1f median=%.1f",
		s.Strategy, s.Runs, s.Elapsed, s.Min, s.Max, s.Mean, s.Median)
}

// Compare runs each strategy runs times on players and reports the spread
// of total costs. Every strategy draws from its own stream of seed.
func (e *Engine) Compare(players []Player, strategies []Strategy, runs int,
	seed uint64) ([]Stats, error) {

	if runs <= 0 {
		return nil, fmt.Errorf("pairing: runs must be positive, got %v", runs)
	}

	out := make([]Stats, 0, len(strategies))
	for _, s := range strategies {
		rng := rand.New(rand.NewPCG(seed, uint64(s)))
		totals := make([]float64, 0, runs)

		start := time.Now()
		for range runs {
			round, err := e.PairWith(players, rng, s)
			if err != nil {
				return nil, fmt.Errorf("%v: %w", s, err)
			}
			total, err := e.TotalCost(players, round)
			if err != nil {
				return nil, err
			}
			totals = append(totals, total)
		}
		out = append(out, summarize(s, totals, time.Since(start)))
	}
	return out, nil
}

func summarize(s Strategy, totals []float64, elapsed time.Duration) Stats {
	slices.Sort(totals)
	st := Stats{
		Strategy: s,
		Runs:     len(totals),
		Elapsed:  elapsed,
		Min:      totals[0],
		Max:      totals[len(totals)-1],
	}
	st.Mean = lo.Sum(totals) / float64(len(totals))
	mid := len(totals) / 2
	if len(totals)%2 == 0 {
		st.Median = (totals[mid-1] + totals[mid]) / 2
	} else {
		st.Median = totals[mid]
	}
	return st
}

/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import (
	"math"
	"math/rand/v2"
)

// slot is one board during the search, holding indexes into the pool. -1
// marks the bye; at most one slot of a state contains it.
type slot struct {
	white int
	black int
}

const bye = -1

// random pairs neighbours of a shuffled pool. The last player of an odd
// pool gets the bye.
func random(n int, rng *rand.Rand) []slot {
	order := rng.Perm(n)
	state := make([]slot, 0, (n+1)/2)
	for i := 0; i < n; i += 2 {
		s := slot{white: order[i], black: bye}
		if i+1 < n {
			s.black = order[i+1]
		}
		state = append(state, s)
	}
	return state
}

// greedy walks a shuffled pool and gives every unpaired player the
// cheapest remaining opponent, judged from that player's side. Ties go to
// whoever comes first in the shuffle. A player left with nobody gets the
// bye.
func greedy(c costs, rng *rand.Rand) []slot {
	order := rng.Perm(c.n)
	used := make([]bool, c.n)
	state := make([]slot, 0, (c.n+1)/2)

	for _, p := range order {
		if used[p] {
			continue
		}
		used[p] = true

		best, bestCost := bye, math.Inf(1)
		for _, q := range order {
			if used[q] {
				continue
			}
			if cost := c.directed(p, q); cost < bestCost {
				best, bestCost = q, cost
			}
		}
		if best != bye {
			used[best] = true
		}
		state = append(state, slot{white: p, black: best})
	}
	return state
}

// move swaps the white occupant of slot i with one occupant of slot j.
type move struct {
	i, j      int
	withBlack bool
}

func (m move) apply(state []slot) (slot, slot) {
	si, sj := state[m.i], state[m.j]
	if m.withBlack {
		return slot{white: sj.black, black: si.black}, slot{white: sj.white, black: si.white}
	}
	return slot{white: sj.white, black: si.black}, slot{white: si.white, black: sj.black}
}

// climb repeatedly applies the single best swap until no swap lowers the
// total cost. Only the two touched slots change, so a move is judged on
// their local sum. It works on state in place and returns the number of
// moves made, or ErrOptimizationBudgetExceeded once maxSteps moves have
// not been enough to reach a local minimum.
func climb(c costs, state []slot, maxSteps int) (int, error) {
	for steps := 0; ; steps++ {
		var (
			best     move
			bestGain float64
			found    bool
		)
		for i := 1; i < len(state); i++ {
			for j := 0; j < i; j++ {
				before := c.board(state[i]) + c.board(state[j])
				for _, withBlack := range [2]bool{false, true} {
					m := move{i: i, j: j, withBlack: withBlack}
					a, b := m.apply(state)
					gain := before - (c.board(a) + c.board(b))
					if gain > improvement(before) && gain > bestGain {
						best, bestGain, found = m, gain, true
					}
				}
			}
		}
		if !found {
			return steps, nil
		}
		if steps >= maxSteps {
			return steps, ErrOptimizationBudgetExceeded
		}
		state[best.i], state[best.j] = best.apply(state)
	}
}

// improvement is the smallest gain worth a move. It keeps rounding noise
// between equal-cost arrangements from counting as progress.
func improvement(before float64) float64 {
	return 1e-12 * (1 + before)
}

/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package glicko

import "math"

// state is a rating on the internal Glicko-2 scale.
type state struct {
	mu    float64
	phi   float64
	sigma float64
}

// scale is the public rating points per internal unit.
func (c Config) scale() float64 {
	return c.InitialDeviation / paperDeviation
}

func (c Config) toInternal(v Values) state {
	s := c.scale()
	return state{
		mu:    (v.Rating - c.InitialRating) / s,
		phi:   v.Deviation / s,
		sigma: v.Volatility,
	}
}

func (c Config) fromInternal(st state) Values {
	s := c.scale()
	return Values{
		Rating:     st.mu*s + c.InitialRating,
		Deviation:  st.phi * s,
		Volatility: st.sigma,
	}
}

// g dampens the weight of a result against an uncertain opponent.
func g(phi float64) float64 {
	return 1 / math.Sqrt(1+3*phi*phi/(math.Pi*math.Pi))
}

// expect is the expected score of mu against an opponent at (muJ, phiJ).
func expect(mu, muJ, phiJ float64) float64 {
	return 1 / (1 + math.Exp(-g(phiJ)*(mu-muJ)))
}

// sitOut is the rating period rule for a rated player with no games: only
// the uncertainty grows.
func (st state) sitOut() state {
	st.phi = math.Sqrt(st.phi*st.phi + st.sigma*st.sigma)
	return st
}

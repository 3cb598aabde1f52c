/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package glicko

import (
	"fmt"
	"math"
)

// newVolatility solves step 5 of the Glicko-2 procedure: the root of f by
// the Illinois variant of regula falsi, as in Glickman's paper.
func (c Config) newVolatility(phi, sigma, v, delta float64) (float64, error) {
	a := math.Log(sigma * sigma)
	tau2 := c.Tau * c.Tau
	phi2 := phi * phi
	f := func(x float64) float64 {
		ex := math.Exp(x)
		d := phi2 + v + ex
		return ex*(delta*delta-phi2-v-ex)/(2*d*d) - (x-a)/tau2
	}

	A := a
	var B float64
	if delta*delta > phi2+v {
		B = math.Log(delta*delta - phi2 - v)
	} else {
		k := 1
		for f(a-float64(k)*c.Tau) < 0 {
			k++
			if k > c.MaxIterations {
				return 0, fmt.Errorf("%w: no lower bracket after %v steps", ErrConvergenceFailure, k)
			}
		}
		B = a - float64(k)*c.Tau
	}

	fA, fB := f(A), f(B)
	for i := 0; math.Abs(B-A) > c.Tolerance; i++ {
		if i >= c.MaxIterations {
			return 0, fmt.Errorf("%w: |B-A| = %v after %v iterations", ErrConvergenceFailure,
				math.Abs(B-A), i)
		}
		C := A + (A-B)*fA/(fB-fA)
		fC := f(C)
		if math.IsNaN(C) || math.IsNaN(fC) {
			return 0, fmt.Errorf("%w: iteration diverged at step %v", ErrConvergenceFailure, i)
		}
		if fC*fB <= 0 {
			A, fA = B, fB
		} else {
			fA /= 2
		}
		B, fB = C, fC
	}

	return math.Exp(A / 2), nil
}

/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package glicko implements a Glicko-2 rating period whose public scale is
// re-centred on a configurable initial rating and deviation.
package glicko

import (
	"fmt"
	"math"
)

// Values are the three numbers of a rated player, on the public scale.
type Values struct {
	Rating     float64
	Deviation  float64
	Volatility float64
}

// Rating is either Unrated or fully rated. The zero value is Unrated.
type Rating struct {
	v     Values
	rated bool
}

// Unrated returns the rating of a player who has never played a rated game.
func Unrated() Rating {
	return Rating{}
}

// Rated builds a rated value. All fields must be finite, the deviation
// non-negative and the volatility positive.
func Rated(v Values) (Rating, error) {
	if err := v.validate(); err != nil {
		return Rating{}, err
	}
	return Rating{v: v, rated: true}, nil
}

// MustRated is Rated for values known to be valid; it panics otherwise.
func MustRated(rating, deviation, volatility float64) Rating {
	r, err := Rated(Values{Rating: rating, Deviation: deviation, Volatility: volatility})
	if err != nil {
		panic(err)
	}
	return r
}

// Values returns the numbers of a rated player; ok is false for Unrated.
func (r Rating) Values() (v Values, ok bool) {
	return r.v, r.rated
}

// IsRated reports whether r carries numeric values.
func IsRated(r Rating) bool {
	return r.rated
}

func (r Rating) String() string {
	if !r.rated {
		return "unrated"
	}
	return fmt.Sprintf("%.0f±%.0f", r.v.Rating, r.v.Deviation)
}

func (v Values) validate() error {
	for _, f := range []float64{v.Rating, v.Deviation, v.Volatility} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("glicko: non-finite rating values %+v", v)
		}
	}
	if v.Deviation < 0 {
		return fmt.Errorf("glicko: negative deviation %v", v.Deviation)
	}
	if v.Volatility <= 0 {
		return fmt.Errorf("glicko: volatility must be positive, got %v", v.Volatility)
	}
	return nil
}

/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package glicko

import (
	"errors"
	"fmt"
	"math"

	"github.com/theGerk/RSI-ChessClub/chess"
)

var (
	// ErrInvalidGame is returned for self play, bad results and games that
	// reference a player missing from the ratings passed in.
	ErrInvalidGame = chess.ErrInvalidGame

	// ErrConvergenceFailure means the volatility iteration did not settle
	// within the configured iteration budget. It indicates broken input.
	ErrConvergenceFailure = errors.New("volatility did not converge")
)

const (
	// paperScale converts between the Glicko and Glicko-2 scales.
	paperScale = 173.7178
	// paperDeviation is an unrated player's deviation on the Glicko-2 scale.
	paperDeviation = 350 / paperScale
)

// Config holds the system constants of the rating engine.
type Config struct {
	// InitialRating and InitialDeviation are the public values given to a
	// player the first time they play; they also fix the conversion to the
	// internal Glicko-2 scale.
	InitialRating     float64
	InitialDeviation  float64
	InitialVolatility float64

	// Tau constrains the change in volatility over time.
	Tau float64

	// Tolerance and MaxIterations bound the volatility iteration.
	Tolerance     float64
	MaxIterations int
}

// DefaultConfig returns the club's defaults: 1500/350/0.06 and τ = 0.5.
func DefaultConfig() Config {
	return Config{
		InitialRating:     1500,
		InitialDeviation:  350,
		InitialVolatility: 0.06,
		Tau:               0.5,
		Tolerance:         1e-6,
		MaxIterations:     1000,
	}
}

func (c Config) validate() error {
	switch {
	case math.IsNaN(c.InitialRating) || math.IsInf(c.InitialRating, 0):
		return fmt.Errorf("glicko: initial rating %v is not finite", c.InitialRating)
	case !(c.InitialDeviation > 0):
		return fmt.Errorf("glicko: initial deviation must be positive, got %v", c.InitialDeviation)
	case !(c.InitialVolatility > 0):
		return fmt.Errorf("glicko: initial volatility must be positive, got %v", c.InitialVolatility)
	case !(c.Tau > 0):
		return fmt.Errorf("glicko: tau must be positive, got %v", c.Tau)
	case !(c.Tolerance > 0):
		return fmt.Errorf("glicko: tolerance must be positive, got %v", c.Tolerance)
	case c.MaxIterations <= 0:
		return fmt.Errorf("glicko: max iterations must be positive, got %v", c.MaxIterations)
	}
	return nil
}

// Initial returns the rating given to a player entering their first game.
func (c Config) Initial() Rating {
	return Rating{
		v: Values{
			Rating:     c.InitialRating,
			Deviation:  c.InitialDeviation,
			Volatility: c.InitialVolatility,
		},
		rated: true,
	}
}

/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package pairing assigns opponents for one round. A round is a near
// minimum-cost perfect matching of the pool, built greedily from a shuffled
// start and then refined by hill climbing over single-player swaps.
package pairing

import (
	"errors"
	"fmt"
	"math"

	"github.com/theGerk/RSI-ChessClub/chess"
	"github.com/theGerk/RSI-ChessClub/glicko"
)

var (
	// ErrDuplicatePlayer means the same id was given twice to one pairing
	// call, within a pool or across pools.
	ErrDuplicatePlayer = errors.New("duplicate player")

	// ErrOptimizationBudgetExceeded means the hill climb accepted more
	// improving moves than Config.MaxSteps allows.
	ErrOptimizationBudgetExceeded = errors.New("optimization budget exceeded")
)

// Player is what the engine needs to know about one pool member.
type Player struct {
	ID      chess.PlayerID
	Name    string
	Rating  glicko.Rating
	History chess.History
}

// Pairing is one board of a round. A bye leaves Black empty; the player
// receiving the bye is always on White.
type Pairing struct {
	White chess.PlayerID
	Black chess.PlayerID
}

// IsBye reports whether the pairing is a bye.
func (p Pairing) IsBye() bool {
	return p.Black == ""
}

func (p Pairing) String() string {
	if p.IsBye() {
		return fmt.Sprintf("%v BYE", p.White)
	}
	return fmt.Sprintf("%v-%v", p.White, p.Black)
}

// Config holds the cost function's constants and the search budget.
type Config struct {
	// K is the base of the rematch penalty; higher values make recent
	// opponents more expensive.
	K float64
	// Epsilon is added to every rating gap so that equally rated players
	// still pay for a rematch.
	Epsilon float64
	// MaxSteps bounds the number of improving moves of one hill climb.
	MaxSteps int
}

// DefaultConfig returns K = 100, Epsilon = 1 and a generous step budget.
func DefaultConfig() Config {
	return Config{
		K:        100,
		Epsilon:  1,
		MaxSteps: 10000,
	}
}

func (c Config) validate() error {
	switch {
	case !(c.K >= 1) || math.IsInf(c.K, 0):
		return fmt.Errorf("pairing: K must be a finite value >= 1, got %v", c.K)
	case !(c.Epsilon > 0) || math.IsInf(c.Epsilon, 0):
		return fmt.Errorf("pairing: epsilon must be a finite positive value, got %v", c.Epsilon)
	case c.MaxSteps <= 0:
		return fmt.Errorf("pairing: max steps must be positive, got %v", c.MaxSteps)
	}
	return nil
}

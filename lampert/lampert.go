/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package lampert implements the club's original fixed-swing rating: every
// decisive game moves 50 points give or take a tenth of the rating gap, and
// a draw pulls the two ratings together by that tenth.
package lampert

import (
	"fmt"
	"math"

	"github.com/theGerk/RSI-ChessClub/chess"
)

const (
	// InitialRating is the rating a new member starts from.
	InitialRating Rating = 1500

	ratio     = 0.1
	baseSwing = 50
	maxSwing  = 100
	minSwing  = 1
)

// Rating is a Lampert rating.
type Rating float64

// difference is a tenth of the rating gap, rounded down.
func difference(a, b Rating) float64 {
	return math.Floor(math.Abs(float64(a-b)) * ratio)
}

// Swing returns how many points move from loser to winner (or, for a draw,
// from the higher rated player to the lower rated one).
func Swing(winner, loser Rating, draw bool) float64 {
	diff := difference(winner, loser)
	switch {
	case draw:
		return math.Max(math.Min(diff, maxSwing), minSwing)
	case winner > loser:
		return math.Max(baseSwing-diff, minSwing)
	default:
		return math.Min(baseSwing+diff, maxSwing)
	}
}

// Match applies a single game to both ratings. result is from white's
// perspective.
func Match(white, black *Rating, result float64) error {
	switch result {
	case chess.Win, chess.Loss:
		winner, loser := white, black
		if result == chess.Loss {
			winner, loser = black, white
		}
		s := Rating(Swing(*winner, *loser, false))
		*winner += s
		*loser -= s
	case chess.Draw:
		higher, lower := black, white
		if *white > *black {
			higher, lower = white, black
		}
		s := Rating(Swing(*higher, *lower, true))
		*higher -= s
		*lower += s
	default:
		return fmt.Errorf("%w: result %v, only 0, 0.5 and 1 are allowed", chess.ErrInvalidGame, result)
	}
	return nil
}

// UpdatePeriod applies games in order. Every game is validated up front and
// on error no rating is modified.
func UpdatePeriod(games []chess.Game, ratings map[chess.PlayerID]*Rating) error {
	for _, g := range games {
		if err := g.Validate(); err != nil {
			return err
		}
		if ratings[g.White] == nil || ratings[g.Black] == nil {
			return fmt.Errorf("%w: unknown player in %v", chess.ErrInvalidGame, g)
		}
	}
	for _, g := range games {
		if err := Match(ratings[g.White], ratings[g.Black], g.Result); err != nil {
			return err
		}
	}
	return nil
}

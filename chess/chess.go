/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package chess holds the records shared by the rating and pairing engines:
// player identity, game results and per-player pairing history.
package chess

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidGame reports a game that cannot be rated: self play, a result
// outside {0, ½, 1}, or a reference to a player nobody knows about.
var ErrInvalidGame = errors.New("invalid game")

// PlayerID is a stable, opaque player identity. Display names are never used
// as identity.
type PlayerID string

// NewPlayerID returns a fresh random id.
func NewPlayerID() PlayerID {
	return PlayerID(uuid.NewString())
}

func (id PlayerID) String() string {
	return string(id)
}

// Game results from white's perspective.
const (
	Loss = 0.0
	Draw = 0.5
	Win  = 1.0
)

// Game is one played game. Result is from white's perspective.
type Game struct {
	White  PlayerID
	Black  PlayerID
	Result float64
}

// Validate checks the invariants every rated game must satisfy.
func (g Game) Validate() error {
	if g.White == g.Black {
		return fmt.Errorf("%w: %v cannot play themselves", ErrInvalidGame, g.White)
	}
	if g.White == "" || g.Black == "" {
		return fmt.Errorf("%w: missing player in %v", ErrInvalidGame, g)
	}
	if !validResult(g.Result) {
		return fmt.Errorf("%w: result %v for %v vs %v, only 0, 0.5 and 1 are allowed",
			ErrInvalidGame, g.Result, g.White, g.Black)
	}
	return nil
}

// Score returns the game's score from id's perspective and whether id took
// part in the game at all.
func (g Game) Score(id PlayerID) (float64, bool) {
	switch id {
	case g.White:
		return g.Result, true
	case g.Black:
		return 1 - g.Result, true
	}
	return 0, false
}

// Opponent returns the other side of the game from id's perspective.
func (g Game) Opponent(id PlayerID) (PlayerID, bool) {
	switch id {
	case g.White:
		return g.Black, true
	case g.Black:
		return g.White, true
	}
	return "", false
}

func (g Game) String() string {
	return fmt.Sprintf("%v-%v %v", g.White, g.Black, ResultString(g.Result))
}

func validResult(r float64) bool {
	return r == Loss || r == Draw || r == Win
}

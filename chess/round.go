/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package chess

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// Round is everything that happened on one club day: the paired tournament
// games, the byes handed out, and any casual games played on the side.
// Casual games are rated but do not enter the pairing history.
type Round struct {
	Date  time.Time
	Games []Game
	Byes  []PlayerID
	Other []Game
}

// Rated returns every game of the round that takes part in rating.
func (r Round) Rated() []Game {
	out := make([]Game, 0, len(r.Games)+len(r.Other))
	out = append(out, r.Games...)
	return append(out, r.Other...)
}

// Validate checks each game and that nobody appears twice in the paired part
// of the round (a player gets one tournament game or one bye per round).
func (r Round) Validate() error {
	seen := make(map[PlayerID]bool)
	mark := func(id PlayerID) error {
		if seen[id] {
			return fmt.Errorf("%w: %v is paired more than once in round %v",
				ErrInvalidGame, id, r.Date.Format(time.DateOnly))
		}
		seen[id] = true
		return nil
	}
	for _, g := range r.Games {
		if err := g.Validate(); err != nil {
			return err
		}
		if err := mark(g.White); err != nil {
			return err
		}
		if err := mark(g.Black); err != nil {
			return err
		}
	}
	for _, id := range r.Byes {
		if err := mark(id); err != nil {
			return err
		}
	}
	for _, g := range r.Other {
		if err := g.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ParseRoundDate accepts the loose date formats found in club records
// ("2024-03-01", "3/1/2024", "March 1, 2024", ...).
func ParseRoundDate(s string) (time.Time, error) {
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing round date %q: %w", s, err)
	}
	return t, nil
}

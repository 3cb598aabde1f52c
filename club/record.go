/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package club

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/theGerk/RSI-ChessClub/chess"
	"github.com/theGerk/RSI-ChessClub/glicko"
	"github.com/theGerk/RSI-ChessClub/internal"
	"github.com/theGerk/RSI-ChessClub/lampert"
)

// RecordRound rates one club day and appends it to the log. Tournament
// games enter both players' pairing history, byes enter the history of the
// player who sat out, and casual games are rated without touching history.
// Every rated member who did not play has their deviation grow. On error
// the club is unchanged.
func (c *Club) RecordRound(g *glicko.Engine, r chess.Round) error {
	if r.Date.IsZero() {
		return errors.New("club.RecordRound: round has no date")
	}
	members := c.cloneMembers()
	if err := applyRound(g, members, r); err != nil {
		return fmt.Errorf("club.RecordRound: %w", err)
	}
	if n := len(c.Log); n > 0 && r.Date.Before(c.Log[n-1].Date) {
		c.logger.Warn("club.RecordRound: round is older than the last one logged; recalculate to reorder",
			zap.Time("date", r.Date), zap.Time("last", c.Log[n-1].Date))
	}

	c.commit(members)
	c.Log = append(c.Log, r)
	c.Pending = nil
	c.logger.Info("club.RecordRound: recorded",
		zap.Time("date", r.Date),
		zap.Int("games", len(r.Games)),
		zap.Int("byes", len(r.Byes)),
		zap.Int("other", len(r.Other)))
	return nil
}

// Recalculate throws away every rating and history and replays the log in
// date order. Use it after editing the log or changing the rating
// configuration.
func (c *Club) Recalculate(g *glicko.Engine) error {
	log := byDate(c.Log)
	members, err := replay(g, c.cloneMembers(), log)
	if err != nil {
		return fmt.Errorf("club.Recalculate: %w", err)
	}
	c.commit(members)
	c.Log = log
	c.logger.Info("club.Recalculate: replayed", zap.Int("rounds", len(log)))
	return nil
}

// byDate returns a copy of log in date order. Rounds of the same day keep
// their relative order.
func byDate(log []chess.Round) []chess.Round {
	out := slices.Clone(log)
	slices.SortStableFunc(out, func(a, b chess.Round) int {
		return a.Date.Compare(b.Date)
	})
	return out
}

// replay resets members and rates log, which must already be in date order.
func replay(g *glicko.Engine, members map[chess.PlayerID]*Member,
	log []chess.Round) (map[chess.PlayerID]*Member, error) {

	for _, m := range members {
		m.reset()
	}
	for _, r := range log {
		if err := applyRound(g, members, r); err != nil {
			return nil, fmt.Errorf("round of %v: %w", internal.FormatDate(r.Date), err)
		}
	}
	return members, nil
}

// applyRound rates r into members. members is only modified on success.
func applyRound(g *glicko.Engine, members map[chess.PlayerID]*Member, r chess.Round) error {
	if err := r.Validate(); err != nil {
		return err
	}
	known := func(id chess.PlayerID) error {
		if _, ok := members[id]; !ok {
			return fmt.Errorf("%w: %v", ErrUnknownMember, id)
		}
		return nil
	}
	rated := r.Rated()
	for _, gm := range rated {
		if err := known(gm.White); err != nil {
			return err
		}
		if err := known(gm.Black); err != nil {
			return err
		}
	}
	for _, id := range r.Byes {
		if err := known(id); err != nil {
			return err
		}
	}

	ratings := make(map[chess.PlayerID]*glicko.Rating, len(members))
	lamperts := make(map[chess.PlayerID]*lampert.Rating, len(members))
	for id, m := range members {
		rt, lr := m.Rating, m.Lampert
		ratings[id], lamperts[id] = &rt, &lr
	}
	if err := g.UpdatePeriod(rated, ratings); err != nil {
		return err
	}
	if err := lampert.UpdatePeriod(rated, lamperts); err != nil {
		return err
	}

	for id, m := range members {
		m.Rating, m.Lampert = *ratings[id], *lamperts[id]
	}
	for _, gm := range r.Games {
		w, b := members[gm.White], members[gm.Black]
		w.History = w.History.Append(chess.Played(b.ID, true))
		b.History = b.History.Append(chess.Played(w.ID, false))
	}
	for _, id := range r.Byes {
		m := members[id]
		m.History = m.History.Append(chess.ByeEntry())
		m.Active = true
	}
	for _, gm := range rated {
		for _, id := range [2]chess.PlayerID{gm.White, gm.Black} {
			members[id].GamesPlayed++
			members[id].Active = true
		}
	}
	return nil
}

// Standings returns the members of pool, or of the whole club when pool is
// empty, strongest first. Unrated members follow the rated ones by name.
func (c *Club) Standings(pool string) []*Member {
	pool = internal.NormalizeName(pool)
	members := lo.Filter(lo.Values(c.Members), func(m *Member, _ int) bool {
		return pool == "" || m.Pool == pool
	})
	slices.SortFunc(members, func(a, b *Member) int {
		av, aok := a.Rating.Values()
		bv, bok := b.Rating.Values()
		switch {
		case aok && !bok:
			return -1
		case !aok && bok:
			return 1
		case aok && bok && av.Rating != bv.Rating:
			return cmp.Compare(bv.Rating, av.Rating)
		}
		return compareByName(a, b)
	})
	return members
}

func compareByName(a, b *Member) int {
	if c := cmp.Compare(internal.NormalizeName(a.Name), internal.NormalizeName(b.Name)); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func sortByName(members []*Member) {
	slices.SortFunc(members, compareByName)
}

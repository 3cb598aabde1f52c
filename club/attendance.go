/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package club

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/theGerk/RSI-ChessClub/chess"
	"github.com/theGerk/RSI-ChessClub/internal"
	"github.com/theGerk/RSI-ChessClub/pairing"
)

// AttendanceEntry is one member's sign-in for the day. Pair is false for
// members who are present but do not want a tournament game. Pool
// overrides the member's usual pool for the day.
type AttendanceEntry struct {
	Attending bool   `json:"attending" yaml:"attending"`
	Pair      bool   `json:"pair" yaml:"pair"`
	Pool      string `json:"pool,omitempty" yaml:"pool,omitempty"`
}

// Attendance is the day's sign-in sheet.
type Attendance map[chess.PlayerID]AttendanceEntry

// Pools groups the members who attend and want a game into pairing pools.
// Members without any pool are left out. Within a pool players are ordered
// by id, so a fixed seed always pairs a given sheet the same way.
func (c *Club) Pools(att Attendance) (map[string][]pairing.Player, error) {
	type seat struct {
		pool   string
		member *Member
	}
	ids := slices.Sorted(maps.Keys(att))
	seats := make([]seat, 0, len(ids))
	for _, id := range ids {
		e := att[id]
		if !e.Attending || !e.Pair {
			continue
		}
		m, err := c.Member(id)
		if err != nil {
			return nil, fmt.Errorf("club.Pools: %w", err)
		}
		pool := internal.NormalizeName(lo.Ternary(e.Pool != "", e.Pool, m.Pool))
		if pool == "" {
			c.logger.Warn("club.Pools: member has no pool; not pairing",
				zap.Stringer("id", m.ID), zap.String("name", m.Name))
			continue
		}
		seats = append(seats, seat{pool: pool, member: m})
	}

	grouped := lo.GroupBy(seats, func(s seat) string { return s.pool })
	return lo.MapValues(grouped, func(s []seat, _ string) []pairing.Player {
		return lo.Map(s, func(s seat, _ int) pairing.Player { return s.member.Player() })
	}), nil
}

// GeneratePairings pairs every pool of the sheet and keeps the result as
// the pending round.
func (c *Club) GeneratePairings(ctx context.Context, e *pairing.Engine,
	att Attendance, seed uint64) (map[string][]pairing.Pairing, error) {

	pools, err := c.Pools(att)
	if err != nil {
		return nil, err
	}
	rounds, err := e.PairPools(ctx, pools, seed)
	if err != nil {
		return nil, fmt.Errorf("club.GeneratePairings: %w", err)
	}
	c.Pending = rounds
	c.logger.Info("club.GeneratePairings: paired",
		zap.Int("pools", len(rounds)), zap.Uint64("seed", seed))
	return rounds, nil
}

// PendingRound turns the pending pairings and their results into a round.
// results maps each pending board's white player to the result from
// white's side; boards without a result are left out, and a result for
// anyone else is an error. Byes are always included.
func (c *Club) PendingRound(results map[chess.PlayerID]float64,
	other []chess.Game) (chess.Round, error) {

	var r chess.Round
	used := 0
	for _, pool := range slices.Sorted(maps.Keys(c.Pending)) {
		for _, p := range c.Pending[pool] {
			if p.IsBye() {
				r.Byes = append(r.Byes, p.White)
				continue
			}
			res, ok := results[p.White]
			if !ok {
				continue
			}
			used++
			r.Games = append(r.Games, chess.Game{White: p.White, Black: p.Black, Result: res})
		}
	}
	if used != len(results) {
		for id := range results {
			if !slices.ContainsFunc(r.Games, func(g chess.Game) bool { return g.White == id }) {
				return chess.Round{}, fmt.Errorf("club.PendingRound: %v is not white on any pending board",
					c.DisplayName(id))
			}
		}
	}
	r.Other = other
	if err := r.Validate(); err != nil {
		return chess.Round{}, err
	}
	return r, nil
}

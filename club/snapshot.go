/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package club

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/samber/lo"

	"github.com/theGerk/RSI-ChessClub/chess"
	"github.com/theGerk/RSI-ChessClub/glicko"
	"github.com/theGerk/RSI-ChessClub/internal"
	"github.com/theGerk/RSI-ChessClub/lampert"
	"github.com/theGerk/RSI-ChessClub/pairing"
)

// SnapshotVersion is the format written by Club.Snapshot.
const SnapshotVersion = 1

// Snapshot is the serialisable form of a Club.
type Snapshot struct {
	Version int                        `json:"version" yaml:"version"`
	Members []MemberRecord             `json:"members" yaml:"members"`
	Rounds  []RoundRecord              `json:"rounds,omitempty" yaml:"rounds,omitempty"`
	Pending map[string][]PairingRecord `json:"pending,omitempty" yaml:"pending,omitempty"`
}

type MemberRecord struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Pool        string          `json:"pool,omitempty" yaml:"pool,omitempty"`
	Grade       string          `json:"grade,omitempty" yaml:"grade,omitempty"`
	Active      bool            `json:"active" yaml:"active"`
	Rating      *RatingRecord   `json:"rating,omitempty" yaml:"rating,omitempty"`
	Lampert     float64         `json:"lampert" yaml:"lampert"`
	GamesPlayed int             `json:"gamesPlayed" yaml:"gamesPlayed"`
	History     []HistoryRecord `json:"history,omitempty" yaml:"history,omitempty"`
}

type RatingRecord struct {
	Rating     float64 `json:"rating" yaml:"rating"`
	Deviation  float64 `json:"deviation" yaml:"deviation"`
	Volatility float64 `json:"volatility" yaml:"volatility"`
}

type HistoryRecord struct {
	Opponent string `json:"opponent,omitempty" yaml:"opponent,omitempty"`
	White    bool   `json:"white,omitempty" yaml:"white,omitempty"`
	Bye      bool   `json:"bye,omitempty" yaml:"bye,omitempty"`
}

type RoundRecord struct {
	Date  string       `json:"date" yaml:"date"`
	Games []GameRecord `json:"games,omitempty" yaml:"games,omitempty"`
	Byes  []string     `json:"byes,omitempty" yaml:"byes,omitempty"`
	Other []GameRecord `json:"other,omitempty" yaml:"other,omitempty"`
}

// GameRecord stores the result as W, D or L from white's side.
type GameRecord struct {
	White  string `json:"white" yaml:"white"`
	Black  string `json:"black" yaml:"black"`
	Result string `json:"result" yaml:"result"`
}

type PairingRecord struct {
	White string `json:"white" yaml:"white"`
	Black string `json:"black,omitempty" yaml:"black,omitempty"`
}

// Snapshot captures the club. Members are ordered by name so that
// snapshots of the same club are identical.
func (c *Club) Snapshot() *Snapshot {
	s := &Snapshot{
		Version: SnapshotVersion,
		Members: lo.Map(c.sortedMembers(), func(m *Member, _ int) MemberRecord {
			return memberRecord(m)
		}),
		Rounds: lo.Map(c.Log, func(r chess.Round, _ int) RoundRecord {
			return RoundRecord{
				Date:  internal.FormatDate(r.Date),
				Games: gameRecords(r.Games),
				Byes:  lo.Map(r.Byes, func(id chess.PlayerID, _ int) string { return id.String() }),
				Other: gameRecords(r.Other),
			}
		}),
	}
	if len(c.Pending) > 0 {
		s.Pending = lo.MapValues(c.Pending, func(round []pairing.Pairing, _ string) []PairingRecord {
			return lo.Map(round, func(p pairing.Pairing, _ int) PairingRecord {
				return PairingRecord{White: p.White.String(), Black: p.Black.String()}
			})
		})
	}
	return s
}

func memberRecord(m *Member) MemberRecord {
	rec := MemberRecord{
		ID:          m.ID.String(),
		Name:        m.Name,
		Pool:        m.Pool,
		Grade:       m.Grade,
		Active:      m.Active,
		Lampert:     float64(m.Lampert),
		GamesPlayed: m.GamesPlayed,
		History: lo.Map(m.History, func(e chess.HistoryEntry, _ int) HistoryRecord {
			return HistoryRecord{Opponent: e.Opponent.String(), White: e.PlayedWhite, Bye: e.Bye}
		}),
	}
	if v, ok := m.Rating.Values(); ok {
		rec.Rating = &RatingRecord{Rating: v.Rating, Deviation: v.Deviation, Volatility: v.Volatility}
	}
	return rec
}

func gameRecords(games []chess.Game) []GameRecord {
	return lo.Map(games, func(g chess.Game, _ int) GameRecord {
		return GameRecord{White: g.White.String(), Black: g.Black.String(), Result: chess.ResultString(g.Result)}
	})
}

// FromSnapshot rebuilds a club. Ratings, games and references between
// members are all checked.
func FromSnapshot(s *Snapshot, opts ...Option) (*Club, error) {
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("club.FromSnapshot: unsupported version %v", s.Version)
	}
	c := New(opts...)
	for _, rec := range s.Members {
		m, err := fromMemberRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("club.FromSnapshot: member %q: %w", rec.Name, err)
		}
		if _, dup := c.Members[m.ID]; dup {
			return nil, fmt.Errorf("club.FromSnapshot: duplicate member id %v", m.ID)
		}
		c.Members[m.ID] = m
	}
	for _, m := range c.Members {
		for _, e := range m.History {
			if _, err := c.Member(e.Opponent); !e.Bye && err != nil {
				return nil, fmt.Errorf("club.FromSnapshot: history of %v: %w", m.ID, err)
			}
		}
	}

	for i, rec := range s.Rounds {
		r, err := fromRoundRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("club.FromSnapshot: round %d: %w", i+1, err)
		}
		c.Log = append(c.Log, r)
	}

	if len(s.Pending) > 0 {
		c.Pending = make(map[string][]pairing.Pairing, len(s.Pending))
	}
	for _, pool := range slices.Sorted(maps.Keys(s.Pending)) {
		for _, p := range s.Pending[pool] {
			pr := pairing.Pairing{White: chess.PlayerID(p.White), Black: chess.PlayerID(p.Black)}
			if _, err := c.Member(pr.White); err != nil {
				return nil, fmt.Errorf("club.FromSnapshot: pending pool %q: %w", pool, err)
			}
			if _, err := c.Member(pr.Black); !pr.IsBye() && err != nil {
				return nil, fmt.Errorf("club.FromSnapshot: pending pool %q: %w", pool, err)
			}
			c.Pending[pool] = append(c.Pending[pool], pr)
		}
	}
	return c, nil
}

func fromMemberRecord(rec MemberRecord) (*Member, error) {
	if rec.ID == "" {
		return nil, errors.New("missing id")
	}
	m := &Member{
		ID:          chess.PlayerID(rec.ID),
		Name:        rec.Name,
		Pool:        rec.Pool,
		Grade:       rec.Grade,
		Active:      rec.Active,
		Lampert:     lampert.Rating(rec.Lampert),
		GamesPlayed: rec.GamesPlayed,
		History: lo.Map(rec.History, func(h HistoryRecord, _ int) chess.HistoryEntry {
			if h.Bye {
				return chess.ByeEntry()
			}
			return chess.Played(chess.PlayerID(h.Opponent), h.White)
		}),
	}
	if rec.Rating != nil {
		r, err := glicko.Rated(glicko.Values{
			Rating:     rec.Rating.Rating,
			Deviation:  rec.Rating.Deviation,
			Volatility: rec.Rating.Volatility,
		})
		if err != nil {
			return nil, err
		}
		m.Rating = r
	}
	return m, nil
}

func fromRoundRecord(rec RoundRecord) (chess.Round, error) {
	date, err := internal.ParseDateOrZero(rec.Date)
	if err != nil {
		return chess.Round{}, fmt.Errorf("date %q: %w", rec.Date, err)
	}
	games, err := fromGameRecords(rec.Games)
	if err != nil {
		return chess.Round{}, err
	}
	other, err := fromGameRecords(rec.Other)
	if err != nil {
		return chess.Round{}, err
	}
	r := chess.Round{
		Date:  date,
		Games: games,
		Byes:  lo.Map(rec.Byes, func(id string, _ int) chess.PlayerID { return chess.PlayerID(id) }),
		Other: other,
	}
	if err := r.Validate(); err != nil {
		return chess.Round{}, err
	}
	return r, nil
}

func fromGameRecords(recs []GameRecord) ([]chess.Game, error) {
	games := make([]chess.Game, 0, len(recs))
	for _, rec := range recs {
		res, err := chess.ParseResult(rec.Result)
		if err != nil {
			return nil, err
		}
		games = append(games, chess.Game{
			White:  chess.PlayerID(rec.White),
			Black:  chess.PlayerID(rec.Black),
			Result: res,
		})
	}
	return games, nil
}

/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package club keeps the member roster of a chess club together with its
// round log, and drives the rating and pairing engines from it.
package club

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/theGerk/RSI-ChessClub/chess"
	"github.com/theGerk/RSI-ChessClub/glicko"
	"github.com/theGerk/RSI-ChessClub/internal"
	"github.com/theGerk/RSI-ChessClub/lampert"
	"github.com/theGerk/RSI-ChessClub/pairing"
)

var (
	ErrUnknownMember = errors.New("unknown member")
	ErrAmbiguousName = errors.New("ambiguous member name")
)

// Member is one person on the roster.
type Member struct {
	ID     chess.PlayerID
	Name   string
	Pool   string
	Grade  string
	Active bool

	Rating      glicko.Rating
	Lampert     lampert.Rating
	History     chess.History
	GamesPlayed int
}

// Player returns the view of m the pairing engine works with.
func (m *Member) Player() pairing.Player {
	return pairing.Player{
		ID:      m.ID,
		Name:    m.Name,
		Rating:  m.Rating,
		History: m.History,
	}
}

func (m *Member) reset() {
	m.Rating = glicko.Unrated()
	m.Lampert = lampert.InitialRating
	m.History = nil
	m.GamesPlayed = 0
}

// Club is the roster plus everything recorded about it. Pending holds the
// pairings handed out for the round in progress, keyed by pool.
type Club struct {
	Members map[chess.PlayerID]*Member
	Log     []chess.Round
	Pending map[string][]pairing.Pairing

	logger *zap.Logger
}

// Option configures a Club.
type Option func(*Club)

// WithLogger sets the logger for roster and round events.
func WithLogger(l *zap.Logger) Option {
	return func(c *Club) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns an empty club.
func New(opts ...Option) *Club {
	c := &Club{
		Members: make(map[chess.PlayerID]*Member),
		logger:  zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// AddMember registers a new, unrated member.
func (c *Club) AddMember(name, pool string) (*Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("club.AddMember: empty name")
	}
	m := &Member{
		ID:      chess.NewPlayerID(),
		Name:    name,
		Pool:    internal.NormalizeName(pool),
		Active:  true,
		Lampert: lampert.InitialRating,
	}
	c.Members[m.ID] = m
	c.logger.Info("club.AddMember: added", zap.Stringer("id", m.ID),
		zap.String("name", m.Name), zap.String("pool", m.Pool))
	return m, nil
}

// Member returns the member with the given id.
func (c *Club) Member(id chess.PlayerID) (*Member, error) {
	m, ok := c.Members[id]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownMember, id)
	}
	return m, nil
}

// Rename changes a member's display name. Ids, and with them ratings and
// history, are untouched.
func (c *Club) Rename(id chess.PlayerID, name string) error {
	m, err := c.Member(id)
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("club.Rename: empty name")
	}
	c.logger.Info("club.Rename: renamed", zap.Stringer("id", id),
		zap.String("from", m.Name), zap.String("to", name))
	m.Name = name
	return nil
}

// Lookup finds a member by name, ignoring case and extra spaces. An exact
// match wins; otherwise a unique prefix is accepted. The argument may also
// be a member id.
func (c *Club) Lookup(name string) (*Member, error) {
	if m, ok := c.Members[chess.PlayerID(name)]; ok {
		return m, nil
	}
	want := internal.NormalizeName(name)
	if want == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownMember)
	}

	members := c.sortedMembers()
	matches := lo.Filter(members, func(m *Member, _ int) bool {
		return internal.NormalizeName(m.Name) == want
	})
	if len(matches) == 0 {
		matches = lo.Filter(members, func(m *Member, _ int) bool {
			return strings.HasPrefix(internal.NormalizeName(m.Name), want)
		})
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMember, name)
	case 1:
		return matches[0], nil
	}
	names := lo.Map(matches, func(m *Member, _ int) string {
		return fmt.Sprintf("%v (%v)", m.Name, m.ID)
	})
	return nil, fmt.Errorf("%w: %q matches %v", ErrAmbiguousName, name,
		strings.Join(names, ", "))
}

// Merge folds the member dup into keep, for a person who ended up on the
// roster twice. Every recorded game of dup is rewritten to keep and the log
// is replayed and pending pairings are dropped. It fails, leaving the club
// as it was, if the two ever played each other or were paired in the same
// round.
func (c *Club) Merge(g *glicko.Engine, dup, keep chess.PlayerID) error {
	if dup == keep {
		return fmt.Errorf("club.Merge: %v merged with itself", dup)
	}
	if _, err := c.Member(dup); err != nil {
		return err
	}
	if _, err := c.Member(keep); err != nil {
		return err
	}

	swap := func(id chess.PlayerID) chess.PlayerID {
		if id == dup {
			return keep
		}
		return id
	}
	swapGames := func(games []chess.Game) []chess.Game {
		return lo.Map(games, func(gm chess.Game, _ int) chess.Game {
			gm.White, gm.Black = swap(gm.White), swap(gm.Black)
			return gm
		})
	}
	log := byDate(lo.Map(c.Log, func(r chess.Round, _ int) chess.Round {
		return chess.Round{
			Date:  r.Date,
			Games: swapGames(r.Games),
			Byes:  lo.Map(r.Byes, func(id chess.PlayerID, _ int) chess.PlayerID { return swap(id) }),
			Other: swapGames(r.Other),
		}
	}))

	members := c.cloneMembers()
	delete(members, dup)
	replayed, err := replay(g, members, log)
	if err != nil {
		return fmt.Errorf("club.Merge: %v into %v: %w", dup, keep, err)
	}
	delete(c.Members, dup)
	c.commit(replayed)
	c.Log = log
	c.Pending = nil
	c.logger.Info("club.Merge: merged", zap.Stringer("dup", dup), zap.Stringer("keep", keep))
	return nil
}

func (c *Club) sortedMembers() []*Member {
	members := lo.Values(c.Members)
	sortByName(members)
	return members
}

func (c *Club) cloneMembers() map[chess.PlayerID]*Member {
	out := make(map[chess.PlayerID]*Member, len(c.Members))
	for id, m := range c.Members {
		cp := *m
		out[id] = &cp
	}
	return out
}

// commit copies updated members back so that pointers handed out earlier
// stay valid.
func (c *Club) commit(members map[chess.PlayerID]*Member) {
	for id, m := range members {
		if cur, ok := c.Members[id]; ok {
			*cur = *m
		} else {
			c.Members[id] = m
		}
	}
}

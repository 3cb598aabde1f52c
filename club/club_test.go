/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package club

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theGerk/RSI-ChessClub/chess"
	"github.com/theGerk/RSI-ChessClub/glicko"
	"github.com/theGerk/RSI-ChessClub/lampert"
	"github.com/theGerk/RSI-ChessClub/pairing"
)

func newGlicko(t *testing.T) *glicko.Engine {
	t.Helper()
	g, err := glicko.New(glicko.DefaultConfig())
	require.NoError(t, err)
	return g
}

func newPairing(t *testing.T) *pairing.Engine {
	t.Helper()
	e, err := pairing.New(pairing.DefaultConfig())
	require.NoError(t, err)
	return e
}

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func addMembers(t *testing.T, c *Club, pool string, names ...string) []chess.PlayerID {
	t.Helper()
	ids := make([]chess.PlayerID, len(names))
	for i, n := range names {
		m, err := c.AddMember(n, pool)
		require.NoError(t, err)
		ids[i] = m.ID
	}
	return ids
}

func TestAddMemberAndLookup(t *testing.T) {
	c := New()
	ids := addMembers(t, c, " Open ", "Ann Lee", "Annabel Ray", "Bob  Stone")

	m, err := c.Member(ids[0])
	require.NoError(t, err)
	assert.Equal(t, "open", m.Pool)
	assert.False(t, glicko.IsRated(m.Rating))
	assert.Equal(t, lampert.InitialRating, m.Lampert)

	tests := []struct {
		query string
		want  chess.PlayerID
		err   error
	}{
		{"ann lee", ids[0], nil},
		{"ANN   LEE", ids[0], nil},
		{"annab", ids[1], nil},
		{"bob stone", ids[2], nil},
		{string(ids[2]), ids[2], nil},
		{"ann", "", ErrAmbiguousName},
		{"carol", "", ErrUnknownMember},
		{"  ", "", ErrUnknownMember},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := c.Lookup(tt.query)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ID)
		})
	}

	_, err = c.AddMember("   ", "open")
	assert.Error(t, err)
}

func TestRename(t *testing.T) {
	c := New()
	ids := addMembers(t, c, "open", "Ann")

	require.NoError(t, c.Rename(ids[0], "Anne"))
	m, err := c.Lookup("anne")
	require.NoError(t, err)
	assert.Equal(t, ids[0], m.ID)

	assert.ErrorIs(t, c.Rename("nobody", "x"), ErrUnknownMember)
	assert.Error(t, c.Rename(ids[0], ""))
}

func TestPools(t *testing.T) {
	c := New()
	open := addMembers(t, c, "open", "a", "b", "c")
	kids := addMembers(t, c, "scholastic", "d", "e")
	loner := addMembers(t, c, "", "f")

	att := Attendance{
		open[0]:  {Attending: true, Pair: true},
		open[1]:  {Attending: true, Pair: false},
		open[2]:  {Attending: false, Pair: true},
		kids[0]:  {Attending: true, Pair: true},
		kids[1]:  {Attending: true, Pair: true, Pool: "Open"},
		loner[0]: {Attending: true, Pair: true},
	}
	pools, err := c.Pools(att)
	require.NoError(t, err)

	ids := func(players []pairing.Player) []chess.PlayerID {
		out := make([]chess.PlayerID, len(players))
		for i, p := range players {
			out[i] = p.ID
		}
		return out
	}
	require.Len(t, pools, 2)
	assert.ElementsMatch(t, []chess.PlayerID{open[0], kids[1]}, ids(pools["open"]))
	assert.Equal(t, []chess.PlayerID{kids[0]}, ids(pools["scholastic"]))

	_, err = c.Pools(Attendance{"ghost": {Attending: true, Pair: true}})
	assert.ErrorIs(t, err, ErrUnknownMember)
}

func TestPairAndRecordRound(t *testing.T) {
	c := New()
	g := newGlicko(t)
	ids := addMembers(t, c, "open", "a", "b", "c", "d", "e")
	idle := addMembers(t, c, "open", "idle")

	att := Attendance{}
	for _, id := range ids {
		att[id] = AttendanceEntry{Attending: true, Pair: true}
	}
	rounds, err := c.GeneratePairings(context.Background(), newPairing(t), att, 1)
	require.NoError(t, err)
	require.Len(t, rounds["open"], 3)
	assert.Equal(t, rounds, c.Pending)

	results := map[chess.PlayerID]float64{}
	for _, p := range rounds["open"] {
		if !p.IsBye() {
			results[p.White] = chess.Win
		}
	}
	round, err := c.PendingRound(results, nil)
	require.NoError(t, err)
	require.Len(t, round.Games, 2)
	require.Len(t, round.Byes, 1)
	round.Date = day(1)

	require.NoError(t, c.RecordRound(g, round))
	assert.Nil(t, c.Pending)
	assert.Len(t, c.Log, 1)

	for _, id := range ids {
		m, _ := c.Member(id)
		require.Len(t, m.History, 1, "member %v", m.Name)
		if m.History[0].Bye {
			assert.Zero(t, m.GamesPlayed)
			assert.False(t, glicko.IsRated(m.Rating))
			continue
		}
		assert.Equal(t, 1, m.GamesPlayed)
		assert.True(t, glicko.IsRated(m.Rating))
		assert.NotEqual(t, lampert.InitialRating, m.Lampert)
	}
	m, _ := c.Member(idle[0])
	assert.Empty(t, m.History)
	assert.False(t, glicko.IsRated(m.Rating))
}

func TestRecordRoundCasualGames(t *testing.T) {
	c := New()
	g := newGlicko(t)
	ids := addMembers(t, c, "open", "a", "b")

	err := c.RecordRound(g, chess.Round{
		Date:  day(1),
		Other: []chess.Game{{White: ids[0], Black: ids[1], Result: chess.Draw}},
	})
	require.NoError(t, err)

	for _, id := range ids {
		m, _ := c.Member(id)
		assert.Empty(t, m.History)
		assert.Equal(t, 1, m.GamesPlayed)
		assert.True(t, glicko.IsRated(m.Rating))
	}
}

func TestRecordRoundIsAllOrNothing(t *testing.T) {
	c := New()
	g := newGlicko(t)
	ids := addMembers(t, c, "open", "a", "b", "c")
	require.NoError(t, c.RecordRound(g, chess.Round{
		Date:  day(1),
		Games: []chess.Game{{White: ids[0], Black: ids[1], Result: chess.Win}},
		Byes:  []chess.PlayerID{ids[2]},
	}))
	before := c.Snapshot()

	bad := []chess.Round{
		{Date: day(2), Games: []chess.Game{{White: ids[0], Black: "ghost", Result: chess.Win}}},
		{Date: day(2), Games: []chess.Game{{White: ids[0], Black: ids[1], Result: 0.25}}},
		{Date: day(2), Games: []chess.Game{{White: ids[0], Black: ids[1], Result: chess.Win}}, Byes: []chess.PlayerID{ids[0]}},
		{Games: []chess.Game{{White: ids[0], Black: ids[1], Result: chess.Win}}},
	}
	for _, r := range bad {
		assert.Error(t, c.RecordRound(g, r))
		if diff := cmp.Diff(before, c.Snapshot()); diff != "" {
			t.Fatalf("failed round changed the club (-before +after):\n%s", diff)
		}
	}
}

func TestRecalculateReordersLog(t *testing.T) {
	g := newGlicko(t)
	base := New()
	ids := addMembers(t, base, "open", "a", "b", "c", "d")
	snap := base.Snapshot()

	r1 := chess.Round{Date: day(1), Games: []chess.Game{
		{White: ids[0], Black: ids[1], Result: chess.Win},
		{White: ids[2], Black: ids[3], Result: chess.Draw},
	}}
	r2 := chess.Round{Date: day(8), Games: []chess.Game{
		{White: ids[3], Black: ids[0], Result: chess.Win},
	}, Byes: []chess.PlayerID{ids[1]}}

	inOrder, err := FromSnapshot(snap)
	require.NoError(t, err)
	require.NoError(t, inOrder.RecordRound(g, r1))
	require.NoError(t, inOrder.RecordRound(g, r2))

	outOfOrder, err := FromSnapshot(snap)
	require.NoError(t, err)
	require.NoError(t, outOfOrder.RecordRound(g, r2))
	require.NoError(t, outOfOrder.RecordRound(g, r1))
	require.NoError(t, outOfOrder.Recalculate(g))

	if diff := cmp.Diff(inOrder.Snapshot(), outOfOrder.Snapshot()); diff != "" {
		t.Errorf("recalculated club differs (-in order +recalculated):\n%s", diff)
	}

	again := inOrder.Snapshot()
	require.NoError(t, inOrder.Recalculate(g))
	if diff := cmp.Diff(again, inOrder.Snapshot()); diff != "" {
		t.Errorf("recalculate is not idempotent (-before +after):\n%s", diff)
	}
}

func TestMerge(t *testing.T) {
	c := New()
	g := newGlicko(t)
	ids := addMembers(t, c, "open", "Ann", "Bob", "Ann L", "Cy")
	ann, bob, dup, cy := ids[0], ids[1], ids[2], ids[3]

	require.NoError(t, c.RecordRound(g, chess.Round{Date: day(1),
		Games: []chess.Game{{White: ann, Black: bob, Result: chess.Win}}}))
	require.NoError(t, c.RecordRound(g, chess.Round{Date: day(8),
		Games: []chess.Game{{White: cy, Black: dup, Result: chess.Loss}}}))

	require.NoError(t, c.Merge(g, dup, ann))
	_, err := c.Member(dup)
	assert.ErrorIs(t, err, ErrUnknownMember)

	m, err := c.Member(ann)
	require.NoError(t, err)
	assert.Equal(t, 2, m.GamesPlayed)
	assert.Equal(t, chess.History{chess.Played(bob, true), chess.Played(cy, false)}, m.History)

	cyM, _ := c.Member(cy)
	assert.Equal(t, chess.History{chess.Played(ann, true)}, cyM.History)

	assert.ErrorIs(t, c.Merge(g, "ghost", ann), ErrUnknownMember)
	assert.Error(t, c.Merge(g, ann, ann))
	assert.Error(t, c.Merge(g, bob, ann), "bob and ann played each other")
	_, err = c.Member(bob)
	assert.NoError(t, err)
}

func TestStandings(t *testing.T) {
	c := New()
	g := newGlicko(t)
	ids := addMembers(t, c, "open", "Winner", "Loser", "Zed")
	addMembers(t, c, "scholastic", "Kid")
	addMembers(t, c, "open", "Amy")

	require.NoError(t, c.RecordRound(g, chess.Round{Date: day(1),
		Games: []chess.Game{{White: ids[0], Black: ids[1], Result: chess.Win}}}))

	names := func(ms []*Member) []string {
		out := make([]string, len(ms))
		for i, m := range ms {
			out[i] = m.Name
		}
		return out
	}
	assert.Equal(t, []string{"Winner", "Loser", "Amy", "Zed"}, names(c.Standings("open")))
	assert.Equal(t, []string{"Kid"}, names(c.Standings("Scholastic")))
	assert.Len(t, c.Standings(""), 5)
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := New()
	g := newGlicko(t)
	ids := addMembers(t, c, "open", "a", "b", "c")
	require.NoError(t, c.RecordRound(g, chess.Round{
		Date:  day(1),
		Games: []chess.Game{{White: ids[0], Black: ids[1], Result: chess.Draw}},
		Byes:  []chess.PlayerID{ids[2]},
		Other: []chess.Game{{White: ids[2], Black: ids[0], Result: chess.Loss}},
	}))
	c.Pending = map[string][]pairing.Pairing{"open": {{White: ids[2], Black: ids[1]}, {White: ids[0]}}}

	snap := c.Snapshot()
	back, err := FromSnapshot(snap)
	require.NoError(t, err)
	if diff := cmp.Diff(snap, back.Snapshot()); diff != "" {
		t.Errorf("snapshot did not survive a round trip (-want +got):\n%s", diff)
	}
	assert.Equal(t, c.Log[0].Games, back.Log[0].Games)
}

func TestFromSnapshotRejectsBadData(t *testing.T) {
	tests := map[string]*Snapshot{
		"version": {Version: 99},
		"rating": {Version: SnapshotVersion, Members: []MemberRecord{
			{ID: "a", Name: "a", Rating: &RatingRecord{Rating: 1500, Deviation: -1, Volatility: 0.06}},
		}},
		"duplicate": {Version: SnapshotVersion, Members: []MemberRecord{
			{ID: "a", Name: "a"}, {ID: "a", Name: "b"},
		}},
		"history": {Version: SnapshotVersion, Members: []MemberRecord{
			{ID: "a", Name: "a", History: []HistoryRecord{{Opponent: "ghost"}}},
		}},
		"result": {Version: SnapshotVersion,
			Members: []MemberRecord{{ID: "a", Name: "a"}, {ID: "b", Name: "b"}},
			Rounds:  []RoundRecord{{Date: "2024-03-01", Games: []GameRecord{{White: "a", Black: "b", Result: "X"}}}},
		},
		"pending": {Version: SnapshotVersion,
			Members: []MemberRecord{{ID: "a", Name: "a"}},
			Pending: map[string][]PairingRecord{"open": {{White: "a", Black: "ghost"}}},
		},
	}
	for name, s := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromSnapshot(s)
			assert.Error(t, err)
		})
	}
}

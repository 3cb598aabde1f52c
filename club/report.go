/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package club

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/theGerk/RSI-ChessClub/chess"
	"github.com/theGerk/RSI-ChessClub/glicko"
	"github.com/theGerk/RSI-ChessClub/pairing"
)

// DisplayName returns the member's name, or the id itself for ids that
// are not on the roster.
func (c *Club) DisplayName(id chess.PlayerID) string {
	if m, ok := c.Members[id]; ok {
		return m.Name
	}
	return id.String()
}

func shortRating(r glicko.Rating) string {
	v, ok := r.Values()
	if !ok {
		return "unrated"
	}
	return fmt.Sprintf("%.0f", v.Rating)
}

// BuildPairingsOutput renders rounds board by board, pools in name order.
func (c *Club) BuildPairingsOutput(rounds map[string][]pairing.Pairing) string {
	var sb strings.Builder
	for _, pool := range slices.Sorted(maps.Keys(rounds)) {
		if pool != "" {
			fmt.Fprintf(&sb, "Pool: %s\n", pool)
		}
		board := 1
		var byes []chess.PlayerID
		for _, p := range rounds[pool] {
			if p.IsBye() {
				byes = append(byes, p.White)
				continue
			}
			fmt.Fprintf(&sb, "  Board %d: %s vs. %s\n", board, c.playerText(p.White), c.playerText(p.Black))
			board++
		}
		for _, id := range byes {
			fmt.Fprintf(&sb, "  BYE: %s\n", c.playerText(id))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (c *Club) playerText(id chess.PlayerID) string {
	m, ok := c.Members[id]
	if !ok {
		return id.String()
	}
	return fmt.Sprintf("%s(%s)", m.Name, shortRating(m.Rating))
}

// BuildStandingsOutput renders members as a ranked table.
func BuildStandingsOutput(members []*Member) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%4s  %-24s %-12s %8s %6s\n", "#", "Name", "Pool", "Rating", "Games")
	for i, m := range members {
		fmt.Fprintf(&sb, "%4d  %-24s %-12s %8s %6d\n", i+1, m.Name, m.Pool,
			shortRating(m.Rating), m.GamesPlayed)
	}
	return sb.String()
}

// BuildMemberOutput describes one member, most recent rounds first.
func (c *Club) BuildMemberOutput(m *Member, rounds int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s)\n", m.Name, m.ID)
	if m.Pool != "" {
		fmt.Fprintf(&sb, "Pool: %s\n", m.Pool)
	}
	if m.Grade != "" {
		fmt.Fprintf(&sb, "Grade: %s\n", m.Grade)
	}
	fmt.Fprintf(&sb, "Rating: %v\n", m.Rating)
	if v, ok := m.Rating.Values(); ok {
		fmt.Fprintf(&sb, "Volatility: %.4f\n", v.Volatility)
	}
	fmt.Fprintf(&sb, "Lampert: %.0f\n", float64(m.Lampert))
	fmt.Fprintf(&sb, "Games: %d\n", m.GamesPlayed)

	for i := len(m.History) - 1; i >= 0 && i >= len(m.History)-rounds; i-- {
		e := m.History[i]
		if e.Bye {
			sb.WriteString("  bye\n")
			continue
		}
		color := "black"
		if e.PlayedWhite {
			color = "white"
		}
		fmt.Fprintf(&sb, "  %s vs %s\n", color, c.DisplayName(e.Opponent))
	}
	return sb.String()
}

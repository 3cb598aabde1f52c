/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package chess

// HistoryEntry records one round for one player: either a game against
// Opponent (with the colour played) or a bye.
type HistoryEntry struct {
	Opponent    PlayerID
	PlayedWhite bool
	Bye         bool
}

// Played returns the entry for a game against opponent.
func Played(opponent PlayerID, playedWhite bool) HistoryEntry {
	return HistoryEntry{Opponent: opponent, PlayedWhite: playedWhite}
}

// ByeEntry returns the entry for a round without an opponent.
func ByeEntry() HistoryEntry {
	return HistoryEntry{Bye: true}
}

// History is a player's pairing history, oldest first. It is append-only;
// the distance of an entry from the end is how many rounds ago it happened.
type History []HistoryEntry

// Append returns h with e added as the most recent round. The receiver's
// backing array is never shared with the result.
func (h History) Append(e ...HistoryEntry) History {
	out := make(History, 0, len(h)+len(e))
	out = append(out, h...)
	return append(out, e...)
}

// RecencyPenalty sums 1/(i+1) over every game against opponent, where i is
// the number of rounds since that game (0 for the most recent round).
func (h History) RecencyPenalty(opponent PlayerID) float64 {
	penalty := 0.0
	for idx, e := range h {
		if e.Bye || e.Opponent != opponent {
			continue
		}
		i := len(h) - 1 - idx
		penalty += 1 / float64(i+1)
	}
	return penalty
}

// WhiteFraction returns the share of played games in which the player had
// white. ok is false when the player has not played any game, meaning the
// player has no colour preference.
func (h History) WhiteFraction() (fraction float64, ok bool) {
	played, white := 0, 0
	for _, e := range h {
		if e.Bye {
			continue
		}
		played++
		if e.PlayedWhite {
			white++
		}
	}
	if played == 0 {
		return 0, false
	}
	return float64(white) / float64(played), true
}

// Games returns the number of played (non-bye) rounds.
func (h History) Games() int {
	n := 0
	for _, e := range h {
		if !e.Bye {
			n++
		}
	}
	return n
}

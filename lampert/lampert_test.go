/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package lampert

import (
	"errors"
	"testing"

	"github.com/theGerk/RSI-ChessClub/chess"
)

func TestMatch(t *testing.T) {
	cases := []struct {
		name               string
		white, black       Rating
		result             float64
		wantWhite, wantBlk Rating
	}{
		{name: "favourite wins", white: 1600, black: 1400, result: chess.Win, wantWhite: 1630, wantBlk: 1370},
		{name: "underdog wins", white: 1400, black: 1600, result: chess.Win, wantWhite: 1470, wantBlk: 1530},
		{name: "black underdog wins", white: 1600, black: 1400, result: chess.Loss, wantWhite: 1530, wantBlk: 1470},
		{name: "huge upset is capped", white: 800, black: 2000, result: chess.Win, wantWhite: 900, wantBlk: 1900},
		{name: "huge favourite gets the minimum", white: 2000, black: 800, result: chess.Win, wantWhite: 2001, wantBlk: 799},
		{name: "draw pulls together", white: 1600, black: 1400, result: chess.Draw, wantWhite: 1580, wantBlk: 1420},
		{name: "equal draw moves the minimum", white: 1500, black: 1500, result: chess.Draw, wantWhite: 1501, wantBlk: 1499},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, b := tc.white, tc.black
			if err := Match(&w, &b, tc.result); err != nil {
				t.Fatalf("Match: %v", err)
			}
			if w != tc.wantWhite || b != tc.wantBlk {
				t.Fatalf("Match = %v/%v; want %v/%v", w, b, tc.wantWhite, tc.wantBlk)
			}
			if w+b != tc.white+tc.black {
				t.Fatalf("rating points not conserved")
			}
		})
	}
}

func TestMatchRejectsBadResult(t *testing.T) {
	w, b := Rating(1500), Rating(1500)
	if err := Match(&w, &b, 0.3); !errors.Is(err, chess.ErrInvalidGame) {
		t.Fatalf("expected ErrInvalidGame, got %v", err)
	}
}

func TestUpdatePeriod(t *testing.T) {
	a, b, c := InitialRating, InitialRating, InitialRating
	ratings := map[chess.PlayerID]*Rating{"a": &a, "b": &b, "c": &c}
	games := []chess.Game{
		{White: "a", Black: "b", Result: chess.Win},
		{White: "c", Black: "a", Result: chess.Draw},
	}
	if err := UpdatePeriod(games, ratings); err != nil {
		t.Fatalf("UpdatePeriod: %v", err)
	}
	// a: 1500 -> 1550 (beats equal b), then draws 1500-rated c: pulled by 5
	if a != 1545 || b != 1450 || c != 1505 {
		t.Fatalf("got a=%v b=%v c=%v", a, b, c)
	}

	bad := []chess.Game{{White: "a", Black: "b", Result: chess.Win}, {White: "a", Black: "zed", Result: chess.Win}}
	if err := UpdatePeriod(bad, ratings); !errors.Is(err, chess.ErrInvalidGame) {
		t.Fatalf("expected ErrInvalidGame, got %v", err)
	}
	if a != 1545 {
		t.Fatalf("ratings modified by a rejected period")
	}
}

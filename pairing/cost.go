/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import (
	"fmt"
	"math"

	"github.com/theGerk/RSI-ChessClub/chess"
)

// Cost is what it costs player to face opponent this round. A nil side is
// the bye and costs nothing; so does any pairing involving an unrated
// player, who has no rating to compare and no history to repeat. Otherwise
// the rating gap (plus Epsilon) is multiplied by K raised to the player's
// recency penalty against opponent.
func (e *Engine) Cost(player, opponent *Player) float64 {
	if player == nil || opponent == nil {
		return 0
	}
	pv, ok := player.Rating.Values()
	if !ok {
		return 0
	}
	ov, ok := opponent.Rating.Values()
	if !ok {
		return 0
	}
	gap := math.Abs(pv.Rating-ov.Rating) + e.cfg.Epsilon
	return gap * math.Pow(e.cfg.K, player.History.RecencyPenalty(opponent.ID))
}

// TotalCost sums both directions of every pairing of round. Every id in
// round must belong to players.
func (e *Engine) TotalCost(players []Player, round []Pairing) (float64, error) {
	byID := make(map[chess.PlayerID]*Player, len(players))
	for i := range players {
		byID[players[i].ID] = &players[i]
	}
	lookup := func(id chess.PlayerID) (*Player, error) {
		if id == "" {
			return nil, nil
		}
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("pairing: %v is not in the pool", id)
		}
		return p, nil
	}

	total := 0.0
	for _, pr := range round {
		w, err := lookup(pr.White)
		if err != nil {
			return 0, err
		}
		b, err := lookup(pr.Black)
		if err != nil {
			return 0, err
		}
		total += e.Cost(w, b) + e.Cost(b, w)
	}
	return total, nil
}

// costs caches the directed cost between every two pool members. Index -1
// stands for the bye.
type costs struct {
	n   int
	dir []float64
}

func (e *Engine) costMatrix(players []Player) costs {
	n := len(players)
	c := costs{n: n, dir: make([]float64, n*n)}
	for i := range players {
		for j := range players {
			if i != j {
				c.dir[i*n+j] = e.Cost(&players[i], &players[j])
			}
		}
	}
	return c
}

func (c costs) directed(i, j int) float64 {
	if i < 0 || j < 0 {
		return 0
	}
	return c.dir[i*c.n+j]
}

// board is the two-way cost of one pairing slot.
func (c costs) board(s slot) float64 {
	return c.directed(s.white, s.black) + c.directed(s.black, s.white)
}

func (c costs) total(state []slot) float64 {
	t := 0.0
	for _, s := range state {
		t += c.board(s)
	}
	return t
}

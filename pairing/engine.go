/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/theGerk/RSI-ChessClub/chess"
)

// Strategy selects how a round is searched for.
type Strategy int

const (
	// GreedyHillClimb refines a greedy start by hill climbing. Pair uses it.
	GreedyHillClimb Strategy = iota
	// Greedy stops after the greedy construction.
	Greedy
	// HillClimb hill climbs from a random start.
	HillClimb
	// Random pairs a shuffled pool in order.
	Random
)

// Strategies lists every strategy, most useful first.
var Strategies = []Strategy{GreedyHillClimb, Greedy, HillClimb, Random}

func (s Strategy) String() string {
	switch s {
	case GreedyHillClimb:
		return "greedy+climb"
	case Greedy:
		return "greedy"
	case HillClimb:
		return "climb"
	case Random:
		return "random"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy is the inverse of Strategy.String.
func ParseStrategy(name string) (Strategy, error) {
	for _, s := range Strategies {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("pairing: unknown strategy %q", name)
}

// Engine pairs rounds. It holds no per-round state and may be shared
// between goroutines as long as each call has its own *rand.Rand.
type Engine struct {
	cfg    Config
	logger *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for search diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New returns an engine for cfg.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg, logger: zap.NewNop()}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Pair produces one round for players: every player appears exactly once,
// and an odd pool yields exactly one bye. All randomness is drawn from
// rng, so a fixed seed gives a fixed round. The pool is not modified.
func (e *Engine) Pair(players []Player, rng *rand.Rand) ([]Pairing, error) {
	return e.PairWith(players, rng, GreedyHillClimb)
}

// PairWith is Pair with an explicit search strategy.
func (e *Engine) PairWith(players []Player, rng *rand.Rand,
	strategy Strategy) ([]Pairing, error) {

	if rng == nil {
		return nil, errors.New("pairing: nil random source")
	}
	if err := checkIDs(players); err != nil {
		return nil, err
	}

	c := e.costMatrix(players)
	var state []slot
	switch strategy {
	case GreedyHillClimb, Greedy:
		state = greedy(c, rng)
	case HillClimb, Random:
		state = random(len(players), rng)
	default:
		return nil, fmt.Errorf("pairing: unknown strategy %v", strategy)
	}

	if strategy == GreedyHillClimb || strategy == HillClimb {
		start := c.total(state)
		steps, err := climb(c, state, e.cfg.MaxSteps)
		if err != nil {
			e.logger.Warn("hill climb ran out of budget",
				zap.Int("players", len(players)),
				zap.Int("maxSteps", e.cfg.MaxSteps))
			return nil, err
		}
		e.logger.Debug("paired round",
			zap.Stringer("strategy", strategy),
			zap.Int("players", len(players)),
			zap.Int("steps", steps),
			zap.Float64("startCost", start),
			zap.Float64("cost", c.total(state)))
	}

	return assignColors(players, state), nil
}

func checkIDs(players []Player) error {
	seen := make(map[chess.PlayerID]struct{}, len(players))
	for _, p := range players {
		if p.ID == "" {
			return errors.New("pairing: player with empty id")
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("pairing: %v: %w", p.ID, ErrDuplicatePlayer)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// assignColors turns search slots into pairings. The player who has had
// white more often gets black; if either player has no games to judge by,
// or their fractions are equal, the slot's order stands. The bye always
// goes to White.
func assignColors(players []Player, state []slot) []Pairing {
	round := make([]Pairing, 0, len(state))
	for _, s := range state {
		w, b := s.white, s.black
		if w == bye {
			w, b = b, w
		}
		if b != bye {
			fw, okW := players[w].History.WhiteFraction()
			fb, okB := players[b].History.WhiteFraction()
			if okW && okB && fw > fb {
				w, b = b, w
			}
		}

		pr := Pairing{White: players[w].ID}
		if b != bye {
			pr.Black = players[b].ID
		}
		round = append(round, pr)
	}
	return round
}

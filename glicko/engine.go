/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package glicko

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/theGerk/RSI-ChessClub/chess"
)

// Engine runs rating periods. It holds only configuration and is safe for
// concurrent use.
type Engine struct {
	cfg    Config
	logger *zap.Logger
}

// Option customises an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for period summaries (debug level only).
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New returns an engine for cfg.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

type outcome struct {
	mu    float64
	phi   float64
	score float64
}

// UpdatePeriod applies one rating period. Every game must reference two
// distinct players present in ratings. Unrated players who play are first
// given the configured initial values; rated players who do not play have
// their deviation inflated; unrated players who do not play stay unrated.
//
// All opponents are evaluated at their pre-period values. On error no rating
// is modified. Calling it twice with the same games rates the period twice.
func (e *Engine) UpdatePeriod(games []chess.Game, ratings map[chess.PlayerID]*Rating) error {
	for _, gm := range games {
		if err := gm.Validate(); err != nil {
			return err
		}
		for _, id := range [2]chess.PlayerID{gm.White, gm.Black} {
			if r, ok := ratings[id]; !ok || r == nil {
				return fmt.Errorf("%w: unknown player %v in %v", ErrInvalidGame, id, gm)
			}
		}
	}

	start := make(map[chess.PlayerID]state, len(ratings))
	for id, r := range ratings {
		if r != nil && r.rated {
			start[id] = e.cfg.toInternal(r.v)
		}
	}
	initial := e.cfg.toInternal(e.cfg.Initial().v)
	for _, gm := range games {
		for _, id := range [2]chess.PlayerID{gm.White, gm.Black} {
			if _, ok := start[id]; !ok {
				start[id] = initial
			}
		}
	}

	outcomes := make(map[chess.PlayerID][]outcome, len(start))
	for _, gm := range games {
		w, b := start[gm.White], start[gm.Black]
		outcomes[gm.White] = append(outcomes[gm.White], outcome{mu: b.mu, phi: b.phi, score: gm.Result})
		outcomes[gm.Black] = append(outcomes[gm.Black], outcome{mu: w.mu, phi: w.phi, score: 1 - gm.Result})
	}

	next := make(map[chess.PlayerID]Values, len(start))
	for id, st := range start {
		obs := outcomes[id]
		if len(obs) == 0 {
			next[id] = e.cfg.fromInternal(st.sitOut())
			continue
		}
		updated, err := e.cfg.update(st, obs)
		if err != nil {
			return fmt.Errorf("glicko.UpdatePeriod: rating %v: %w", id, err)
		}
		next[id] = e.cfg.fromInternal(updated)
	}

	for id, v := range next {
		*ratings[id] = Rating{v: v, rated: true}
	}

	e.logger.Debug("glicko.UpdatePeriod: period rated",
		zap.Int("games", len(games)),
		zap.Int("competitors", len(outcomes)),
		zap.Int("inactive", len(next)-len(outcomes)))

	return nil
}

// update runs steps 3 to 7 of the Glicko-2 procedure for one player. The
// rating moves by the new φ′² as in the paper, not by φ*², so recalculated
// ratings differ slightly from those the club recorded before.
func (c Config) update(st state, obs []outcome) (state, error) {
	info, sum := 0.0, 0.0
	for _, o := range obs {
		gj := g(o.phi)
		ej := expect(st.mu, o.mu, o.phi)
		info += gj * gj * ej * (1 - ej)
		sum += gj * (o.score - ej)
	}
	v := 1 / info
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return state{}, fmt.Errorf("%w: degenerate variance", ErrConvergenceFailure)
	}
	delta := v * sum

	sigma, err := c.newVolatility(st.phi, st.sigma, v, delta)
	if err != nil {
		return state{}, err
	}

	phiStar := math.Sqrt(st.phi*st.phi + sigma*sigma)
	phi := 1 / math.Sqrt(1/(phiStar*phiStar)+1/v)
	return state{
		mu:    st.mu + phi*phi*sum,
		phi:   phi,
		sigma: sigma,
	}, nil
}

// Expected returns the probability that a scores against b, folding both
// deviations into the uncertainty. Both ratings must be rated.
func (e *Engine) Expected(a, b Rating) (float64, error) {
	if !a.rated || !b.rated {
		return 0, fmt.Errorf("glicko: expected score needs two rated players (%v vs %v)", a, b)
	}
	sa, sb := e.cfg.toInternal(a.v), e.cfg.toInternal(b.v)
	return expect(sa.mu, sb.mu, math.Hypot(sa.phi, sb.phi)), nil
}

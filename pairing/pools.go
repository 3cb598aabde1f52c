/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package pairing

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"

	"github.com/twmb/murmur3"
	"golang.org/x/sync/errgroup"

	"github.com/theGerk/RSI-ChessClub/chess"
)

// PoolRand returns the random source PairPools uses for pool. The stream
// depends only on seed and the pool's name, so pools can be paired
// concurrently and still reproduce.
func PoolRand(seed uint64, pool string) *rand.Rand {
	return rand.New(rand.NewPCG(seed, murmur3.StringSum64(pool)))
}

// PairPools pairs every pool independently. No player may appear in more
// than one pool. Either every pool is paired or an error is returned.
func (e *Engine) PairPools(ctx context.Context, pools map[string][]Player,
	seed uint64) (map[string][]Pairing, error) {

	owner := make(map[chess.PlayerID]string)
	for name, players := range pools {
		for _, p := range players {
			if other, ok := owner[p.ID]; ok && other != name {
				return nil, fmt.Errorf("pairing: %v in pools %q and %q: %w",
					p.ID, other, name, ErrDuplicatePlayer)
			}
			owner[p.ID] = name
		}
	}

	var (
		mu  sync.Mutex
		out = make(map[string][]Pairing, len(pools))
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for name, players := range pools {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			round, err := e.Pair(players, PoolRand(seed, name))
			if err != nil {
				return fmt.Errorf("pool %q: %w", name, err)
			}
			mu.Lock()
			out[name] = round
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

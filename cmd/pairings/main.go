/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"maps"
	"net/http"
	"os"
	"slices"

	"go.uber.org/zap"

	"github.com/theGerk/RSI-ChessClub/chess"
	"github.com/theGerk/RSI-ChessClub/internal"
	"github.com/theGerk/RSI-ChessClub/pairing"
	"github.com/theGerk/RSI-ChessClub/registration"
)

func main() {
	ctx := context.Background()
	cfg, err := internal.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v: %v\n", os.Args[0], err)
		os.Exit(1)
	}
	url, seed, official := parseArgs(cfg.Seed)
	cfg.Seed = seed

	logger, err := internal.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v: %v\n", os.Args[0], err)
		os.Exit(1)
	}
	defer logger.Sync()

	client := internal.NewCachedHttpClient(ctx, cfg.CacheBucket, cfg.CacheTTL, logger)
	if err := predict(ctx, os.Stdout, client, url, official, cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "%v: %v\n", os.Args[0], err)
		os.Exit(1)
	}
}

func parseArgs(seed uint64) (string, uint64, bool) {
	flag.Usage = usage
	flag.Uint64Var(&seed, "seed", seed, "pairing seed (0 draws a fresh one)")
	official := flag.Bool("official", true, "replace reported ratings with official ones")
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	return flag.Arg(0), seed, *official
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(),
		"Usage:\n\n%v [-seed N] [-official=false] <url>\n\nFetch tournament registration <url> and predict first round pairings.\n",
		os.Args[0])
	flag.PrintDefaults()
}

// predict fetches the registration at url, pairs every section and writes
// the boards to out.
func predict(ctx context.Context, out io.Writer, client *http.Client, url string,
	official bool, cfg internal.Config, logger *zap.Logger) error {

	sections, err := registration.Fetch(ctx, client, url)
	if err != nil {
		return fmt.Errorf("failed to retrieve %v: %w", url, err)
	}
	if official {
		if err := registration.Refresh(ctx, client, sections, logger); err != nil {
			return err
		}
	}
	ev, err := registration.NewEvent(sections, cfg.Glicko.Engine())
	if err != nil {
		return err
	}
	engine, err := pairing.New(cfg.Pairing.Engine(), pairing.WithLogger(logger))
	if err != nil {
		return err
	}
	seed, err := internal.SeedOr(cfg.Seed)
	if err != nil {
		return err
	}
	rounds, err := engine.PairPools(ctx, ev.Pools, seed)
	if err != nil {
		return err
	}
	logger.Debug("pairings: predicted", zap.Uint64("seed", seed),
		zap.Int("sections", len(rounds)), zap.Int("entrants", len(ev.Entrants)))

	outputSectionPairings(out, ev, rounds)
	return nil
}

func outputSectionPairings(out io.Writer, ev *registration.Event,
	rounds map[string][]pairing.Pairing) {

	text := func(id chess.PlayerID) string {
		e := ev.Entrants[id]
		return fmt.Sprintf("%s(%s)", e.Name, e.DisplayRating())
	}

	fmt.Fprintf(out, "Predicted Pairings:\n")
	sections := slices.Sorted(maps.Keys(ev.Pools))
	for sec := range ev.Byes {
		if _, ok := ev.Pools[sec]; !ok {
			sections = append(sections, sec)
		}
	}
	slices.Sort(sections)

	boardNum := 1
	for _, sec := range sections {
		if sec != "" {
			fmt.Fprintf(out, "Section: %s\n", sec)
		}
		var odd []chess.PlayerID
		for _, p := range rounds[sec] {
			if p.IsBye() {
				odd = append(odd, p.White)
				continue
			}
			fmt.Fprintf(out, "  Board %d: %s vs. %s\n", boardNum, text(p.White), text(p.Black))
			boardNum++
		}
		for _, id := range ev.Byes[sec] {
			fmt.Fprintf(out, "  BYE(%v): %s\n", 0.5, text(id))
		}
		for _, id := range odd {
			fmt.Fprintf(out, "  BYE(%v): %s\n", 1, text(id))
		}
		fmt.Fprintf(out, "\n")
	}
}

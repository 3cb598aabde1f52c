/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/theGerk/RSI-ChessClub/club"
	"github.com/theGerk/RSI-ChessClub/glicko"
	"github.com/theGerk/RSI-ChessClub/internal"
	"github.com/theGerk/RSI-ChessClub/pairing"
	"github.com/theGerk/RSI-ChessClub/store"
)

//go:embed help.txt
var helpText string

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, a *app, args []string) error

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":        handleHelp,
	"init":        handleInit,
	"add":         handleAdd,
	"rename":      handleRename,
	"merge":       handleMerge,
	"pair":        handlePair,
	"record":      handleRecord,
	"recalculate": handleRecalculate,
	"standings":   handleStandings,
	"show":        handleShow,
	"compare":     handleCompare,
}

// app is what every command works with.
type app struct {
	cfg     internal.Config
	logger  *zap.Logger
	store   store.Store
	glicko  *glicko.Engine
	pairing *pairing.Engine
	out     io.Writer
}

func newApp(ctx context.Context, out io.Writer) (*app, error) {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := internal.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg.Store, cfg.S3Gzip, logger)
	if err != nil {
		return nil, err
	}
	g, err := glicko.New(cfg.Glicko.Engine(), glicko.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	p, err := pairing.New(cfg.Pairing.Engine(), pairing.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, store: st, glicko: g, pairing: p, out: out}, nil
}

func (a *app) load(ctx context.Context) (*club.Club, error) {
	snap, err := a.store.Load(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w; run 'clubtd init' first", err)
	}
	if err != nil {
		return nil, err
	}
	return club.FromSnapshot(snap, club.WithLogger(a.logger))
}

func (a *app) save(ctx context.Context, c *club.Club) error {
	return a.store.Save(ctx, c.Snapshot())
}

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	handler, ok := commands[cmd]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}

	a, err := newApp(ctx, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v: %v\n", os.Args[0], err)
		os.Exit(1)
	}
	defer a.logger.Sync()

	if err := handler(ctx, a, os.Args[2:]); err != nil {
		a.logger.Sync()
		fmt.Fprintf(os.Stderr, "%v %v: %v\n", os.Args[0], cmd, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Printf("%v", helpText)
}

func handleHelp(ctx context.Context, a *app, args []string) error {
	fmt.Fprint(a.out, helpText)
	return nil
}

func handleInit(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	force := fs.Bool("force", false, "Overwrite an existing club")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := a.store.Load(ctx); err == nil && !*force {
		return errors.New("a club already exists; use --force to overwrite it")
	} else if err != nil && !errors.Is(err, store.ErrNotFound) && !*force {
		return err
	}
	if err := a.save(ctx, club.New()); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created an empty club in %v\n", a.cfg.Store)
	return nil
}

func handleAdd(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	name := fs.String("name", "", "Member's name")
	pool := fs.String("pool", "", "Pairing pool the member usually plays in")
	grade := fs.String("grade", "", "Member's grade")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		fs.Usage()
		return errors.New("please provide --name")
	}

	c, err := a.load(ctx)
	if err != nil {
		return err
	}
	m, err := c.AddMember(*name, *pool)
	if err != nil {
		return err
	}
	m.Grade = *grade
	if err := a.save(ctx, c); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %v (%v)\n", m.Name, m.ID)
	return nil
}

func handleRename(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("rename", flag.ContinueOnError)
	player := fs.String("player", "", "Member name or id")
	name := fs.String("name", "", "New name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := a.load(ctx)
	if err != nil {
		return err
	}
	m, err := c.Lookup(*player)
	if err != nil {
		return err
	}
	old := m.Name
	if err := c.Rename(m.ID, *name); err != nil {
		return err
	}
	if err := a.save(ctx, c); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Renamed %v to %v\n", old, m.Name)
	return nil
}

func handleMerge(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("merge", flag.ContinueOnError)
	dup := fs.String("dup", "", "Duplicate member to remove")
	into := fs.String("into", "", "Member to keep")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := a.load(ctx)
	if err != nil {
		return err
	}
	from, err := c.Lookup(*dup)
	if err != nil {
		return err
	}
	keep, err := c.Lookup(*into)
	if err != nil {
		return err
	}
	fromName := from.Name
	if err := c.Merge(a.glicko, from.ID, keep.ID); err != nil {
		return err
	}
	if err := a.save(ctx, c); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Merged %v into %v\n", fromName, keep.Name)
	return nil
}

func handlePair(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("pair", flag.ContinueOnError)
	attPath := fs.String("attendance", "", "Attendance YAML file")
	seedFlag := fs.Uint64("seed", a.cfg.Seed, "Pairing seed (0 for a random one)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := a.load(ctx)
	if err != nil {
		return err
	}
	att, err := readAttendance(*attPath, c)
	if err != nil {
		return err
	}
	seed, err := internal.SeedOr(*seedFlag)
	if err != nil {
		return err
	}
	rounds, err := c.GeneratePairings(ctx, a.pairing, att, seed)
	if err != nil {
		return err
	}
	if err := a.save(ctx, c); err != nil {
		return err
	}
	fmt.Fprint(a.out, c.BuildPairingsOutput(rounds))
	fmt.Fprintf(a.out, "Seed: %d\n", seed)
	return nil
}

func handleRecord(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("record", flag.ContinueOnError)
	resPath := fs.String("results", "", "Results YAML file")
	date := fs.String("date", "", "Date of the round (default: the file's date, else today)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := a.load(ctx)
	if err != nil {
		return err
	}
	res, err := readResults(*resPath)
	if err != nil {
		return err
	}
	if *date != "" {
		res.Date = *date
	}
	round, err := res.round(c)
	if err != nil {
		return err
	}
	if err := c.RecordRound(a.glicko, round); err != nil {
		return err
	}
	if err := a.save(ctx, c); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Recorded %d games, %d byes and %d other games for %v\n",
		len(round.Games), len(round.Byes), len(round.Other), internal.FormatDate(round.Date))
	return nil
}

func handleRecalculate(ctx context.Context, a *app, args []string) error {
	c, err := a.load(ctx)
	if err != nil {
		return err
	}
	if err := c.Recalculate(a.glicko); err != nil {
		return err
	}
	if err := a.save(ctx, c); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Replayed %d rounds\n", len(c.Log))
	return nil
}

func handleStandings(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("standings", flag.ContinueOnError)
	pool := fs.String("pool", "", "Only show this pool")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, err := a.load(ctx)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, club.BuildStandingsOutput(c.Standings(*pool)))
	return nil
}

func handleShow(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	player := fs.String("player", "", "Member name or id")
	rounds := fs.Int("rounds", 5, "Number of recent rounds to list")
	vs := fs.String("vs", "", "Also show the expected score against this member")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, err := a.load(ctx)
	if err != nil {
		return err
	}
	m, err := c.Lookup(*player)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, c.BuildMemberOutput(m, *rounds))
	if *vs == "" {
		return nil
	}
	o, err := c.Lookup(*vs)
	if err != nil {
		return err
	}
	p, err := a.glicko.Expected(m.Rating, o.Rating)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Expected score vs %s: %.2f\n", o.Name, p)
	return nil
}

func handleCompare(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	attPath := fs.String("attendance", "", "Attendance YAML file")
	runs := fs.Int("runs", 20, "Runs per strategy")
	seedFlag := fs.Uint64("seed", a.cfg.Seed, "Seed (0 for a random one)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := a.load(ctx)
	if err != nil {
		return err
	}
	att, err := readAttendance(*attPath, c)
	if err != nil {
		return err
	}
	pools, err := c.Pools(att)
	if err != nil {
		return err
	}
	seed, err := internal.SeedOr(*seedFlag)
	if err != nil {
		return err
	}
	for _, name := range sortedKeys(pools) {
		stats, err := a.pairing.Compare(pools[name], pairing.Strategies, *runs, seed)
		if err != nil {
			return fmt.Errorf("pool %q: %w", name, err)
		}
		fmt.Fprintf(a.out, "Pool: %s (%d players)\n", name, len(pools[name]))
		for _, s := range stats {
			fmt.Fprintf(a.out, "  %v\n", s)
		}
	}
	return nil
}

/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t   *testing.T
	dir string
	app *app
	out *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	dir := t.TempDir()
	t.Setenv("CLUB_STORE", filepath.Join(dir, "club.yaml"))
	t.Setenv("CLUB_LOG_LEVEL", "error")
	var out bytes.Buffer
	a, err := newApp(context.Background(), &out)
	require.NoError(t, err)
	return &harness{t: t, dir: dir, app: a, out: &out}
}

func (h *harness) run(cmd string, args ...string) (string, error) {
	h.t.Helper()
	h.out.Reset()
	err := commands[cmd](context.Background(), h.app, args)
	return h.out.String(), err
}

func (h *harness) must(cmd string, args ...string) string {
	h.t.Helper()
	out, err := h.run(cmd, args...)
	require.NoError(h.t, err, "clubtd %v %v", cmd, args)
	return out
}

func (h *harness) file(name, body string) string {
	h.t.Helper()
	p := filepath.Join(h.dir, name)
	require.NoError(h.t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestClubLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.run("standings")
	assert.ErrorContains(t, err, "clubtd init")

	h.must("init")
	_, err = h.run("init")
	assert.Error(t, err)

	for _, name := range []string{"Ann Lee", "Bob Stone", "Cy Young", "Di Prince", "Ed Wood"} {
		assert.Contains(t, h.must("add", "--name", name, "--pool", "open"), name)
	}
	_, err = h.run("add", "--pool", "open")
	assert.Error(t, err)

	att := h.file("attendance.yaml", `
Ann Lee: {attending: true, pair: true}
bob stone: {attending: true, pair: true}
Cy: {attending: true, pair: true}
Di Prince: {attending: true, pair: true}
Ed Wood: {attending: true, pair: false}
`)
	out := h.must("pair", "--attendance", att, "--seed", "7")
	assert.Contains(t, out, "Pool: open")
	assert.Contains(t, out, "Board 2:")
	assert.Contains(t, out, "Seed: 7")

	c, err := h.app.load(ctx)
	require.NoError(t, err)
	require.Len(t, c.Pending["open"], 2)
	var results strings.Builder
	results.WriteString("date: 2024-03-01\nresults:\n")
	for _, p := range c.Pending["open"] {
		fmt.Fprintf(&results, "  %v: W\n", c.DisplayName(p.White))
	}
	results.WriteString("other:\n  - {white: Ed Wood, black: Ann Lee, result: D}\n")
	out = h.must("record", "--results", h.file("results.yaml", results.String()))
	assert.Contains(t, out, "Recorded 2 games, 0 byes and 1 other games for 2024-03-01")

	standings := h.must("standings", "--pool", "open")
	for _, name := range []string{"Ann Lee", "Bob Stone", "Cy Young", "Di Prince", "Ed Wood"} {
		assert.Contains(t, standings, name)
	}
	assert.NotContains(t, standings, "unrated")

	out = h.must("show", "--player", "ann")
	assert.Contains(t, out, "Games: 2")
	assert.Contains(t, h.must("show", "--player", "ann", "--vs", "bob"), "Expected score vs Bob Stone: 0.")

	manual := h.file("manual.yaml", `
date: 2024-03-08
games:
  - {white: Bob Stone, black: Cy Young, result: 1-0}
  - {white: Di Prince, black: Ed Wood, result: 0-1}
byes: [Ann Lee]
`)
	h.must("record", "--results", manual)
	assert.Contains(t, h.must("recalculate"), "Replayed 2 rounds")

	h.must("rename", "--player", "Ed Wood", "--name", "Edward Wood")
	assert.Contains(t, h.must("show", "--player", "edward"), "Games: 2")

	h.must("add", "--name", "Edward W", "--pool", "open")
	assert.Contains(t, h.must("merge", "--dup", "Edward W", "--into", "Edward Wood"), "Merged")

	att = h.file("attendance2.yaml", `
Ann Lee: {attending: true, pair: true}
Bob Stone: {attending: true, pair: true}
Cy Young: {attending: true, pair: true}
Edward Wood: {attending: true, pair: true, pool: open}
`)
	out = h.must("compare", "--attendance", att, "--runs", "3", "--seed", "1")
	assert.Contains(t, out, "Pool: open (4 players)")
	assert.Contains(t, out, "greedy+climb")
	assert.Contains(t, out, "random")
}

func TestRecordRejectsBadResults(t *testing.T) {
	h := newHarness(t)
	h.must("init")
	h.must("add", "--name", "Ann", "--pool", "open")
	h.must("add", "--name", "Bob", "--pool", "open")

	tests := map[string]string{
		"no pending":   "results: {Ann: W}\n",
		"bad result":   "games: [{white: Ann, black: Bob, result: X}]\n",
		"unknown name": "games: [{white: Ann, black: Zed, result: W}]\n",
		"both kinds":   "results: {Ann: W}\ngames: [{white: Ann, black: Bob, result: W}]\n",
		"self play":    "games: [{white: Ann, black: Ann, result: W}]\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := h.run("record", "--results", h.file("r.yaml", body))
			assert.Error(t, err)
		})
	}

	out := h.must("standings")
	assert.Equal(t, 2, strings.Count(out, "unrated"))
}

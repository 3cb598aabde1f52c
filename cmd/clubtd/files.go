/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/theGerk/RSI-ChessClub/chess"
	"github.com/theGerk/RSI-ChessClub/club"
)

func readYAML(path string, v any) error {
	if path == "" {
		return errors.New("no input file given")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%v: %w", path, err)
	}
	return nil
}

// readAttendance loads a sheet keyed by member name or id.
func readAttendance(path string, c *club.Club) (club.Attendance, error) {
	var sheet map[string]club.AttendanceEntry
	if err := readYAML(path, &sheet); err != nil {
		return nil, err
	}
	att := make(club.Attendance, len(sheet))
	for name, e := range sheet {
		m, err := c.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", path, err)
		}
		if _, dup := att[m.ID]; dup {
			return nil, fmt.Errorf("%v: %v is listed twice", path, m.Name)
		}
		att[m.ID] = e
	}
	return att, nil
}

type gameLine struct {
	White  string `yaml:"white"`
	Black  string `yaml:"black"`
	Result string `yaml:"result"`
}

// resultsFile describes one club day. Results refer to the pending
// pairings by white's name; Games and Byes describe a round paired by
// hand instead.
type resultsFile struct {
	Date    string            `yaml:"date"`
	Results map[string]string `yaml:"results"`
	Games   []gameLine        `yaml:"games"`
	Byes    []string          `yaml:"byes"`
	Other   []gameLine        `yaml:"other"`
}

func readResults(path string) (*resultsFile, error) {
	var f resultsFile
	if err := readYAML(path, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *resultsFile) round(c *club.Club) (chess.Round, error) {
	date := time.Now().Truncate(24 * time.Hour)
	if f.Date != "" {
		d, err := chess.ParseRoundDate(f.Date)
		if err != nil {
			return chess.Round{}, err
		}
		date = d
	}

	other, err := games(c, f.Other)
	if err != nil {
		return chess.Round{}, err
	}

	if len(f.Games) > 0 || len(f.Byes) > 0 {
		if len(f.Results) > 0 {
			return chess.Round{}, errors.New("give either results for the pending pairings or games, not both")
		}
		r := chess.Round{Date: date, Other: other}
		if r.Games, err = games(c, f.Games); err != nil {
			return chess.Round{}, err
		}
		for _, name := range f.Byes {
			m, err := c.Lookup(name)
			if err != nil {
				return chess.Round{}, err
			}
			r.Byes = append(r.Byes, m.ID)
		}
		return r, r.Validate()
	}

	if len(c.Pending) == 0 && len(f.Results) > 0 {
		return chess.Round{}, errors.New("no pending pairings; run 'clubtd pair' first or list the games")
	}
	results := make(map[chess.PlayerID]float64, len(f.Results))
	for name, code := range f.Results {
		m, err := c.Lookup(name)
		if err != nil {
			return chess.Round{}, err
		}
		res, err := chess.ParseResult(code)
		if err != nil {
			return chess.Round{}, fmt.Errorf("%v: %w", m.Name, err)
		}
		results[m.ID] = res
	}
	r, err := c.PendingRound(results, other)
	if err != nil {
		return chess.Round{}, err
	}
	r.Date = date
	return r, nil
}

func games(c *club.Club, lines []gameLine) ([]chess.Game, error) {
	out := make([]chess.Game, 0, len(lines))
	for _, l := range lines {
		w, err := c.Lookup(l.White)
		if err != nil {
			return nil, err
		}
		b, err := c.Lookup(l.Black)
		if err != nil {
			return nil, err
		}
		res, err := chess.ParseResult(l.Result)
		if err != nil {
			return nil, fmt.Errorf("%v vs %v: %w", w.Name, b.Name, err)
		}
		out = append(out, chess.Game{White: w.ID, Black: b.ID, Result: res})
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

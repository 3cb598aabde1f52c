/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package registration reads online tournament registration pages and turns
// the entrants into pairing pools.
package registration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/theGerk/RSI-ChessClub/chess"
	"github.com/theGerk/RSI-ChessClub/glicko"
	"github.com/theGerk/RSI-ChessClub/pairing"
)

// Entrant is one row of a registration table.
type Entrant struct {
	// ID is the entrant's player id: "uscf:<id>" when the entrant has a
	// member id, otherwise a random id assigned once when the row is read.
	ID      chess.PlayerID
	USCFID  string
	Name    string
	Section string
	// Rating is the rating the entrant reported, or the official one after
	// Refresh; 0 means unrated.
	Rating int
	// Official is set once Rating comes from the rating agency.
	Official bool
	// ByeRequested means the entrant asked to sit out round 1.
	ByeRequested bool
}

func entrantID(uscfID string) chess.PlayerID {
	if uscfID != "" {
		return chess.PlayerID("uscf:" + uscfID)
	}
	return chess.NewPlayerID()
}

// DisplayRating shows "unrated" for 0 and marks self reported ratings
// with a trailing '*'.
func (e Entrant) DisplayRating() string {
	ret := "unrated"
	if e.Rating > 0 {
		ret = strconv.Itoa(e.Rating)
	}
	if !e.Official {
		ret += "*"
	}
	return ret
}

var reUscfID = regexp.MustCompile(`MbrDtlMain\.php\?(\d{6,8})`)

// Parse reads the members table of a registration page and groups the
// entrants by section. The column order is taken from the table header.
func Parse(r io.Reader) (map[string][]Entrant, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("registration.Parse: %w", err)
	}

	table := doc.Find("table#members").First()
	if table.Length() == 0 {
		return nil, errors.New("registration.Parse: no members table")
	}

	idIdx, secIdx, nameIdx, rateIdx, byesIdx := -1, -1, -1, -1, -1
	table.Find("thead th").Each(func(i int, th *goquery.Selection) {
		switch strings.ToLower(strings.TrimSpace(th.Text())) {
		case "uscf id":
			idIdx = i
		case "section":
			secIdx = i
		case "name":
			nameIdx = i
		case "rating":
			rateIdx = i
		case "byes":
			byesIdx = i
		}
	})
	if nameIdx < 0 {
		return nil, errors.New("registration.Parse: members table has no name column")
	}

	cell := func(cells *goquery.Selection, idx int) *goquery.Selection {
		if idx < 0 || idx >= cells.Length() {
			return nil
		}
		return cells.Eq(idx)
	}
	text := func(s *goquery.Selection) string {
		if s == nil {
			return ""
		}
		return strings.TrimSpace(s.Text())
	}

	sections := make(map[string][]Entrant)
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() <= nameIdx {
			return
		}

		e := Entrant{
			Section:      text(cell(cells, secIdx)),
			Name:         normalizeName(text(cell(cells, nameIdx))),
			ByeRequested: round1ByeRequested(text(cell(cells, byesIdx))),
		}
		if e.Name == "" {
			e.Name = "Unknown"
		}
		if c := cell(cells, idIdx); c != nil {
			html, _ := c.Html()
			if m := reUscfID.FindStringSubmatch(html); m != nil {
				e.USCFID = m[1]
			} else if id := text(c); isDigits(id) {
				e.USCFID = id
			}
		}
		if r, err := strconv.Atoi(text(cell(cells, rateIdx))); err == nil && r > 0 {
			e.Rating = r
		}
		e.ID = entrantID(e.USCFID)
		sections[e.Section] = append(sections[e.Section], e)
	})
	return sections, nil
}

// Fetch downloads and parses a registration page.
func Fetch(ctx context.Context, client *http.Client, url string) (map[string][]Entrant, error) {
	body, err := get(ctx, client, url)
	if err != nil {
		return nil, fmt.Errorf("registration.Fetch: %w", err)
	}
	defer body.Close()
	return Parse(body)
}

func get(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %v: status %s", url, resp.Status)
	}
	return resp.Body, nil
}

// Event is a registration list ready to be paired.
type Event struct {
	Pools map[string][]pairing.Player
	// Byes lists, per section, the entrants who asked to sit out round 1.
	// They are not in Pools.
	Byes     map[string][]chess.PlayerID
	Entrants map[chess.PlayerID]Entrant
}

// NewEvent turns sections into pairing pools. A reported rating becomes a
// rated value with the configured initial deviation and volatility.
func NewEvent(sections map[string][]Entrant, cfg glicko.Config) (*Event, error) {
	ev := &Event{
		Pools:    make(map[string][]pairing.Player, len(sections)),
		Byes:     make(map[string][]chess.PlayerID),
		Entrants: make(map[chess.PlayerID]Entrant),
	}
	for sec, list := range sections {
		for i := range list {
			if list[i].ID == "" {
				list[i].ID = entrantID(list[i].USCFID)
			}
			e := list[i]
			id := e.ID
			if _, dup := ev.Entrants[id]; dup {
				return nil, fmt.Errorf("registration.NewEvent: %v registered twice", id)
			}
			ev.Entrants[id] = e
			if e.ByeRequested {
				ev.Byes[sec] = append(ev.Byes[sec], id)
				continue
			}
			p := pairing.Player{ID: id, Name: e.Name}
			if e.Rating > 0 {
				r, err := glicko.Rated(glicko.Values{
					Rating:     float64(e.Rating),
					Deviation:  cfg.InitialDeviation,
					Volatility: cfg.InitialVolatility,
				})
				if err != nil {
					return nil, fmt.Errorf("registration.NewEvent: %v: %w", e.Name, err)
				}
				p.Rating = r
			}
			ev.Pools[sec] = append(ev.Pools[sec], p)
		}
	}
	return ev, nil
}

var (
	reNumOnly  = regexp.MustCompile(`^\d+$`)
	reByeList  = regexp.MustCompile(`(?i)\b(?:round|rnd|rounds|rnds)\b[\s:]*((?:\d+(?:\s*[,&;/]\s*\d+)*))`)
	reByeRound = regexp.MustCompile(`\d+`)
)

// round1ByeRequested understands "1" as well as lists such as "round 1,5"
// or "rnds 1&4".
func round1ByeRequested(req string) bool {
	s := strings.TrimSpace(req)
	if s == "" {
		return false
	}
	if reNumOnly.MatchString(s) {
		n, err := strconv.Atoi(s)
		return err == nil && n == 1
	}
	if m := reByeList.FindStringSubmatch(strings.ToLower(s)); m != nil {
		for _, d := range reByeRound.FindAllString(m[1], -1) {
			if n, err := strconv.Atoi(d); err == nil && n == 1 {
				return true
			}
		}
	}
	return false
}

// normalizeName reduces a name to "First Last" in title case.
func normalizeName(s string) string {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return ""
	}
	title := func(w string) string {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		return string(r)
	}
	first, last := title(parts[0]), title(parts[len(parts)-1])
	if first == last {
		return first
	}
	return first + " " + last
}

func isDigits(s string) bool {
	return s != "" && strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) < 0
}

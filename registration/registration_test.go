/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package registration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theGerk/RSI-ChessClub/chess"
	"github.com/theGerk/RSI-ChessClub/glicko"
)

const page = `<html><body>
<table id="members">
<thead><tr><th>USCF ID</th><th>Section</th><th>Name</th><th>Rating</th><th>Byes</th></tr></thead>
<tbody>
<tr><td><a href="https://www.uschess.org/msa/MbrDtlMain.php?12345678">12345678</a></td><td>Open</td><td>MAGNUS  q  carlsen</td><td>2830</td><td></td></tr>
<tr><td>87654321</td><td>Open</td><td>Judit Polgar</td><td>unrated</td><td>rounds 1&amp;4</td></tr>
<tr><td></td><td>U1200</td><td>new kid</td><td></td><td>2</td></tr>
<tr><td></td><td>U1200</td><td></td><td>900</td><td>1</td></tr>
<tr><td>short row</td></tr>
</tbody>
</table>
</body></html>`

func TestParse(t *testing.T) {
	got, err := Parse(strings.NewReader(page))
	require.NoError(t, err)

	// entrants without a member id get a random id; it must be set once
	// and differ between rows
	kids := got["U1200"]
	require.Len(t, kids, 2)
	assert.NotEmpty(t, kids[0].ID)
	assert.NotEqual(t, kids[0].ID, kids[1].ID)
	kids[0].ID, kids[1].ID = "", ""

	want := map[string][]Entrant{
		"Open": {
			{ID: "uscf:12345678", USCFID: "12345678", Name: "Magnus Carlsen", Section: "Open", Rating: 2830},
			{ID: "uscf:87654321", USCFID: "87654321", Name: "Judit Polgar", Section: "Open", ByeRequested: true},
		},
		"U1200": {
			{Name: "New Kid", Section: "U1200"},
			{Name: "Unknown", Section: "U1200", Rating: 900, ByeRequested: true},
		},
	}
	assert.Equal(t, want, got)
}

func TestParseWithoutTable(t *testing.T) {
	_, err := Parse(strings.NewReader("<html><body><p>closed</p></body></html>"))
	assert.Error(t, err)
}

func TestRound1ByeRequested(t *testing.T) {
	tests := map[string]bool{
		"":            false,
		"1":           true,
		"2":           false,
		"round 1,5":   true,
		"Rnds 3&1":    true,
		"rounds 2/3":  false,
		"rnd: 1":      true,
		"first round": false,
	}
	for in, want := range tests {
		assert.Equal(t, want, round1ByeRequested(in), "%q", in)
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Ann Lee", normalizeName("ANN  marie LEE"))
	assert.Equal(t, "Cher", normalizeName("cher"))
	assert.Equal(t, "", normalizeName("   "))
}

func TestNewEvent(t *testing.T) {
	sections, err := Parse(strings.NewReader(page))
	require.NoError(t, err)

	ev, err := NewEvent(sections, glicko.DefaultConfig())
	require.NoError(t, err)

	require.Len(t, ev.Pools["Open"], 1)
	magnus := ev.Pools["Open"][0]
	assert.Equal(t, chess.PlayerID("uscf:12345678"), magnus.ID)
	v, ok := magnus.Rating.Values()
	require.True(t, ok)
	assert.Equal(t, glicko.Values{Rating: 2830, Deviation: 350, Volatility: 0.06}, v)

	assert.Equal(t, []chess.PlayerID{"uscf:87654321"}, ev.Byes["Open"])
	require.Len(t, ev.Pools["U1200"], 1)
	assert.False(t, glicko.IsRated(ev.Pools["U1200"][0].Rating))
	assert.Len(t, ev.Byes["U1200"], 1)
	assert.Len(t, ev.Entrants, 4)
	for _, list := range sections {
		for _, e := range list {
			assert.Equal(t, e, ev.Entrants[e.ID], "entrant %v", e.Name)
		}
	}
	kid := ev.Pools["U1200"][0].ID
	assert.Equal(t, "New Kid", ev.Entrants[kid].Name)

	// hand built entrants get their id assigned in place
	manual := map[string][]Entrant{"Open": {{Name: "Walk In"}}}
	ev, err = NewEvent(manual, glicko.DefaultConfig())
	require.NoError(t, err)
	require.NotEmpty(t, manual["Open"][0].ID)
	assert.Equal(t, manual["Open"][0].ID, ev.Pools["Open"][0].ID)

	dup := map[string][]Entrant{"a": {{USCFID: "1"}}, "b": {{USCFID: "1"}}}
	_, err = NewEvent(dup, glicko.DefaultConfig())
	assert.Error(t, err)
}

func TestDisplayRating(t *testing.T) {
	assert.Equal(t, "unrated*", Entrant{}.DisplayRating())
	assert.Equal(t, "1500", Entrant{Rating: 1500, Official: true}.DisplayRating())
	assert.Equal(t, "1500*", Entrant{Rating: 1500}.DisplayRating())
}

func TestFetchAndRefresh(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/register", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	})
	mux.HandleFunc("/profile", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.RawQuery {
		case "12345678":
			fmt.Fprint(w, profilePage("12345678: CARLSEN, MAGNUS", "2839&nbsp;&nbsp;2024-03-01"))
		case "55555555":
			fmt.Fprint(w, profilePage("55555555: O&#39;NEIL, ANN", "Unrated"))
		case "66666666":
			fmt.Fprint(w, profilePage("66666666: TAL &amp; CO", "1234P12&nbsp;2024-01-01"))
		default:
			fmt.Fprint(w, "Could not retrieve data for that member")
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	saved := ProfileURL
	ProfileURL = srv.URL + "/profile?"
	defer func() { ProfileURL = saved }()

	ctx := context.Background()
	sections, err := Fetch(ctx, srv.Client(), srv.URL+"/register")
	require.NoError(t, err)

	require.NoError(t, Refresh(ctx, srv.Client(), sections, nil))
	open := sections["Open"]
	assert.Equal(t, Entrant{ID: "uscf:12345678", USCFID: "12345678", Name: "Carlsen, Magnus",
		Section: "Open", Rating: 2839, Official: true}, open[0])
	assert.False(t, open[1].Official)
	assert.Equal(t, "Judit Polgar", open[1].Name)

	escaped := map[string][]Entrant{"Open": {
		{USCFID: "55555555", Name: "reported", Rating: 1500},
		{USCFID: "66666666", Name: "reported"},
	}}
	require.NoError(t, Refresh(ctx, srv.Client(), escaped, nil))
	assert.Equal(t, Entrant{USCFID: "55555555", Name: "O'neil, Ann", Official: true},
		escaped["Open"][0])
	assert.Equal(t, Entrant{USCFID: "66666666", Name: "Tal Co", Rating: 1234, Official: true},
		escaped["Open"][1])

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, Refresh(cancelled, srv.Client(), escaped, nil), context.Canceled)

	_, err = Fetch(ctx, srv.Client(), srv.URL+"/missing")
	assert.Error(t, err)
}

func profilePage(title, rating string) string {
	return `<html><body><table><tr><td><font size="+1"><b>` + title + `</b></font></td></tr>
<tr><td>Regular Rating</td><td><b>` + rating + `</b></td></tr></table></body></html>`
}

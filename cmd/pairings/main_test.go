/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/theGerk/RSI-ChessClub/internal"
	"github.com/theGerk/RSI-ChessClub/registration"
)

const registrationPage = `<html><body>
<table id="members">
<thead><tr><th>USCF ID</th><th>Section</th><th>Name</th><th>Rating</th><th>Byes</th></tr></thead>
<tbody>
<tr><td><a href="https://www.uschess.org/msa/MbrDtlMain.php?11111111">11111111</a></td><td>Open</td><td>ann able</td><td>1500</td><td></td></tr>
<tr><td><a href="https://www.uschess.org/msa/MbrDtlMain.php?22222222">22222222</a></td><td>Open</td><td>Bob Baker</td><td>1400</td><td></td></tr>
<tr><td><a href="https://www.uschess.org/msa/MbrDtlMain.php?33333333">33333333</a></td><td>Open</td><td>Cal Cole</td><td>1300</td><td></td></tr>
<tr><td><a href="https://www.uschess.org/msa/MbrDtlMain.php?44444444">44444444</a></td><td>Open</td><td>Dana Dee</td><td>1200</td><td>1</td></tr>
<tr><td></td><td>U1000</td><td>Eve Early</td><td></td><td>1</td></tr>
</tbody>
</table>
</body></html>`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/register", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, registrationPage)
	})
	mux.HandleFunc("/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery == "11111111" {
			fmt.Fprint(w, `<table><tr><td><b>11111111: ANN ABLE</b></td></tr><tr><td>Regular Rating</td><td><b>1512&nbsp;2024-03-01</b></td></tr></table>`)
			return
		}
		fmt.Fprint(w, "Could not retrieve data for that member")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	old := registration.ProfileURL
	registration.ProfileURL = srv.URL + "/profile?"
	t.Cleanup(func() { registration.ProfileURL = old })
	return srv
}

func testConfig(t *testing.T) internal.Config {
	t.Helper()
	cfg, err := internal.LoadConfig()
	require.NoError(t, err)
	cfg.Seed = 42
	return cfg
}

func TestPredict(t *testing.T) {
	srv := newServer(t)
	cfg := testConfig(t)

	var out bytes.Buffer
	err := predict(context.Background(), &out, srv.Client(), srv.URL+"/register",
		true, cfg, zap.NewNop())
	require.NoError(t, err)

	got := out.String()
	assert.True(t, strings.HasPrefix(got, "Predicted Pairings:\n"))
	assert.Contains(t, got, "Section: Open\n")
	assert.Contains(t, got, "Section: U1000\n")
	assert.Contains(t, got, "  BYE(0.5): Dana Dee(1200*)\n")
	assert.Contains(t, got, "  BYE(0.5): Eve Early(unrated*)\n")
	assert.Equal(t, 1, strings.Count(got, "Board "))
	assert.Equal(t, 1, strings.Count(got, "BYE(1):"))
	// the official profile replaces the reported rating
	assert.Contains(t, got, "Ann Able(1512)")
	assert.Less(t, strings.Index(got, "Section: Open"), strings.Index(got, "Section: U1000"))
}

func TestPredictIsReproducible(t *testing.T) {
	srv := newServer(t)
	cfg := testConfig(t)

	run := func() string {
		var out bytes.Buffer
		require.NoError(t, predict(context.Background(), &out, srv.Client(),
			srv.URL+"/register", false, cfg, zap.NewNop()))
		return out.String()
	}
	first := run()
	assert.Equal(t, first, run())
	assert.Contains(t, first, "Ann Able(1500*)")
}

func TestPredictFetchError(t *testing.T) {
	srv := newServer(t)
	var out bytes.Buffer
	err := predict(context.Background(), &out, srv.Client(), srv.URL+"/missing",
		false, testConfig(t), zap.NewNop())
	assert.Error(t, err)
	assert.Empty(t, out.String())
}

/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestHttpClient(t *testing.T) {
	var hits atomic.Int32
	var agent atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		agent.Store(r.Header.Get("User-Agent"))
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")
		io.WriteString(w, "<table id=\"members\"></table>")
	}))
	defer srv.Close()

	client := NewCachedHttpClient(context.Background(), "", 5*time.Minute, nil)

	for i := 0; i < 3; i++ {
		resp, err := client.Get(srv.URL + "/register")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("Failed to read response body: %v", err)
		}
		if len(data) == 0 {
			t.Errorf("Empty data")
		}
		if i > 0 && resp.Header.Get("X-From-Cache") != "1" {
			t.Errorf("request %d: object not cached", i)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("origin hit %d times; want 1", hits.Load())
	}
	if agent.Load() != UserAgent {
		t.Errorf("User-Agent = %q; want %q", agent.Load(), UserAgent)
	}
}

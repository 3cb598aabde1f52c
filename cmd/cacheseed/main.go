/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/theGerk/RSI-ChessClub/internal"
	"github.com/theGerk/RSI-ChessClub/registration"
)

// this program exists just to seed the http cache with registration pages
// and the member profiles they link to, so that later pairing predictions
// do not have to wait on the rating agency

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage:\n\n%v <url> [<url>...]\n\nSeed the web cache (CLUB_CACHE_BUCKET) for each registration <url>.\n",
			os.Args[0])
		os.Exit(1)
	}
	cfg, err := internal.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v: %v\n", os.Args[0], err)
		os.Exit(1)
	}
	logger, err := internal.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v: %v\n", os.Args[0], err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	client := internal.NewCachedHttpClient(ctx, cfg.CacheBucket, cfg.CacheTTL, logger)
	seed(ctx, os.Stdout, client, os.Args[1:], logger)
}

// seed fetches every url and its entrants' profiles through client. It is
// best effort; a page that cannot be read is logged and skipped.
func seed(ctx context.Context, out io.Writer, client *http.Client, urls []string,
	logger *zap.Logger) int {

	seeded := 0
	for _, url := range urls {
		sections, err := registration.Fetch(ctx, client, url)
		if err != nil {
			logger.Warn("cacheseed: failed to fetch", zap.String("url", url), zap.Error(err))
			continue
		}
		if err := registration.Refresh(ctx, client, sections, logger); err != nil {
			logger.Warn("cacheseed: interrupted", zap.Error(err))
			return seeded
		}

		n := 0
		for _, list := range sections {
			for _, e := range list {
				if e.Official {
					n++
				}
			}
		}
		fmt.Fprintf(out, "seeded %v (%d profiles)\n", url, n)
		seeded++
	}
	return seeded
}

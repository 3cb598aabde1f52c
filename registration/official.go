/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package registration

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProfileURL is the member detail page of the rating agency; the member
// id is appended.
var ProfileURL = "https://www.uschess.org/msa/MbrDtlMain.php?"

// Refresh replaces reported names and ratings with the official ones for
// every entrant with a member id. Profiles are fetched concurrently; an
// entrant whose profile cannot be read keeps the reported values. The only
// error is ctx's, once it is cancelled.
func Refresh(ctx context.Context, client *http.Client, sections map[string][]Entrant,
	logger *zap.Logger) error {

	if logger == nil {
		logger = zap.NewNop()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, list := range sections {
		for i := range list {
			e := &list[i]
			if e.USCFID == "" {
				continue
			}
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				name, rating, ok := fetchProfile(ctx, client, e.USCFID)
				if !ok {
					logger.Debug("registration.Refresh: keeping reported values",
						zap.String("uscfID", e.USCFID))
					return nil
				}
				e.Name, e.Rating, e.Official = name, rating, true
				return nil
			})
		}
	}
	return g.Wait()
}

func fetchProfile(ctx context.Context, client *http.Client, id string) (string, int, bool) {
	body, err := get(ctx, client, ProfileURL+id)
	if err != nil {
		return "", 0, false
	}
	defer body.Close()
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", 0, false
	}

	name := profileName(doc, id)
	if name == "" {
		return "", 0, false
	}
	return name, profileRating(doc), true
}

// profileName finds the member's name in a bold tag: "<b>id: NAME</b>".
func profileName(doc *goquery.Document, id string) string {
	prefix := id + ":"
	name := ""
	doc.Find("b").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if strings.HasPrefix(text, prefix) {
			name = normalizeName(strings.TrimPrefix(text, prefix))
			return false
		}
		return true
	})
	return name
}

// profileRating reads the leading number of the cell after the "Regular
// Rating" label. 0 means unrated.
func profileRating(doc *goquery.Document) int {
	rating := 0
	doc.Find("td").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.HasPrefix(strings.TrimSpace(s.Text()), "Regular Rating") {
			return true
		}
		fields := strings.Fields(s.Next().Text())
		if len(fields) > 0 {
			d := fields[0]
			if i := strings.IndexFunc(d, func(r rune) bool { return !unicode.IsDigit(r) }); i >= 0 {
				d = d[:i]
			}
			rating, _ = strconv.Atoi(d)
		}
		return false
	})
	return rating
}

/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gregjones/httpcache"
	"go.uber.org/zap"

	"github.com/theGerk/RSI-ChessClub/s3blob"
)

// NewCachedHttpClient returns an http.Client whose responses are cached
// for maxAge regardless of what the origin says. Pages are kept in bucket
// when it is set and reachable, in memory otherwise.
func NewCachedHttpClient(ctx context.Context, bucket string, maxAge time.Duration,
	logger *zap.Logger) *http.Client {

	if logger == nil {
		logger = zap.NewNop()
	}

	var cache httpcache.Cache
	if bucket != "" {
		b := s3blob.New(ctx, bucket, s3blob.WithPrefix(WebCachePrefix),
			s3blob.WithHashedKeys(true), s3blob.WithGzip(true), s3blob.WithLogger(logger))
		if err := b.Init(); err != nil {
			logger.Warn("httpcache: failed to init S3 cache; falling back to memory",
				zap.String("bucket", bucket), zap.Error(err))
		} else {
			cache = b
		}
	}
	if cache == nil {
		cache = httpcache.NewMemoryCache()
	}

	hc := httpcache.NewTransport(cache)
	// origin cache headers are overridden so that pages are cached even
	// when the server asks otherwise
	hc.Transport = &HeaderOverrideTransport{
		wrappedRT: http.DefaultTransport,
		Request: func(req *http.Request) {
			if req.Header.Get("User-Agent") == "" {
				req.Header.Set("User-Agent", UserAgent)
			}
		},
		Response: func(resp *http.Response) error {
			resp.Header.Del("Pragma")
			resp.Header.Del("Expires")
			resp.Header.Del("Cache-Control")
			resp.Header.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(maxAge/time.Second)))
			return nil
		},
	}

	return &http.Client{Transport: hc}
}

type HeaderOverrideTransport struct {
	Request  func(req *http.Request)
	Response func(resp *http.Response) error

	// Underlying RoundTripper (e.g. default transport or another decorator)
	wrappedRT http.RoundTripper
}

// RoundTrip applies Request and Response hooks around the underlying transport.
func (t *HeaderOverrideTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	if t.Request != nil {
		t.Request(req2)
	}

	resp, err := t.wrappedRT.RoundTrip(req2)
	if err != nil {
		return nil, err
	}

	if t.Response != nil {
		if err := t.Response(resp); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

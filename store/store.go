/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package store persists club snapshots, either as a local file or as an
// object in S3.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/theGerk/RSI-ChessClub/club"
	"github.com/theGerk/RSI-ChessClub/s3blob"
)

// ErrNotFound means no snapshot has been saved yet.
var ErrNotFound = errors.New("store: snapshot not found")

type Store interface {
	Load(ctx context.Context) (*club.Snapshot, error)
	Save(ctx context.Context, s *club.Snapshot) error
}

// Open returns the store named by location: an s3://bucket/key URL or a
// file path. The encoding follows the extension; .yaml and .yml select
// YAML, anything else JSON.
func Open(ctx context.Context, location string, gzip bool, logger *zap.Logger) (Store, error) {
	if !strings.HasPrefix(location, "s3://") {
		return NewFileStore(location), nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("store.Open: %w", err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return nil, fmt.Errorf("store.Open: %q: want s3://bucket/key", location)
	}
	b := s3blob.New(ctx, u.Host, s3blob.WithPrefix(path.Dir(key)),
		s3blob.WithGzip(gzip), s3blob.WithLogger(logger))
	if err := b.Init(); err != nil {
		return nil, fmt.Errorf("store.Open: %w", err)
	}
	return NewS3Store(b, path.Base(key)), nil
}

type codec struct {
	marshal   func(*club.Snapshot) ([]byte, error)
	unmarshal func([]byte, *club.Snapshot) error
}

var (
	jsonCodec = codec{
		marshal: func(s *club.Snapshot) ([]byte, error) {
			return json.MarshalIndent(s, "", "  ")
		},
		unmarshal: func(data []byte, s *club.Snapshot) error {
			dec := json.NewDecoder(bytes.NewReader(data))
			dec.DisallowUnknownFields()
			return dec.Decode(s)
		},
	}
	yamlCodec = codec{
		marshal: func(s *club.Snapshot) ([]byte, error) {
			var buf bytes.Buffer
			enc := yaml.NewEncoder(&buf)
			enc.SetIndent(2)
			if err := enc.Encode(s); err != nil {
				return nil, err
			}
			if err := enc.Close(); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
		unmarshal: func(data []byte, s *club.Snapshot) error {
			dec := yaml.NewDecoder(bytes.NewReader(data))
			dec.KnownFields(true)
			return dec.Decode(s)
		},
	}
)

func codecFor(name string) codec {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return yamlCodec
	}
	return jsonCodec
}

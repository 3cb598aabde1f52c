/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/theGerk/RSI-ChessClub/club"
	"github.com/theGerk/RSI-ChessClub/s3blob"
)

// S3Store keeps the snapshot as one object of an initialised bucket.
type S3Store struct {
	bucket *s3blob.Bucket
	key    string
	codec  codec
}

func NewS3Store(bucket *s3blob.Bucket, key string) *S3Store {
	return &S3Store{bucket: bucket, key: key, codec: codecFor(key)}
}

func (s *S3Store) Load(ctx context.Context) (*club.Snapshot, error) {
	data, err := s.bucket.Fetch(ctx, s.key)
	if errors.Is(err, s3blob.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if err != nil {
		return nil, fmt.Errorf("store.Load: %w", err)
	}
	var snap club.Snapshot
	if err := s.codec.unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("store.Load: decoding %v: %w", s.key, err)
	}
	return &snap, nil
}

func (s *S3Store) Save(ctx context.Context, snap *club.Snapshot) error {
	data, err := s.codec.marshal(snap)
	if err != nil {
		return fmt.Errorf("store.Save: encoding: %w", err)
	}
	return s.bucket.Put(ctx, s.key, data)
}

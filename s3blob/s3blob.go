/* Copyright (c) 2013 The s3cache AUTHORS. All rights reserved.
 * Copyright (c) 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 *
 * Package s3blob stores small documents in an Amazon S3 bucket. A Bucket
 * serves both as a plain key/value store for club snapshots and as an
 * httpcache.Cache for fetched web pages.
 */
package s3blob

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// ErrNotFound is returned by Fetch for a key that has no object.
var ErrNotFound = errors.New("s3blob: object not found")

// Bucket reads and writes objects of one S3 bucket under a key prefix.
type Bucket struct {
	// Client is created by Init from the default AWS configuration unless
	// WithClient supplied one.
	Client *s3.Client

	name   string
	prefix string
	// gzip compresses objects on write and appends ".gz" to their keys.
	gzip bool
	// hashKeys replaces keys by their md5 sum, for keys such as URLs that
	// are not usable object names.
	hashKeys bool
	logger   *zap.Logger

	// ctx is used by the httpcache.Cache methods, which take no context.
	ctx context.Context
}

type Option func(*Bucket)

func WithPrefix(prefix string) Option {
	return func(b *Bucket) { b.prefix = prefix }
}

func WithGzip(on bool) Option {
	return func(b *Bucket) { b.gzip = on }
}

func WithHashedKeys(on bool) Option {
	return func(b *Bucket) { b.hashKeys = on }
}

func WithLogger(l *zap.Logger) Option {
	return func(b *Bucket) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithClient makes Init skip loading the default AWS configuration.
func WithClient(c *s3.Client) Option {
	return func(b *Bucket) { b.Client = c }
}

// New returns a Bucket for the named S3 bucket. Callers must invoke Init
// before use.
func New(ctx context.Context, name string, opts ...Option) *Bucket {
	b := &Bucket{
		ctx:    ctx,
		name:   name,
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Init creates the client from the default configuration sources
// (environment variables, then the shared configuration and credentials
// files) and checks that the bucket can be read and listed.
func (b *Bucket) Init() error {
	if b.Client == nil {
		cfg, err := config.LoadDefaultConfig(b.ctx)
		if err != nil {
			return fmt.Errorf("s3blob.Init: failed to load AWS config: %w", err)
		}
		b.Client = s3.NewFromConfig(cfg)
	}

	if _, err := b.Client.HeadBucket(b.ctx, &s3.HeadBucketInput{
		Bucket: aws.String(b.name),
	}); err != nil {
		return fmt.Errorf("s3blob.Init: head bucket failed for %s: %w", b.name, err)
	}
	if _, err := b.Client.ListObjectsV2(b.ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(b.name),
		Prefix:  aws.String(b.prefix),
		MaxKeys: aws.Int32(1),
	}); err != nil {
		return fmt.Errorf("s3blob.Init: list objects failed for %s: %w", b.name, err)
	}
	return nil
}

// Fetch returns the object stored under key.
func (b *Bucket) Fetch(ctx context.Context, key string) ([]byte, error) {
	objKey := b.objectKey(key)
	resp, err := b.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(objKey),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %v/%v", ErrNotFound, b.name, objKey)
		}
		return nil, fmt.Errorf("s3blob.Fetch: failed to get %v/%v: %w", b.name, objKey, err)
	}
	defer resp.Body.Close()

	var rdr io.Reader = resp.Body
	if b.gzip {
		gr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("s3blob.Fetch: failed to open compressed %v/%v: %w",
				b.name, objKey, err)
		}
		defer gr.Close()
		rdr = gr
	}
	data, err := io.ReadAll(rdr)
	if err != nil {
		return nil, fmt.Errorf("s3blob.Fetch: failed to read %v/%v: %w", b.name, objKey, err)
	}
	return data, nil
}

// Put stores data under key, replacing any previous object.
func (b *Bucket) Put(ctx context.Context, key string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(b.objectKey(key)),
		Body:   bytes.NewReader(data),
	}
	if b.gzip {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(data); err != nil {
			return fmt.Errorf("s3blob.Put: failed to gzip %v: %w", *input.Key, err)
		}
		if err := gw.Close(); err != nil {
			return fmt.Errorf("s3blob.Put: failed to close gzip writer for %v: %w", *input.Key, err)
		}
		input.Body = &buf
		input.ContentEncoding = aws.String("gzip")
	}

	if _, err := b.Client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3blob.Put: put failed for %v/%v: %w", b.name, *input.Key, err)
	}
	return nil
}

// Remove deletes the object under key. Removing a missing key is not an
// error.
func (b *Bucket) Remove(ctx context.Context, key string) error {
	if _, err := b.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(b.objectKey(key)),
	}); err != nil {
		return fmt.Errorf("s3blob.Remove: delete failed for %v: %w", key, err)
	}
	return nil
}

// Get implements httpcache.Cache. Misses are not logged.
func (b *Bucket) Get(key string) ([]byte, bool) {
	data, err := b.Fetch(b.ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			b.logger.Warn("s3blob.Get: cache read failed", zap.Error(err))
		}
		return []byte{}, false
	}
	return data, true
}

// Set implements httpcache.Cache.
func (b *Bucket) Set(key string, data []byte) {
	if err := b.Put(b.ctx, key, data); err != nil {
		b.logger.Warn("s3blob.Set: cache write failed", zap.Error(err))
	}
}

// Delete implements httpcache.Cache.
func (b *Bucket) Delete(key string) {
	if err := b.Remove(b.ctx, key); err != nil {
		b.logger.Warn("s3blob.Delete: cache delete failed", zap.Error(err))
	}
}

func (b *Bucket) objectKey(key string) string {
	if b.hashKeys {
		h := md5.New()
		io.WriteString(h, key)
		key = hex.EncodeToString(h.Sum(nil))
	}
	objKey := path.Join(b.prefix, key)
	if b.gzip {
		objKey += ".gz"
	}
	return objKey
}

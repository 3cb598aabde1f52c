/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/theGerk/RSI-ChessClub/club"
)

// FileStore keeps the snapshot in a single local file.
type FileStore struct {
	path  string
	codec codec
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, codec: codecFor(path)}
}

func (f *FileStore) Load(ctx context.Context) (*club.Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, f.path)
	}
	if err != nil {
		return nil, fmt.Errorf("store.Load: %w", err)
	}
	var s club.Snapshot
	if err := f.codec.unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("store.Load: decoding %v: %w", f.path, err)
	}
	return &s, nil
}

// Save writes the snapshot next to the target and renames it into place,
// so a crash never leaves a half written file behind.
func (f *FileStore) Save(ctx context.Context, s *club.Snapshot) error {
	data, err := f.codec.marshal(s)
	if err != nil {
		return fmt.Errorf("store.Save: encoding: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("store.Save: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("store.Save: writing %v: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store.Save: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("store.Save: %w", err)
	}
	return nil
}

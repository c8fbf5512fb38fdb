// Package jsonfile implements the JSON file storage backend for tally.
//
// The whole store lives in one JSON document. Every mutation acquires an
// exclusive advisory lock on a sidecar lock file, re-reads the current
// snapshot, applies the change in memory, writes a temp file, and atomically
// renames it over the original. A crash between write and rename leaves the
// previous snapshot intact.
package jsonfile

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/tally/pkg/types"
)

var _ types.Store = (*Store)(nil)

// Store is the JSON file backend.
type Store struct {
	path string
	lock *flock.Flock
	log  *logrus.Entry
}

// Open creates a JSON file store backed by the given path. The file is not
// created until the first mutation; reads of a missing file see a fresh
// seeded snapshot.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("json store: path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	s := &Store{
		path: path,
		lock: flock.New(path + ".lock"),
		log:  logrus.WithField("backend", "json"),
	}
	s.log.WithField("path", path).Debug("json store opened")
	return s, nil
}

// Close releases backend resources. Idempotent; the advisory lock is never
// held between operations.
func (s *Store) Close() error {
	return nil
}

// update runs fn under the exclusive advisory lock with the freshest
// snapshot and persists the result atomically. The lock blocks until
// available; a hung holder stalls the command.
func (s *Store) update(fn func(*storeData) error) error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("acquiring store lock: %w", err)
	}
	defer s.lock.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	if err := fn(data); err != nil {
		return err
	}
	return s.write(data)
}

// view runs fn under the shared advisory lock with the current snapshot.
func (s *Store) view(fn func(*storeData) error) error {
	if err := s.lock.RLock(); err != nil {
		return fmt.Errorf("acquiring store lock: %w", err)
	}
	defer s.lock.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	return fn(data)
}

// read loads and validates the snapshot. A missing or empty file yields a
// fresh seeded snapshot; malformed content is a fatal corruption error.
func (s *Store) read() (*storeData, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return newStoreData(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	if len(raw) == 0 {
		return newStoreData(), nil
	}

	var data storeData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &types.CorruptionError{Path: s.path, Err: err}
	}
	if err := data.validate(); err != nil {
		return nil, &types.CorruptionError{Path: s.path, Err: err}
	}
	if data.Config == nil {
		data.Config = types.DefaultSettings()
	}
	return &data, nil
}

// write serializes the snapshot to a temp file in the same directory, syncs
// it, and renames it over the store file.
func (s *Store) write(data *storeData) error {
	data.stamp()

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling store: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".tally-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := w.WriteByte('\n'); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing newline: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

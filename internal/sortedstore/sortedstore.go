// Package sortedstore drives the ordered key/value pack backend: an
// on-disk LevelDB directory, wire-compatible with the format the host
// VTT platform consumes. Backed by github.com/syndtr/goleveldb, the
// standard Go LevelDB port also depended on by the reference manifests
// for ethereum-go-ethereum and crossplane-crossplane in this pack.
package sortedstore

import (
	"encoding/json"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/packsmith/cpack/internal/docvalue"
)

// Store wraps a single opened LevelDB directory.
type Store struct {
	db *leveldb.DB
}

// Open opens dir as a sorted store. When createIfMissing is false (used
// during extract, which only ever reads an existing pack) opening a
// missing directory fails instead of creating one.
func Open(dir string, createIfMissing bool) (*Store, error) {
	opts := &opt.Options{
		ErrorIfMissing: !createIfMissing,
	}
	db, err := leveldb.OpenFile(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("sortedstore: opening %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close flushes and releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Entry is a single (key, value) pair as stored in the sorted store.
type Entry struct {
	Key   string
	Value docvalue.Doc
}

// Iterate yields every (key, value) pair in key order. The callback may
// return an error to stop iteration early; that error is returned from
// Iterate.
func (s *Store) Iterate(fn func(key string, value docvalue.Doc) error) error {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		var doc docvalue.Doc
		if err := json.Unmarshal(iter.Value(), &doc); err != nil {
			return fmt.Errorf("sortedstore: decoding value for key %s: %w", iter.Key(), err)
		}
		if err := fn(string(iter.Key()), doc); err != nil {
			return err
		}
	}
	return iter.Error()
}

// Get fetches a single value by key. It returns (nil, false, nil) if the
// key is absent.
func (s *Store) Get(key string) (docvalue.Doc, bool, error) {
	raw, err := s.db.Get([]byte(key), nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sortedstore: get %s: %w", key, err)
	}
	var doc docvalue.Doc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false, fmt.Errorf("sortedstore: decoding value for key %s: %w", key, err)
	}
	return doc, true, nil
}

// GetMany fetches several keys at once, skipping any that are absent.
func (s *Store) GetMany(keys []string) (map[string]docvalue.Doc, error) {
	out := make(map[string]docvalue.Doc, len(keys))
	for _, k := range keys {
		doc, ok, err := s.Get(k)
		if err != nil {
			return nil, err
		}
		if ok {
			out[k] = doc
		}
	}
	return out, nil
}

// Batch accumulates put/delete operations for atomic application.
type Batch struct {
	raw leveldb.Batch
}

// Put stages a put operation.
func (b *Batch) Put(key string, value docvalue.Doc) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("sortedstore: encoding value for key %s: %w", key, err)
	}
	b.raw.Put([]byte(key), data)
	return nil
}

// Delete stages a delete operation.
func (b *Batch) Delete(key string) {
	b.raw.Delete([]byte(key))
}

// Len reports the number of staged operations.
func (b *Batch) Len() int {
	return b.raw.Len()
}

// WriteBatch applies a batch of puts and deletes atomically.
func (s *Store) WriteBatch(b *Batch) error {
	return s.db.Write(&b.raw, nil)
}

// SmallestKey returns the first key in the store via a forward iterator
// of limit 1, and whether the store is non-empty.
func (s *Store) SmallestKey() (string, bool, error) {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()
	if !iter.Next() {
		return "", false, iter.Error()
	}
	return string(iter.Key()), true, nil
}

// LargestKey returns the last key in the store via a reverse iterator of
// limit 1, and whether the store is non-empty.
func (s *Store) LargestKey() (string, bool, error) {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()
	if !iter.Last() {
		return "", false, iter.Error()
	}
	return string(iter.Key()), true, nil
}

// CompactRange forces the closed key interval [start, limit] into
// on-disk tables. Called after a full pack rewrite: the smallest and
// largest keys bound the range compacted, per the compaction rule.
func (s *Store) CompactRange(start, limit string) error {
	return s.db.CompactRange(util.Range{Start: []byte(start), Limit: append([]byte(limit), 0x00)})
}

// CompactAfterRewrite runs the compaction rule from the driver design:
// find the smallest and largest keys via single-key scans and, if the
// store is non-empty, compact across their inclusive interval.
func (s *Store) CompactAfterRewrite() error {
	small, ok, err := s.SmallestKey()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	large, ok, err := s.LargestKey()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return s.CompactRange(small, large)
}

// Repair runs the underlying store's recovery routine. Neither compile
// nor extract invoke this automatically; it is exposed for the optional
// repairPack library call.
func Repair(dir string) error {
	db, err := leveldb.RecoverFile(dir, nil)
	if err != nil {
		return fmt.Errorf("sortedstore: repairing %s: %w", dir, err)
	}
	return db.Close()
}

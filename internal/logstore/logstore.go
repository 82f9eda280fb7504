// Package logstore drives the append-only pack backend: a single
// newline-delimited JSON file, one document per line, the wire format
// the host VTT platform's legacy NeDB loader reads. There is no
// upstream Go NeDB driver in this pack's dependency corpus, so the file
// format is hand-rolled here the way the teacher hand-rolls its own
// on-disk index formats in internal/indexing rather than reaching for a
// generic embedded-database library.
package logstore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/packsmith/cpack/internal/docvalue"
)

// Store wraps a single opened log-store file. Mutations accumulate in
// memory and are flushed via Compact; Store never rewrites the file
// mid-operation the way the live NeDB append log does, since compile
// and extract each only ever perform one bulk pass.
type Store struct {
	path string
	docs []docvalue.Doc
}

// Open reads every line of path as a JSON document. A missing file is
// treated as an empty store when createIfMissing is true.
func Open(path string, createIfMissing bool) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && createIfMissing {
			return &Store{path: path}, nil
		}
		return nil, fmt.Errorf("logstore: opening %s: %w", path, err)
	}
	defer f.Close()

	s := &Store{path: path}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var doc docvalue.Doc
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("logstore: parsing %s line %d: %w", path, line, err)
		}
		s.docs = append(s.docs, doc)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("logstore: reading %s: %w", path, err)
	}
	return s, nil
}

// FindAll returns every document currently held, in file order.
func (s *Store) FindAll() []docvalue.Doc {
	out := make([]docvalue.Doc, len(s.docs))
	copy(out, s.docs)
	return out
}

// Insert appends doc to the in-memory document list. The caller is
// responsible for key-uniqueness enforcement before calling Insert; the
// store itself performs no dedup.
func (s *Store) Insert(doc docvalue.Doc) {
	s.docs = append(s.docs, doc)
}

// RemoveWhere drops every document for which pred returns true,
// preserving the relative order of the rest.
func (s *Store) RemoveWhere(pred func(docvalue.Doc) bool) int {
	kept := s.docs[:0]
	removed := 0
	for _, d := range s.docs {
		if pred(d) {
			removed++
			continue
		}
		kept = append(kept, d)
	}
	s.docs = kept
	return removed
}

// Compact rewrites the backing file from the in-memory document list in
// a single pass: one compact JSON object per line, terminated with a
// newline. This both persists pending mutations and discards the
// append-log slack a live NeDB file would otherwise accumulate.
func (s *Store) Compact() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("logstore: creating %s: %w", tmp, err)
	}
	w := bufio.NewWriter(f)
	for _, doc := range s.docs {
		data, err := json.Marshal(doc)
		if err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("logstore: encoding document: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			f.Close()
			os.Remove(tmp)
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			f.Close()
			os.Remove(tmp)
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, s.path)
}

// Close is a no-op placeholder kept for symmetry with sortedstore.Store
// so callers can treat either backend uniformly through an interface.
func (s *Store) Close() error { return nil }

// Package lockprobe implements the advisory file-lock test external
// callers run before a compile/extract: attempt to take an exclusive
// lock on the pack's lock file; report whether it is already held.
// This is the only cross-process coordination in the system — the
// engine itself never holds a lock across an operation.
package lockprobe

import (
	"errors"
	"os"

	"github.com/gofrs/flock"
)

// Probe attempts to open path for writing and immediately release it.
// It returns true if the path is locked by another process, false if it
// is free (including when path does not exist yet).
func Probe(path string) (locked bool, err error) {
	fl := flock.New(path)
	ok, lockErr := fl.TryLock()
	if lockErr != nil {
		if errors.Is(lockErr, os.ErrNotExist) {
			return false, nil
		}
		return false, lockErr
	}
	if !ok {
		return true, nil
	}
	defer fl.Unlock()
	return false, nil
}

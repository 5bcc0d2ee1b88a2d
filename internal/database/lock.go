package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nightlyone/lockfile"
)

// LockFileName is the name of the lock file kept beside the database.
const LockFileName = "a11yagg.lock"

// Lock is an exclusive, cross-process lock on a history directory.
type Lock struct {
	file lockfile.Lockfile
}

// AcquireLock takes the history lock in dbDir without waiting.
// It returns ErrLocked when a live process already holds it. Stale locks
// left by dead processes are taken over.
//
// Design decision: Saving a run is a read-compare-write sequence from the
// user's point of view (compare reads the previous run), so two concurrent
// saving passes are refused rather than interleaved.
func AcquireLock(dbDir string) (*Lock, error) {
	if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	path, err := filepath.Abs(filepath.Join(dbDir, LockFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve lock path: %w", err)
	}

	file, err := lockfile.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create lock: %w", err)
	}

	if err := file.TryLock(); err != nil {
		if errors.Is(err, lockfile.ErrBusy) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, path)
		}
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}

	return &Lock{file: file}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return string(l.file)
}

// Release drops the lock.
func (l *Lock) Release() error {
	return l.file.Unlock()
}

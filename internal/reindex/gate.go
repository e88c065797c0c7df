package reindex

import (
	"path/filepath"

	"github.com/gofrs/flock"
	"golang.org/x/sync/semaphore"

	gerr "github.com/spellcaster/grimoire/internal/errors"
)

// ErrSyncInProgress is the distinct, non-fatal condition reported when a
// sync is requested while another is still running. Callers decide whether
// to wait or abort; it is not an error in the failure sense.
var ErrSyncInProgress = gerr.ConflictError("a sync is already running")

// Gate serializes reindex operations. Two overlapping syncs could race on
// insert/update/delete of the same path, so exactly one may run at a time:
// a weighted semaphore guards in-process callers and a file lock guards
// other processes sharing the same index.
type Gate struct {
	sem  *semaphore.Weighted
	lock *flock.Flock
}

// NewGate creates a gate whose cross-process lock file lives next to the
// index database. An empty dbPath (in-memory index) skips file locking.
func NewGate(dbPath string) *Gate {
	g := &Gate{sem: semaphore.NewWeighted(1)}
	if dbPath != "" {
		g.lock = flock.New(filepath.Join(filepath.Dir(dbPath), ".grimoire-sync.lock"))
	}
	return g
}

// TryAcquire attempts to claim the gate without blocking. On success it
// returns a release function; otherwise ErrSyncInProgress.
func (g *Gate) TryAcquire() (func(), error) {
	if !g.sem.TryAcquire(1) {
		return nil, ErrSyncInProgress
	}
	if g.lock != nil {
		ok, err := g.lock.TryLock()
		if err != nil {
			g.sem.Release(1)
			return nil, gerr.StorageError("cannot acquire sync lock file", err)
		}
		if !ok {
			g.sem.Release(1)
			return nil, ErrSyncInProgress
		}
	}
	return func() {
		if g.lock != nil {
			_ = g.lock.Unlock()
		}
		g.sem.Release(1)
	}, nil
}

// Busy reports whether a sync currently holds the in-process gate.
func (g *Gate) Busy() bool {
	if g.sem.TryAcquire(1) {
		g.sem.Release(1)
		return false
	}
	return true
}

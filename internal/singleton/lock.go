// Package singleton guards against two richclip owner processes racing for
// the same (display-kind, role) pair on one host. The lock file is keyed
// per backend/role pair rather than fixed, since richclip can legitimately
// run a CLIPBOARD owner and a PRIMARY owner side by side.
package singleton

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nightlyone/lockfile"
	"github.com/rs/zerolog"

	"github.com/labi-le/richclip/internal/selection"
)

var (
	ErrCannotLock     = errors.New("cannot acquire lock")
	ErrAlreadyRunning = errors.New("richclip is already running for this selection")
)

// Guard holds the lock for one (display-kind, role) pair until Release is
// called.
type Guard struct {
	lock   lockfile.Lockfile
	logger zerolog.Logger
}

// Acquire takes an exclusive, host-local lock for kind/role. It fails with
// ErrAlreadyRunning if another richclip process already owns that pair; the
// caller decides whether that is fatal.
func Acquire(kind selection.Kind, role selection.Role, logger zerolog.Logger) (*Guard, error) {
	name := fmt.Sprintf("richclip-%s-%s.lck", kind, role)
	lock, err := lockfile.New(filepath.Join(os.TempDir(), name))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCannotLock, err)
	}

	if lockErr := lock.TryLock(); lockErr != nil {
		owner, ownerErr := lock.GetOwner()
		if ownerErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrAlreadyRunning, lockErr)
		}
		return nil, fmt.Errorf("%w: pid %d", ErrAlreadyRunning, owner.Pid)
	}

	return &Guard{lock: lock, logger: logger}, nil
}

// Release drops the lock. It logs rather than panics on failure: a stuck
// lock file is recoverable by the next process's TryLock, not worth
// crashing an otherwise-successful run over.
func (g *Guard) Release() {
	if err := g.lock.Unlock(); err != nil {
		g.logger.Warn().Err(err).Msg("singleton: failed to release lock")
	}
}

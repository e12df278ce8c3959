package warehouse

import (
	"context"
	"errors"
	"sync"
)

var ErrDistributionInProgress = errors.New("a stock distribution is already running")

// DistributionLock keeps distribution runs from overlapping. Acquire returns
// ErrDistributionInProgress when another run holds the lock.
type DistributionLock interface {
	Acquire(ctx context.Context, runID string) (release func(), err error)
}

// LocalLock serialises runs within one process.
type LocalLock struct {
	mu sync.Mutex
}

func NewLocalLock() *LocalLock {
	return &LocalLock{}
}

func (l *LocalLock) Acquire(ctx context.Context, runID string) (func(), error) {
	if !l.mu.TryLock() {
		return nil, ErrDistributionInProgress
	}
	return l.mu.Unlock, nil
}

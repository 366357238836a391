package evaluation

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	"sync"
	"time"
)

// locker hands out one exclusive slot per opportunity.
type locker struct {
	mu      sync.Mutex
	timeout time.Duration
	slots   map[uuid.UUID]*semaphore.Weighted
}

func newLocker(timeout time.Duration) *locker {
	return &locker{
		timeout: timeout,
		slots:   make(map[uuid.UUID]*semaphore.Weighted),
	}
}

func (l *locker) slot(opportunityID uuid.UUID) *semaphore.Weighted {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[opportunityID]
	if !ok {
		s = semaphore.NewWeighted(1)
		l.slots[opportunityID] = s
	}
	return s
}

// lock blocks until the opportunity is free or the timeout elapses. Callers must call the returned release.
func (l *locker) lock(ctx context.Context, opportunityID uuid.UUID) (func(), error) {
	s := l.slot(opportunityID)

	waitCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	if err := s.Acquire(waitCtx, 1); err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, newError(CodeConflict, "opportunity is busy, try again")
		}
		return nil, err
	}

	var once sync.Once
	return func() { once.Do(func() { s.Release(1) }) }, nil
}

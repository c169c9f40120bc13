package booking

import (
	"context"
	"sync"
	"time"
)

// LockTable serializes commit attempts per service. Each service id gets its
// own lock so unrelated services never serialize against each other; there
// is deliberately no global lock on the commit path.
//
// Acquire waits at most maxWait before giving up, so a commit that cannot
// enter its critical section fails fast with a retryable error instead of
// blocking a request handler indefinitely.
type LockTable struct {
	mu      sync.Mutex
	locks   map[int64]*serviceLock
	maxWait time.Duration
}

type serviceLock struct {
	ch   chan struct{} // capacity 1, token present when free
	refs int
}

// DefaultLockWait bounds how long a commit waits for its service lock.
const DefaultLockWait = 3 * time.Second

// NewLockTable creates a lock table with the given acquire bound.
func NewLockTable(maxWait time.Duration) *LockTable {
	if maxWait <= 0 {
		maxWait = DefaultLockWait
	}
	return &LockTable{
		locks:   make(map[int64]*serviceLock),
		maxWait: maxWait,
	}
}

// Acquire takes the lock for serviceID, waiting up to the table's bound.
// On success the returned release function must be called exactly once.
func (t *LockTable) Acquire(ctx context.Context, serviceID int64) (release func(), err error) {
	t.mu.Lock()
	l, ok := t.locks[serviceID]
	if !ok {
		l = &serviceLock{ch: make(chan struct{}, 1)}
		l.ch <- struct{}{}
		t.locks[serviceID] = l
	}
	l.refs++
	t.mu.Unlock()

	timer := time.NewTimer(t.maxWait)
	defer timer.Stop()

	select {
	case <-l.ch:
		return func() { t.release(serviceID, l) }, nil
	case <-timer.C:
		t.unref(serviceID, l)
		return nil, NewBusyError("service %d is locked by another booking attempt", serviceID)
	case <-ctx.Done():
		t.unref(serviceID, l)
		return nil, ctx.Err()
	}
}

func (t *LockTable) release(serviceID int64, l *serviceLock) {
	l.ch <- struct{}{}
	t.unref(serviceID, l)
}

// unref drops a reference and evicts the entry once idle, keeping the table
// from growing with every service id ever seen.
func (t *LockTable) unref(serviceID int64, l *serviceLock) {
	t.mu.Lock()
	defer t.mu.Unlock()
	l.refs--
	if l.refs == 0 && len(l.ch) == 1 {
		delete(t.locks, serviceID)
	}
}

// Len returns the number of live entries, for tests and metrics.
func (t *LockTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.locks)
}

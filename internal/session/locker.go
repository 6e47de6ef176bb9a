package session

import (
	"context"
	"sync"
)

// Locker serializes event handling per user. Different users never share a lock.
type Locker struct {
	mu    sync.Mutex
	locks map[int64]*userLock
}

type userLock struct {
	sem  chan struct{}
	refs int
}

// NewLocker creates a Locker
func NewLocker() *Locker {
	return &Locker{locks: make(map[int64]*userLock)}
}

// Lock waits until the user's lock is held or ctx is done. On success it
// returns the release func; otherwise ctx.Err().
func (l *Locker) Lock(ctx context.Context, userID int64) (func(), error) {
	l.mu.Lock()
	ul, ok := l.locks[userID]
	if !ok {
		ul = &userLock{sem: make(chan struct{}, 1)}
		l.locks[userID] = ul
	}
	ul.refs++
	l.mu.Unlock()

	select {
	case ul.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(userID, ul)
		return nil, ctx.Err()
	}

	return func() {
		<-ul.sem
		l.release(userID, ul)
	}, nil
}

func (l *Locker) release(userID int64, ul *userLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ul.refs--
	if ul.refs == 0 {
		delete(l.locks, userID)
	}
}

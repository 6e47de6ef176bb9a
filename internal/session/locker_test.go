package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (l *Locker) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func TestLocker_SerializesSameUser(t *testing.T) {
	l := NewLocker()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), 7)
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 0, l.held())
}

func TestLocker_DifferentUsersDoNotBlock(t *testing.T) {
	l := NewLocker()

	unlockA, err := l.Lock(context.Background(), 1)
	require.NoError(t, err)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		if unlock, err := l.Lock(context.Background(), 2); err == nil {
			unlock()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock for user 2 blocked on user 1")
	}
}

func TestLocker_GivesUpWhenContextDone(t *testing.T) {
	l := NewLocker()

	unlock, err := l.Lock(context.Background(), 7)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	second, err := l.Lock(ctx, 7)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, second)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, l.held())

	unlock()
	assert.Equal(t, 0, l.held())

	// the lock is usable again after the waiter gave up
	again, err := l.Lock(context.Background(), 7)
	require.NoError(t, err)
	again()
}

package session

import (
	"context"
	"sync"
	"time"

	"github.com/M0SENI/VisaBot/internal/domain"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps sessions in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	records map[int64]*record
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[int64]*record),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, userID int64) (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[userID]
	if !ok || !rec.Current.Active() {
		return domain.Session{Data: domain.Data{}}, false
	}
	return rec.Current.Clone(), true
}

func (s *MemoryStore) State(ctx context.Context, userID int64) domain.State {
	sess, _ := s.Get(ctx, userID)
	return sess.State
}

func (s *MemoryStore) Data(ctx context.Context, userID int64) domain.Data {
	sess, _ := s.Get(ctx, userID)
	return sess.Data
}

func (s *MemoryStore) Field(_ context.Context, userID int64, key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[userID]
	if !ok {
		return nil, false
	}
	v, ok := rec.Current.Data[key]
	return v, ok
}

func (s *MemoryStore) SetState(_ context.Context, userID int64, state domain.State, data domain.Data) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.recordFor(userID)
	rec.setState(state, data)
	rec.Current.UpdatedAt = s.now()
}

func (s *MemoryStore) Transition(_ context.Context, userID int64, state domain.State, data domain.Data) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.recordFor(userID)
	rec.transition(state, data)
	rec.Current.UpdatedAt = s.now()
}

func (s *MemoryStore) UpdateField(_ context.Context, userID int64, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok || !rec.Current.Active() {
		return
	}
	rec.Current.Data[key] = value
	rec.Current.UpdatedAt = s.now()
}

func (s *MemoryStore) AppendToList(_ context.Context, userID int64, key, item string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok || !rec.Current.Active() {
		return
	}
	rec.appendToList(key, item)
	rec.Current.UpdatedAt = s.now()
}

func (s *MemoryStore) Back(_ context.Context, userID int64) (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		return domain.Session{}, false
	}
	sess, ok := rec.back()
	if ok {
		rec.Current.UpdatedAt = s.now()
	}
	return sess, ok
}

func (s *MemoryStore) Clear(_ context.Context, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, userID)
}

// Sweep removes sessions idle for longer than maxIdle and returns how many were removed
func (s *MemoryStore) Sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	removed := 0
	for userID, rec := range s.records {
		if rec.Current.UpdatedAt.Before(cutoff) {
			delete(s.records, userID)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

func (s *MemoryStore) recordFor(userID int64) *record {
	rec, ok := s.records[userID]
	if !ok {
		rec = &record{}
		s.records[userID] = rec
	}
	return rec
}

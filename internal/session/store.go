package session

import (
	"context"

	"github.com/M0SENI/VisaBot/internal/domain"
)

// Store keeps one conversation session and one history stack per user.
// All operations are total: an absent session reads as idle with empty data.
type Store interface {
	// Get returns a copy of the current session
	Get(ctx context.Context, userID int64) (domain.Session, bool)
	State(ctx context.Context, userID int64) domain.State
	// Data returns a copy of the accumulated data, empty when idle
	Data(ctx context.Context, userID int64) domain.Data
	Field(ctx context.Context, userID int64, key string) (any, bool)

	// SetState installs state without touching history. A nil data keeps the
	// existing data, or starts empty when there is none.
	SetState(ctx context.Context, userID int64, state domain.State, data domain.Data)
	// Transition pushes the current session onto the history stack and then
	// installs state. Re-entering the current state does not push.
	Transition(ctx context.Context, userID int64, state domain.State, data domain.Data)
	// UpdateField is a no-op when no session is active
	UpdateField(ctx context.Context, userID int64, key string, value any)
	// AppendToList appends item to the list under key, keeping insertion order.
	// It is a no-op when no session is active.
	AppendToList(ctx context.Context, userID int64, key, item string)
	// Back pops the latest snapshot and reinstalls it verbatim.
	// An empty stack returns false and leaves the session untouched.
	Back(ctx context.Context, userID int64) (domain.Session, bool)
	// Clear removes the session together with its history
	Clear(ctx context.Context, userID int64)
}

// record is what a store keeps per user
type record struct {
	Current domain.Session   `json:"current"`
	History []domain.Session `json:"history,omitempty"`
}

func (r *record) setState(state domain.State, data domain.Data) {
	switch {
	case data != nil:
		r.Current.Data = data.Clone()
	case r.Current.Data == nil:
		r.Current.Data = domain.Data{}
	}
	r.Current.State = state
}

func (r *record) transition(state domain.State, data domain.Data) {
	if r.Current.Active() && r.Current.State != state {
		r.History = append(r.History, r.Current.Clone())
	}
	r.setState(state, data)
}

func (r *record) appendToList(key, item string) {
	list := r.Current.Data.Strings(key)
	r.Current.Data[key] = append(list, item)
}

func (r *record) back() (domain.Session, bool) {
	if len(r.History) == 0 {
		return domain.Session{}, false
	}
	last := r.History[len(r.History)-1]
	r.History = r.History[:len(r.History)-1]
	r.Current = last
	return last.Clone(), true
}

// Package session keeps per-user conversation state for the bot.
// Sessions are ephemeral: whatever store backs them, losing one only
// means the user has to share a location again.
package session

import (
	"context"
	"sync"
	"time"
)

// State tags where a user's conversation stands. Absence of a session
// is the idle state.
type State string

const (
	// StateAwaitingCategory: a location is stored, no category chosen
	// for it yet.
	StateAwaitingCategory State = "awaiting_category"
	// StateSubmitted: a one-shot report went out; the session sticks
	// around so a later location reuses the live id if one exists.
	StateSubmitted State = "submitted"
	// StateLiveTracking: live sharing is active and categorized;
	// edited locations re-submit under the same id.
	StateLiveTracking State = "live_tracking"
)

// Location is the last point received from the user.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// LiveTrack groups the live-tracking fields so an active flag cannot
// exist without a stable id. The id is allocated once and reused for
// every update until the session is canceled.
type LiveTrack struct {
	ID     string `json:"id"`
	Active bool   `json:"active"`
}

// Session is one user's conversation state.
type Session struct {
	State    State      `json:"state"`
	Location Location   `json:"location"`
	Category string     `json:"category,omitempty"`
	Live     *LiveTrack `json:"live,omitempty"`
}

// Store keeps sessions keyed by Telegram user id.
type Store interface {
	Get(ctx context.Context, userID int64) (*Session, bool, error)
	Put(ctx context.Context, userID int64, s *Session) error
	Delete(ctx context.Context, userID int64) error
	Clear(ctx context.Context) error
}

type entry struct {
	session *Session
	expires time.Time
}

// MemoryStore is the default in-process store. Entries expire after
// the configured TTL so abandoned sessions do not accumulate forever;
// a TTL of zero disables expiry.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[int64]entry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: map[int64]entry{},
	}
}

func (m *MemoryStore) Get(ctx context.Context, userID int64) (*Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[userID]
	if !ok {
		return nil, false, nil
	}
	if m.ttl > 0 && m.now().After(e.expires) {
		delete(m.sessions, userID)
		return nil, false, nil
	}
	return e.session, true, nil
}

func (m *MemoryStore) Put(ctx context.Context, userID int64, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[userID] = entry{session: s, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions = map[int64]entry{}
	return nil
}

// Package session holds the per-user training-session state: which words of a
// training set the user has already answered correctly in the current sitting.
// This state is deliberately in-memory only. Clearing a word in a session does
// not change its persisted status; only mastering the whole set does, so losing
// this state on restart just means the user replays the batch.
package session

import (
	"sync"
	"time"
)

type key struct {
	userID int64
	setID  int64
}

type trainingSession struct {
	cleared   map[int]struct{}
	lastTouch time.Time
}

// Store tracks cleared words per (user, training set) with idle expiry.
type Store struct {
	mu       sync.Mutex
	sessions map[key]*trainingSession
	ttl      time.Duration
}

// NewStore creates a store whose sessions expire after ttl of inactivity.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[key]*trainingSession),
		ttl:      ttl,
	}
}

// MarkCleared records a correct answer for a word within a set's session.
func (s *Store) MarkCleared(userID, setID int64, wordID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{userID: userID, setID: setID}
	sess, ok := s.sessions[k]
	if !ok {
		sess = &trainingSession{cleared: make(map[int]struct{})}
		s.sessions[k] = sess
	}
	sess.cleared[wordID] = struct{}{}
	sess.lastTouch = time.Now()
}

// Cleared returns a copy of the cleared word ids for a set's session.
func (s *Store) Cleared(userID, setID int64) map[int]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]struct{})
	if sess, ok := s.sessions[key{userID: userID, setID: setID}]; ok {
		for id := range sess.cleared {
			out[id] = struct{}{}
		}
		sess.lastTouch = time.Now()
	}
	return out
}

// ClearedCount returns how many words have been cleared in a set's session.
func (s *Store) ClearedCount(userID, setID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[key{userID: userID, setID: setID}]; ok {
		return len(sess.cleared)
	}
	return 0
}

// Drop discards the session for one set, e.g. after the set was mastered.
func (s *Store) Drop(userID, setID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key{userID: userID, setID: setID})
}

// DropUser discards all of a user's sessions.
func (s *Store) DropUser(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.sessions {
		if k.userID == userID {
			delete(s.sessions, k)
		}
	}
}

// Sweep removes sessions idle longer than the store's TTL and returns how
// many were dropped.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := 0
	for k, sess := range s.sessions {
		if now.Sub(sess.lastTouch) > s.ttl {
			delete(s.sessions, k)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Package store owns the in-memory loan collection snapshot. It is the
// single source of truth for display: every mutation replaces whole loan
// records (copy-on-write at loan granularity) and swaps the snapshot
// atomically, so a subscriber never observes a partially updated set.
// The database mirror is written through asynchronously and a later remote
// snapshot wins over an in-flight local edit.
package store

import (
	"sync"

	"github.com/loanbook/loanbook-api/internal/models"
)

// Subscriber receives the full collection snapshot after every change.
type Subscriber func(loans []models.Loan)

// Store holds the current loan collection snapshot and its subscribers.
type Store struct {
	mu      sync.RWMutex
	loans   []models.Loan
	subs    map[int]Subscriber
	nextSub int
}

// New creates an empty store.
func New() *Store {
	return &Store{subs: make(map[int]Subscriber)}
}

// Subscribe registers fn to run on every snapshot change. The returned
// function unsubscribes.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Loans returns a copy of the current snapshot. Records are shared and
// must be treated as read-only; mutate through Clone and Upsert.
func (s *Store) Loans() []models.Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Loan, len(s.loans))
	copy(out, s.loans)
	return out
}

// Get finds one loan by id.
func (s *Store) Get(id string) (models.Loan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.loans {
		if s.loans[i].ID == id {
			return s.loans[i], true
		}
	}
	return models.Loan{}, false
}

// Len returns the number of loans in the snapshot.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.loans)
}

// ReplaceAll swaps in a whole new collection, as delivered by the remote
// change feed, and notifies subscribers.
func (s *Store) ReplaceAll(loans []models.Loan) {
	s.mu.Lock()
	s.loans = append([]models.Loan(nil), loans...)
	snapshot, subs := s.snapshotLocked()
	s.mu.Unlock()

	notify(snapshot, subs)
}

// Upsert replaces one loan record (or appends a new one) and notifies
// subscribers with the new snapshot.
func (s *Store) Upsert(loan models.Loan) {
	s.mu.Lock()
	next := make([]models.Loan, len(s.loans), len(s.loans)+1)
	copy(next, s.loans)
	replaced := false
	for i := range next {
		if next[i].ID == loan.ID {
			next[i] = loan
			replaced = true
			break
		}
	}
	if !replaced {
		next = append(next, loan)
	}
	s.loans = next
	snapshot, subs := s.snapshotLocked()
	s.mu.Unlock()

	notify(snapshot, subs)
}

// Remove deletes one loan from the snapshot.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	next := make([]models.Loan, 0, len(s.loans))
	for i := range s.loans {
		if s.loans[i].ID != id {
			next = append(next, s.loans[i])
		}
	}
	s.loans = next
	snapshot, subs := s.snapshotLocked()
	s.mu.Unlock()

	notify(snapshot, subs)
}

func (s *Store) snapshotLocked() ([]models.Loan, []Subscriber) {
	snapshot := make([]models.Loan, len(s.loans))
	copy(snapshot, s.loans)
	subs := make([]Subscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return snapshot, subs
}

func notify(snapshot []models.Loan, subs []Subscriber) {
	for _, fn := range subs {
		fn(snapshot)
	}
}

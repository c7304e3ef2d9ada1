package accounts

import (
	"context"
	"sync"

	"github.com/MrEthical07/toxin"
)

// MemoryStore keeps accounts in process memory. It is safe for concurrent
// use and lists accounts in insertion order.
type MemoryStore struct {
	mu         sync.RWMutex
	byID       map[string]toxin.Account
	byUsername map[string]string
	order      []string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:       make(map[string]toxin.Account),
		byUsername: make(map[string]string),
	}
}

// FindByUsername returns a copy of the account with the exact username, or
// [toxin.ErrAccountNotFound].
func (s *MemoryStore) FindByUsername(_ context.Context, username string) (*toxin.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, toxin.ErrAccountNotFound
	}
	account := s.byID[id]
	return &account, nil
}

// FindByID returns a copy of the account with id, or [toxin.ErrAccountNotFound].
func (s *MemoryStore) FindByID(_ context.Context, id string) (*toxin.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.byID[id]
	if !ok {
		return nil, toxin.ErrAccountNotFound
	}
	return &account, nil
}

// List returns copies of all accounts in insertion order.
func (s *MemoryStore) List(_ context.Context) ([]toxin.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]toxin.Account, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out, nil
}

// Insert stores a copy of account. A taken id or username yields
// [toxin.ErrAccountExists].
func (s *MemoryStore) Insert(_ context.Context, account *toxin.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[account.ID]; ok {
		return toxin.ErrAccountExists
	}
	if _, ok := s.byUsername[account.Username]; ok {
		return toxin.ErrAccountExists
	}

	s.byID[account.ID] = *account
	s.byUsername[account.Username] = account.ID
	s.order = append(s.order, account.ID)
	return nil
}

// Update replaces the account with the same id and moves its username index
// entry. It returns [toxin.ErrAccountNotFound] for an unknown id and
// [toxin.ErrAccountExists] when the new username belongs to another account.
func (s *MemoryStore) Update(_ context.Context, account *toxin.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byID[account.ID]
	if !ok {
		return toxin.ErrAccountNotFound
	}
	if owner, taken := s.byUsername[account.Username]; taken && owner != account.ID {
		return toxin.ErrAccountExists
	}

	delete(s.byUsername, current.Username)
	s.byID[account.ID] = *account
	s.byUsername[account.Username] = account.ID
	return nil
}

// Delete removes the account with id, or returns [toxin.ErrAccountNotFound].
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.byID[id]
	if !ok {
		return toxin.ErrAccountNotFound
	}

	delete(s.byID, id)
	delete(s.byUsername, account.Username)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

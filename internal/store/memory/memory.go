// Package memory provides a mutex-guarded in-memory Store. It backs the
// "memory" data backend and the handler tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type Store struct {
	mu    sync.Mutex
	users map[string]core.User
	txs   map[string]core.Transaction
}

func New() *Store {
	return &Store{
		users: make(map[string]core.User),
		txs:   make(map[string]core.Transaction),
	}
}

// Seed loads an initial dataset, keeping the ids it carries.
func Seed(users []core.User, txs []core.Transaction) *Store {
	s := New()
	for _, u := range users {
		s.users[u.ID] = u
	}
	for _, t := range txs {
		s.txs[t.ID] = t
	}
	return s
}

func (s *Store) ListUsers(_ context.Context) ([]core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetUser(_ context.Context, id string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return core.User{}, store.ErrNotFound
	}
	return u, nil
}

func (s *Store) CreateUser(_ context.Context, u core.User) (core.User, error) {
	if err := u.Validate(); err != nil {
		return core.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = uuid.NewString()
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) UpdateUser(_ context.Context, id string, patch store.UserPatch) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return core.User{}, store.ErrNotFound
	}
	updated := patch.Apply(u)
	if err := updated.Validate(); err != nil {
		return core.User{}, err
	}
	s.users[id] = updated
	return updated, nil
}

// DeleteUser removes the user and all their transactions.
func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.users, id)
	for txID, t := range s.txs {
		if t.UserID == id {
			delete(s.txs, txID)
		}
	}
	return nil
}

func (s *Store) ListTransactions(_ context.Context, userID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, t := range s.txs {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.Before(out[j].Date.Time)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txs[id]
	if !ok {
		return core.Transaction{}, store.ErrNotFound
	}
	return t, nil
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = uuid.NewString()
	s.txs[t.ID] = t
	return t, nil
}

func (s *Store) UpdateTransaction(_ context.Context, id string, patch store.TransactionPatch) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txs[id]
	if !ok {
		return core.Transaction{}, store.ErrNotFound
	}
	updated := patch.Apply(t)
	if err := updated.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.txs[id] = updated
	return updated, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txs[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.txs, id)
	return nil
}

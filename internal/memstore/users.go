// Package memstore holds in-process record stores with the same contracts
// as the Postgres repositories. They back local runs without a database
// and the HTTP tests.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/mrussa/storefront/internal/repo"
)

var newID = uuid.NewString

type Users struct {
	mu      sync.RWMutex
	byID    map[string]repo.User
	byEmail map[string]string
	writes  int
}

func NewUsers() *Users {
	return &Users{
		byID:    make(map[string]repo.User),
		byEmail: make(map[string]string),
	}
}

func (s *Users) CreateUser(_ context.Context, name, email string) (repo.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[email]; taken {
		return repo.User{}, repo.ErrConflict
	}
	u := repo.User{ID: newID(), Name: name, Email: email}
	s.byID[u.ID] = u
	s.byEmail[email] = u.ID
	s.writes++
	return u, nil
}

func (s *Users) GetUser(_ context.Context, id string) (repo.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return repo.User{}, repo.ErrNotFound
	}
	return u, nil
}

// ListUsers orders by name compared bytewise, then id. This matches the
// COLLATE "C" ordering of the Postgres store.
func (s *Users) ListUsers(_ context.Context) ([]repo.User, error) {
	s.mu.RLock()
	out := make([]repo.User, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, u)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Users) UpdateUser(_ context.Context, id string, p repo.UserPatch) (repo.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return repo.User{}, repo.ErrNotFound
	}
	if p.Empty() {
		return u, nil
	}
	if p.Email != nil && *p.Email != u.Email {
		if _, taken := s.byEmail[*p.Email]; taken {
			return repo.User{}, repo.ErrConflict
		}
		delete(s.byEmail, u.Email)
		u.Email = *p.Email
		s.byEmail[u.Email] = u.ID
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	s.byID[id] = u
	s.writes++
	return u, nil
}

func (s *Users) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	delete(s.byID, id)
	delete(s.byEmail, u.Email)
	s.writes++
	return nil
}

// Writes reports how many mutations were applied.
func (s *Users) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

func (s *Users) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func (s *Users) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[string]repo.User)
	s.byEmail = make(map[string]string)
	return nil
}

func (s *Users) Ping(context.Context) error { return nil }

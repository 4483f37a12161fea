package memstore

import (
	"context"
	"sync"

	"github.com/mrussa/storefront/internal/repo"
)

type Orders struct {
	mu   sync.RWMutex
	seq  []string
	byID map[string]repo.Order
}

func NewOrders() *Orders {
	return &Orders{byID: make(map[string]repo.Order)}
}

func (s *Orders) CreateOrder(_ context.Context, userID string, items []repo.Item, total float64) (repo.Order, error) {
	o := repo.Order{ID: newID(), UserID: userID, Items: items, TotalAmount: total}.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[o.ID] = o
	s.seq = append(s.seq, o.ID)
	return o.Clone(), nil
}

func (s *Orders) GetOrder(_ context.Context, id string) (repo.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.byID[id]
	if !ok {
		return repo.Order{}, repo.ErrNotFound
	}
	return o.Clone(), nil
}

// ListOrders returns orders in insertion order.
func (s *Orders) ListOrders(_ context.Context) ([]repo.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]repo.Order, 0, len(s.seq))
	for _, id := range s.seq {
		out = append(out, s.byID[id].Clone())
	}
	return out, nil
}

// ListRecentOrders returns up to limit orders, newest first.
func (s *Orders) ListRecentOrders(_ context.Context, limit int) ([]repo.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit > len(s.seq) {
		limit = len(s.seq)
	}
	out := make([]repo.Order, 0, max(limit, 0))
	for i := len(s.seq) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.byID[s.seq[i]].Clone())
	}
	return out, nil
}

func (s *Orders) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seq)
}

// Clear empties the store. A cache in front of it needs its own Reset.
func (s *Orders) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = nil
	s.byID = make(map[string]repo.Order)
	return nil
}

func (s *Orders) Ping(context.Context) error { return nil }

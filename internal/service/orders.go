package service

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/mrussa/storefront/internal/repo"
	"github.com/mrussa/storefront/internal/userclient"
)

type OrderStore interface {
	CreateOrder(ctx context.Context, userID string, items []repo.Item, total float64) (repo.Order, error)
	GetOrder(ctx context.Context, id string) (repo.Order, error)
	ListOrders(ctx context.Context) ([]repo.Order, error)
}

// UserChecker confirms that a user exists in the registry. Errors follow
// the userclient contract.
type UserChecker interface {
	EnsureUserExists(ctx context.Context, userID string) error
}

// Orders creates append-only orders once the owning user is confirmed.
type Orders struct {
	store  OrderStore
	users  UserChecker
	logger *log.Entry
}

func NewOrders(store OrderStore, users UserChecker, logger *log.Entry) *Orders {
	if logger == nil {
		logger = log.WithField("component", "orders")
	}
	return &Orders{store: store, users: users, logger: logger}
}

// Create validates the items, confirms the user with the registry, then
// persists the order with its computed total. Nothing is written unless the
// registry confirms the user.
func (s *Orders) Create(ctx context.Context, userID string, items []repo.Item) (repo.Order, error) {
	if err := validateItems(items); err != nil {
		return repo.Order{}, err
	}
	uid, ok := canonicalID(userID)
	if !ok {
		return repo.Order{}, invalid("field user_id: must be a UUID")
	}

	logger := s.logger.WithFields(log.Fields{"user_id": uid, "items": len(items)})
	logger.Info("creating order")

	if err := s.users.EnsureUserExists(ctx, uid); err != nil {
		return repo.Order{}, classify(err)
	}

	o, err := s.store.CreateOrder(ctx, uid, items, Total(items))
	if err != nil {
		return repo.Order{}, err
	}
	logger.WithFields(log.Fields{"order_id": o.ID, "total_amount": o.TotalAmount}).Info("order created")
	return o, nil
}

func (s *Orders) Get(ctx context.Context, id string) (repo.Order, error) {
	id, ok := canonicalID(id)
	if !ok {
		return repo.Order{}, ErrNotFound
	}
	return s.store.GetOrder(ctx, id)
}

func (s *Orders) List(ctx context.Context) ([]repo.Order, error) {
	return s.store.ListOrders(ctx)
}

func classify(err error) error {
	switch {
	case errors.Is(err, userclient.ErrUserMissing):
		return ErrInvalidReference
	case errors.Is(err, userclient.ErrUpstream):
		return fmt.Errorf("%w: %v", ErrDownstreamFault, err)
	case errors.Is(err, userclient.ErrUnavailable):
		return fmt.Errorf("%w: %v", ErrDownstreamUnreachable, err)
	}
	return fmt.Errorf("validate user: %w", err)
}

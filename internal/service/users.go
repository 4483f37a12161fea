package service

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/mrussa/storefront/internal/repo"
)

type UserStore interface {
	CreateUser(ctx context.Context, name, email string) (repo.User, error)
	GetUser(ctx context.Context, id string) (repo.User, error)
	ListUsers(ctx context.Context) ([]repo.User, error)
	UpdateUser(ctx context.Context, id string, p repo.UserPatch) (repo.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// Users is the user registry: validation in front of a UserStore.
type Users struct {
	store  UserStore
	logger *log.Entry
}

func NewUsers(store UserStore, logger *log.Entry) *Users {
	if logger == nil {
		logger = log.WithField("component", "users")
	}
	return &Users{store: store, logger: logger}
}

func (s *Users) Create(ctx context.Context, name, email string) (repo.User, error) {
	if err := validateName(name); err != nil {
		return repo.User{}, err
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return repo.User{}, err
	}

	s.logger.WithField("email", email).Info("creating user")
	u, err := s.store.CreateUser(ctx, name, email)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			s.logger.WithField("email", email).Warn("email already registered")
		}
		return repo.User{}, err
	}
	s.logger.WithField("user_id", u.ID).Info("user created")
	return u, nil
}

func (s *Users) Get(ctx context.Context, id string) (repo.User, error) {
	id, ok := canonicalID(id)
	if !ok {
		return repo.User{}, ErrNotFound
	}
	return s.store.GetUser(ctx, id)
}

func (s *Users) List(ctx context.Context) ([]repo.User, error) {
	return s.store.ListUsers(ctx)
}

// Update changes only the fields present in p. An empty patch returns the
// stored record without writing.
func (s *Users) Update(ctx context.Context, id string, p repo.UserPatch) (repo.User, error) {
	id, ok := canonicalID(id)
	if !ok {
		return repo.User{}, ErrNotFound
	}
	if p.Name != nil {
		if err := validateName(*p.Name); err != nil {
			return repo.User{}, err
		}
	}
	if p.Email != nil {
		email, err := normalizeEmail(*p.Email)
		if err != nil {
			return repo.User{}, err
		}
		p.Email = &email
	}
	if p.Empty() {
		return s.store.GetUser(ctx, id)
	}

	u, err := s.store.UpdateUser(ctx, id, p)
	if err != nil {
		return repo.User{}, err
	}
	s.logger.WithField("user_id", u.ID).Info("user updated")
	return u, nil
}

func (s *Users) Delete(ctx context.Context, id string) error {
	id, ok := canonicalID(id)
	if !ok {
		return ErrNotFound
	}
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("user_id", id).Info("user deleted")
	return nil
}

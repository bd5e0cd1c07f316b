package user

import (
	"context"
	"errors"
	"strings"
)

// Service coordinates account creation and lookups.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create inserts the account when its email is unseen. It returns the stored
// account and whether a new row was created.
func (s *Service) Create(ctx context.Context, u User) (User, bool, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Email == "" {
		return User{}, false, errors.New("email required")
	}
	existing, err := s.store.FindByEmail(ctx, u.Email)
	if err != nil {
		return User{}, false, err
	}
	if existing != nil {
		return *existing, false, nil
	}
	created, err := s.store.Insert(ctx, u)
	return created, err == nil, err
}

// Get returns an account by email.
func (s *Service) Get(ctx context.Context, email string) (User, error) {
	u, err := s.store.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return User{}, err
	}
	if u == nil {
		return User{}, ErrNotFound
	}
	return *u, nil
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.List(ctx)
}

// Upsert creates or updates the account with the given email.
func (s *Service) Upsert(ctx context.Context, email string, u User) (User, error) {
	return s.store.Upsert(ctx, strings.ToLower(strings.TrimSpace(email)), u)
}

// Delete removes an account by row id.
func (s *Service) Delete(ctx context.Context, id string) error {
	matched, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !matched {
		return ErrNotFound
	}
	return nil
}

package users

import (
	"context"
	"strings"

	"github.com/odyssey-erp/admin-console/internal/masterdata/shared"
)

// Service handles user business logic.
type Service struct {
	repo shared.Repository[User]
}

// NewService builds Service instance.
func NewService(repo shared.Repository[User]) *Service {
	return &Service{repo: repo}
}

// NewBackendService manages accounts through the backend's /users/ collection.
func NewBackendService() *Service {
	return NewService(shared.NewBackendRepository[User]("users"))
}

// ListUsers returns all users ordered by name.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	shared.SortByName(users, func(u User) string { return u.Name })
	return users, nil
}

// GetUser fetches one account.
func (s *Service) GetUser(ctx context.Context, id string) (User, error) {
	return s.repo.Get(ctx, id)
}

// CreateUser validates and opens an account.
func (s *Service) CreateUser(ctx context.Context, in CreateInput) (User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := shared.Validate(in); err != nil {
		return User{}, err
	}
	return s.repo.Create(ctx, in)
}

// UpdateUser validates and saves profile changes.
func (s *Service) UpdateUser(ctx context.Context, id string, in UpdateInput) (User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := shared.Validate(in); err != nil {
		return User{}, err
	}
	return s.repo.Update(ctx, id, in)
}

// DeleteUser removes an account.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

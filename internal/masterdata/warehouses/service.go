package warehouses

import (
	"context"
	"strings"

	"github.com/odyssey-erp/admin-console/internal/masterdata/shared"
)

type Service struct {
	repo shared.Repository[Warehouse]
}

func NewService(repo shared.Repository[Warehouse]) *Service {
	return &Service{repo: repo}
}

// NewBackendService reads and writes the backend's /warehouses/ collection.
func NewBackendService() *Service {
	return NewService(shared.NewBackendRepository[Warehouse]("warehouses"))
}

func (s *Service) List(ctx context.Context) ([]Warehouse, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	shared.SortByName(items, func(w Warehouse) string { return w.City })
	return items, nil
}

func (s *Service) Get(ctx context.Context, id string) (Warehouse, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Warehouse, error) {
	in.City = strings.TrimSpace(in.City)
	if err := shared.Validate(in); err != nil {
		return Warehouse{}, err
	}
	return s.repo.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Warehouse, error) {
	in.City = strings.TrimSpace(in.City)
	if err := shared.Validate(in); err != nil {
		return Warehouse{}, err
	}
	return s.repo.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

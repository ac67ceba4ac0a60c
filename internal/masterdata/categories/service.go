package categories

import (
	"context"
	"strings"

	"github.com/odyssey-erp/admin-console/internal/masterdata/shared"
)

type Service struct {
	categories    shared.Repository[Category]
	subcategories shared.Repository[SubCategory]
}

func NewService(categories shared.Repository[Category], subcategories shared.Repository[SubCategory]) *Service {
	return &Service{categories: categories, subcategories: subcategories}
}

// NewBackendService uses the backend's /categories/ and /subcategories/
// collections.
func NewBackendService() *Service {
	return NewService(
		shared.NewBackendRepository[Category]("categories"),
		shared.NewBackendRepository[SubCategory]("subcategories"),
	)
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	items, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	shared.SortByName(items, func(c Category) string { return c.Name })
	return items, nil
}

func (s *Service) GetCategory(ctx context.Context, id string) (Category, error) {
	return s.categories.Get(ctx, id)
}

func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (Category, error) {
	in = normalizeCategory(in)
	if err := shared.Validate(in); err != nil {
		return Category{}, err
	}
	return s.categories.Create(ctx, in)
}

func (s *Service) UpdateCategory(ctx context.Context, id string, in CategoryInput) (Category, error) {
	in = normalizeCategory(in)
	if err := shared.Validate(in); err != nil {
		return Category{}, err
	}
	return s.categories.Update(ctx, id, in)
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return s.categories.Delete(ctx, id)
}

// ListSubCategories orders by category, then name.
func (s *Service) ListSubCategories(ctx context.Context) ([]SubCategory, error) {
	items, err := s.subcategories.List(ctx)
	if err != nil {
		return nil, err
	}
	shared.SortByName(items, func(sc SubCategory) string { return sc.Name })
	shared.SortByName(items, func(sc SubCategory) string { return sc.CategoryName })
	return items, nil
}

func (s *Service) GetSubCategory(ctx context.Context, id string) (SubCategory, error) {
	return s.subcategories.Get(ctx, id)
}

func (s *Service) CreateSubCategory(ctx context.Context, in SubCategoryInput) (SubCategory, error) {
	in = normalizeSubCategory(in)
	if err := shared.Validate(in); err != nil {
		return SubCategory{}, err
	}
	return s.subcategories.Create(ctx, in)
}

func (s *Service) UpdateSubCategory(ctx context.Context, id string, in SubCategoryInput) (SubCategory, error) {
	in = normalizeSubCategory(in)
	if err := shared.Validate(in); err != nil {
		return SubCategory{}, err
	}
	return s.subcategories.Update(ctx, id, in)
}

func (s *Service) DeleteSubCategory(ctx context.Context, id string) error {
	return s.subcategories.Delete(ctx, id)
}

func normalizeCategory(in CategoryInput) CategoryInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

func normalizeSubCategory(in SubCategoryInput) SubCategoryInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

package announcements

import (
	"context"
	"sort"
	"strings"

	"github.com/odyssey-erp/admin-console/internal/masterdata/shared"
)

type Service struct {
	repo shared.Repository[Announcement]
}

func NewService(repo shared.Repository[Announcement]) *Service {
	return &Service{repo: repo}
}

// NewBackendService reads and writes the backend's /announcements/ collection.
func NewBackendService() *Service {
	return NewService(shared.NewBackendRepository[Announcement]("announcements"))
}

// List returns announcements newest first.
func (s *Service) List(ctx context.Context) ([]Announcement, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Service) Get(ctx context.Context, id string) (Announcement, error) {
	return s.repo.Get(ctx, id)
}

// Create publishes in under author's name.
func (s *Service) Create(ctx context.Context, author string, in Input) (Announcement, error) {
	in = normalize(in)
	in.CreatedBy = author
	if err := shared.Validate(in); err != nil {
		return Announcement{}, err
	}
	return s.repo.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Announcement, error) {
	in = normalize(in)
	in.CreatedBy = ""
	if err := shared.Validate(in); err != nil {
		return Announcement{}, err
	}
	return s.repo.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func normalize(in Input) Input {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	return in
}

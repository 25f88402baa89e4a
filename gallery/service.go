package gallery

import (
	"context"
	"promptgallery/catalog"
	"promptgallery/models"
	"promptgallery/storage"
)

// Service performs catalog operations on behalf of a user and applies the access rules:
// private images are only shown to their owner, only the owner (or an admin) can change them.
type Service struct {
	Store catalog.Store
	Host  storage.ImageHost
}

func NewService(store catalog.Store, host storage.ImageHost) *Service {
	return &Service{Store: store, Host: host}
}

func viewerID(viewer *models.User) string {
	if viewer == nil {
		return ""
	}
	return viewer.ID
}

func requireUser(user *models.User) error {
	if user == nil || user.ID == "" {
		return catalog.ErrUnauthenticated
	}
	return nil
}

func (s *Service) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.Store.ListCategories(ctx)
}

func (s *Service) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	return s.Store.GetCategory(ctx, id)
}

// CreateCategory is restricted to admins
func (s *Service) CreateCategory(ctx context.Context, actor *models.User, category *models.Category) (*models.Category, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, catalog.ErrForbidden
	}
	if _, err := s.Store.EnsureUser(ctx, actor); err != nil {
		return nil, err
	}
	category.CreatedBy = &actor.ID
	return s.Store.CreateCategory(ctx, category)
}

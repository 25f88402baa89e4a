package gallery

import (
	"context"
	"promptgallery/catalog"
	"promptgallery/models"
)

// AddFavorite makes sure the user row exists before the favorite references it
func (s *Service) AddFavorite(ctx context.Context, user *models.User, imageID string) (*models.Favorite, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	if _, err := s.Store.EnsureUser(ctx, user); err != nil {
		return nil, err
	}
	if _, err := s.GetImage(ctx, user, imageID); err != nil {
		return nil, err
	}
	return s.Store.AddFavorite(ctx, imageID, user.ID)
}

func (s *Service) RemoveFavorite(ctx context.Context, user *models.User, imageID string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	return s.Store.RemoveFavorite(ctx, imageID, user.ID)
}

func (s *Service) IsFavorited(ctx context.Context, user *models.User, imageID string) (bool, error) {
	if err := requireUser(user); err != nil {
		return false, err
	}
	return s.Store.IsFavorited(ctx, imageID, user.ID)
}

// ListUserFavorites only lists the caller's own favorites
func (s *Service) ListUserFavorites(ctx context.Context, user *models.User, userID string, from, to int) ([]*models.Favorite, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	if user.ID != userID {
		return nil, catalog.ErrForbidden
	}
	return s.Store.ListUserFavorites(ctx, userID, from, to)
}

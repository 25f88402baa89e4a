package catalog

import (
	"context"
	"errors"
	"promptgallery/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AddFavorite is idempotent, favoriting an image twice returns the first favorite
func (s *GormStore) AddFavorite(ctx context.Context, imageID, userID string) (*models.Favorite, error) {
	if imageID == "" || userID == "" {
		return nil, validationError("image and user are required")
	}
	fav := models.Favorite{UserID: userID, ImageID: imageID}
	err := s.tx(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}, {Name: "image_id"}}, DoNothing: true}).
		Create(&fav).Error
	if err != nil {
		return nil, platformError(err)
	}
	stored := &models.Favorite{}
	if err = s.tx(ctx).First(stored, "user_id = ? AND image_id = ?", userID, imageID).Error; err != nil {
		return nil, platformError(err)
	}
	return stored, nil
}

func (s *GormStore) RemoveFavorite(ctx context.Context, imageID, userID string) error {
	err := s.tx(ctx).Where("user_id = ? AND image_id = ?", userID, imageID).Delete(&models.Favorite{}).Error
	return platformError(err)
}

func (s *GormStore) IsFavorited(ctx context.Context, imageID, userID string) (bool, error) {
	fav := models.Favorite{}
	err := s.tx(ctx).Select("id").First(&fav, "user_id = ? AND image_id = ?", userID, imageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, platformError(err)
	}
	return true, nil
}

// ListUserFavorites returns rows from..to (inclusive) of the user's favorites, newest first,
// skipping images that are private to somebody else
func (s *GormStore) ListUserFavorites(ctx context.Context, userID string, from, to int) ([]*models.Favorite, error) {
	offset, limit, err := checkRange(from, to)
	if err != nil {
		return nil, err
	}
	favorites := []*models.Favorite{}
	err = s.tx(ctx).
		Select("favorites.*").
		Joins("JOIN images ON images.id = favorites.image_id").
		Where("favorites.user_id = ? AND (images.visibility = ? OR images.user_id = ?)", userID, models.VisibilityPublic, userID).
		Order("favorites.created_at DESC").
		Order("favorites.id DESC").
		Offset(offset).
		Limit(limit).
		Preload("Image").
		Find(&favorites).Error
	if err != nil {
		return nil, platformError(err)
	}
	images := []*models.Image{}
	for _, fav := range favorites {
		if fav.Image != nil {
			images = append(images, fav.Image)
		}
	}
	if err = attachSummaries(s.tx(ctx), images); err != nil {
		return nil, err
	}
	return favorites, nil
}

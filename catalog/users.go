package catalog

import (
	"context"
	"promptgallery/models"

	"gorm.io/gorm/clause"
)

func (s *GormStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}
	if err := s.tx(ctx).First(user, "id = ?", id).Error; err != nil {
		return nil, platformError(err)
	}
	return user, nil
}

// EnsureUser inserts the user row unless one with the same ID exists already.
// It is safe to call any number of times, the stored row is returned.
func (s *GormStore) EnsureUser(ctx context.Context, user *models.User) (*models.User, error) {
	if user == nil || user.ID == "" {
		return nil, validationError("user id is required")
	}
	row := *user
	err := s.tx(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return nil, platformError(err)
	}
	return s.GetUser(ctx, user.ID)
}

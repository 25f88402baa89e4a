package catalog

import (
	"context"
	"promptgallery/models"
	"strings"
)

func (s *GormStore) ListCategories(ctx context.Context) ([]*models.Category, error) {
	categories := []*models.Category{}
	if err := s.tx(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, platformError(err)
	}
	return categories, nil
}

func (s *GormStore) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	category := &models.Category{}
	if err := s.tx(ctx).First(category, "id = ?", id).Error; err != nil {
		return nil, platformError(err)
	}
	return category, nil
}

func (s *GormStore) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return nil, validationError("name is required")
	}
	if category.ParentID != nil && *category.ParentID == "" {
		category.ParentID = nil
	}
	if err := s.tx(ctx).Create(category).Error; err != nil {
		return nil, platformError(err)
	}
	return category, nil
}

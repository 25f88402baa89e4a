package catalog

import (
	"context"
	"promptgallery/models"
	"strings"
	"time"

	"gorm.io/gorm"
)

func (s *GormStore) filteredImages(ctx context.Context, f Filters) *gorm.DB {
	tx := s.tx(ctx).Model(&models.Image{})
	switch f.Visibility {
	case models.VisibilityPrivate:
		tx = tx.Where("visibility = ? AND user_id = ?", models.VisibilityPrivate, f.ViewerID)
	case models.VisibilityAll:
		if f.ViewerID == "" {
			tx = tx.Where("visibility = ?", models.VisibilityPublic)
		} else {
			tx = tx.Where("(visibility = ? OR user_id = ?)", models.VisibilityPublic, f.ViewerID)
		}
	default:
		tx = tx.Where("visibility = ?", models.VisibilityPublic)
	}
	if f.Category != "" {
		tx = tx.Where("category_id = ?", f.Category)
	}
	if f.UserID != "" {
		tx = tx.Where("user_id = ?", f.UserID)
	}
	if f.Search != "" {
		pattern := likePattern(f.Search)
		tx = tx.Where("(LOWER(title) LIKE ? ESCAPE '!' OR LOWER(prompt) LIKE ? ESCAPE '!')", pattern, pattern)
	}
	return tx
}

func (s *GormStore) ListImages(ctx context.Context, filters Filters) (ImagePage, error) {
	f, err := filters.normalized()
	if err != nil {
		return ImagePage{}, err
	}
	page := ImagePage{Images: []*models.Image{}, Page: f.Page, Limit: f.Limit}
	if err = s.filteredImages(ctx, f).Count(&page.Total).Error; err != nil {
		return ImagePage{}, platformError(err)
	}
	err = s.filteredImages(ctx, f).
		Order("created_at DESC").
		Order("id DESC").
		Offset(f.offset()).
		Limit(f.Limit).
		Find(&page.Images).Error
	if err != nil {
		return ImagePage{}, platformError(err)
	}
	if err = attachSummaries(s.tx(ctx), page.Images); err != nil {
		return ImagePage{}, err
	}
	return page, nil
}

func (s *GormStore) GetImage(ctx context.Context, id string) (*models.Image, error) {
	image := &models.Image{}
	if err := s.tx(ctx).First(image, "id = ?", id).Error; err != nil {
		return nil, platformError(err)
	}
	if err := attachSummaries(s.tx(ctx), []*models.Image{image}); err != nil {
		return nil, err
	}
	return image, nil
}

func (s *GormStore) CreateImage(ctx context.Context, image *models.Image) (*models.Image, error) {
	image.Title = strings.TrimSpace(image.Title)
	image.Prompt = strings.TrimSpace(image.Prompt)
	image.URL = strings.TrimSpace(image.URL)
	image.DeleteURL = strings.TrimSpace(image.DeleteURL)
	switch {
	case image.Title == "":
		return nil, validationError("title is required")
	case image.Prompt == "":
		return nil, validationError("prompt is required")
	case image.URL == "" || image.DeleteURL == "":
		return nil, validationError("image url and delete url are required")
	case image.UserID == "":
		return nil, validationError("owner is required")
	}
	if image.Visibility == "" {
		image.Visibility = models.VisibilityPublic
	}
	if !image.Visibility.Valid() {
		return nil, validationError("invalid visibility: %s", image.Visibility)
	}
	if image.CategoryID != nil && *image.CategoryID == "" {
		image.CategoryID = nil
	}
	// Counter only moves through IncrementViewCount
	image.ViewCount = 0
	if err := s.tx(ctx).Create(image).Error; err != nil {
		return nil, platformError(err)
	}
	return s.GetImage(ctx, image.ID)
}

func (s *GormStore) UpdateImage(ctx context.Context, id string, update ImageUpdate) (*models.Image, error) {
	updates := map[string]any{}
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, validationError("title cannot be empty")
		}
		updates["title"] = title
	}
	if update.Prompt != nil {
		prompt := strings.TrimSpace(*update.Prompt)
		if prompt == "" {
			return nil, validationError("prompt cannot be empty")
		}
		updates["prompt"] = prompt
	}
	if update.CategoryID != nil {
		if *update.CategoryID == "" {
			updates["category_id"] = nil
		} else {
			updates["category_id"] = *update.CategoryID
		}
	}
	if update.Visibility != nil {
		if !update.Visibility.Valid() {
			return nil, validationError("invalid visibility: %s", *update.Visibility)
		}
		updates["visibility"] = *update.Visibility
	}
	var count int64
	if err := s.tx(ctx).Model(&models.Image{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, platformError(err)
	}
	if count == 0 {
		return nil, ErrNotFound
	}
	updates["updated_at"] = time.Now()
	if err := s.tx(ctx).Model(&models.Image{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, platformError(err)
	}
	return s.GetImage(ctx, id)
}

// DeleteImage removes the image row together with its favorites
func (s *GormStore) DeleteImage(ctx context.Context, id string) error {
	return s.tx(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("image_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return platformError(err)
		}
		result := tx.Where("id = ?", id).Delete(&models.Image{})
		if result.Error != nil {
			return platformError(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// IncrementViewCount bumps the counter in the database, concurrent calls never lose an update
func (s *GormStore) IncrementViewCount(ctx context.Context, id string) error {
	result := s.tx(ctx).
		Model(&models.Image{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if result.Error != nil {
		return platformError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUserImages returns rows from..to (inclusive) of the user's images, newest first.
// Private images are only included for the owner.
func (s *GormStore) ListUserImages(ctx context.Context, userID, viewerID string, from, to int) ([]*models.Image, error) {
	offset, limit, err := checkRange(from, to)
	if err != nil {
		return nil, err
	}
	tx := s.tx(ctx).Where("user_id = ?", userID)
	if viewerID != userID {
		tx = tx.Where("visibility = ?", models.VisibilityPublic)
	}
	images := []*models.Image{}
	err = tx.Order("created_at DESC").Order("id DESC").Offset(offset).Limit(limit).Find(&images).Error
	if err != nil {
		return nil, platformError(err)
	}
	if err = attachSummaries(s.tx(ctx), images); err != nil {
		return nil, err
	}
	return images, nil
}

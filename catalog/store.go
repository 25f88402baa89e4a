package catalog

import (
	"context"
	"promptgallery/models"

	"gorm.io/gorm"
)

// Store is the data access contract of the gallery catalog:
// users, categories, images and favorites.
type Store interface {
	ListImages(ctx context.Context, filters Filters) (ImagePage, error)
	GetImage(ctx context.Context, id string) (*models.Image, error)
	CreateImage(ctx context.Context, image *models.Image) (*models.Image, error)
	UpdateImage(ctx context.Context, id string, update ImageUpdate) (*models.Image, error)
	DeleteImage(ctx context.Context, id string) error
	IncrementViewCount(ctx context.Context, id string) error
	ListUserImages(ctx context.Context, userID, viewerID string, from, to int) ([]*models.Image, error)

	ListCategories(ctx context.Context) ([]*models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)

	GetUser(ctx context.Context, id string) (*models.User, error)
	EnsureUser(ctx context.Context, user *models.User) (*models.User, error)

	AddFavorite(ctx context.Context, imageID, userID string) (*models.Favorite, error)
	RemoveFavorite(ctx context.Context, imageID, userID string) error
	IsFavorited(ctx context.Context, imageID, userID string) (bool, error)
	ListUserFavorites(ctx context.Context, userID string, from, to int) ([]*models.Favorite, error)
}

// GormStore implements Store on top of a relational database
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) tx(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// attachSummaries loads the owner and category summaries of the given images
func attachSummaries(tx *gorm.DB, images []*models.Image) error {
	if len(images) == 0 {
		return nil
	}
	userIDs := []string{}
	categoryIDs := []string{}
	for _, image := range images {
		userIDs = append(userIDs, image.UserID)
		if image.CategoryID != nil {
			categoryIDs = append(categoryIDs, *image.CategoryID)
		}
	}
	users := []models.UserSummary{}
	if err := tx.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return platformError(err)
	}
	usersByID := map[string]*models.UserSummary{}
	for i := range users {
		usersByID[users[i].ID] = &users[i]
	}
	categoriesByID := map[string]*models.CategorySummary{}
	if len(categoryIDs) > 0 {
		categories := []models.CategorySummary{}
		if err := tx.Where("id IN ?", categoryIDs).Find(&categories).Error; err != nil {
			return platformError(err)
		}
		for i := range categories {
			categoriesByID[categories[i].ID] = &categories[i]
		}
	}
	for _, image := range images {
		image.User = usersByID[image.UserID]
		if image.CategoryID != nil {
			image.Category = categoriesByID[*image.CategoryID]
		}
	}
	return nil
}

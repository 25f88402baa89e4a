package models

import (
	"log"
	"promptgallery/config"
	"promptgallery/db"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func Init() {
	if err := Migrate(db.Instance); err != nil {
		panic(err)
	}
	if err := SeedCategories(db.Instance, config.SplitList(config.SEED_CATEGORIES)); err != nil {
		log.Printf("Seeding categories failed: %v", err)
	}
}

func Migrate(tx *gorm.DB) error {
	return tx.AutoMigrate(
		&User{},
		&Category{},
		&Image{},
		&Favorite{},
		&Account{},
		&AuthSession{},
	)
}

// SeedCategories creates the named categories, but only when there are none yet
func SeedCategories(tx *gorm.DB, names []string) error {
	var count int64
	if err := tx.Model(&Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 || len(names) == 0 {
		return nil
	}
	categories := make([]Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, Category{Name: name})
	}
	return tx.Create(&categories).Error
}

func newID() string {
	return uuid.NewString()
}

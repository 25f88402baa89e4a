package models

import (
	"time"

	"gorm.io/gorm"
)

// Category may have a parent, which allows a tree of categories.
// There is no traversal, listings are flat.
type Category struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null;index" json:"name"`
	ParentID    *string   `gorm:"type:varchar(36)" json:"parent_id,omitempty"`
	Parent      *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	Description *string   `gorm:"type:varchar(1000)" json:"description,omitempty"`
	CreatedBy   *string   `gorm:"type:varchar(36)" json:"created_by,omitempty"`
	Creator     *User     `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategorySummary is the part of a Category that is embedded in image listings
type CategorySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (CategorySummary) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = newID()
	}
	return nil
}

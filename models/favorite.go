package models

import (
	"time"

	"gorm.io/gorm"
)

type Favorite struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:uniq_user_image,priority:1;index:user_favorite_created,priority:1" json:"user_id"`
	User      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ImageID   string    `gorm:"type:varchar(36);not null;uniqueIndex:uniq_user_image,priority:2;index" json:"image_id"`
	Image     *Image    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"image,omitempty"`
	CreatedAt time.Time `gorm:"index:user_favorite_created,priority:2" json:"created_at"`
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = newID()
	}
	return nil
}

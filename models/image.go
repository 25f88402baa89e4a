package models

import (
	"time"

	"gorm.io/gorm"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
	// VisibilityAll is only meaningful as a listing filter
	VisibilityAll Visibility = "all"
)

// Valid reports whether v can be stored on an image
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

type Image struct {
	ID          string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string     `gorm:"type:varchar(300);not null" json:"title"`
	URL         string     `gorm:"column:imgbb_url;type:varchar(2000);not null" json:"imgbb_url"`
	DeleteURL   string     `gorm:"column:imgbb_delete_url;type:varchar(2000);not null" json:"-"` // Never leaves the server
	Prompt      string     `gorm:"type:text;not null" json:"prompt"`
	UserID      string     `gorm:"type:varchar(36);not null;index:user_image_created,priority:1" json:"user_id"`
	Owner       *User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CategoryID  *string    `gorm:"type:varchar(36);index" json:"category_id"`
	CategoryRef *Category  `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	ViewCount   int64      `gorm:"not null;default:0" json:"view_count"`
	Visibility  Visibility `gorm:"type:varchar(16);not null;default:'public';index" json:"visibility"`
	CreatedAt   time.Time  `gorm:"index:user_image_created,priority:2;index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Joined on read
	User     *UserSummary     `gorm:"-" json:"user,omitempty"`
	Category *CategorySummary `gorm:"-" json:"category,omitempty"`
}

func (i *Image) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = newID()
	}
	if i.Visibility == "" {
		i.Visibility = VisibilityPublic
	}
	return nil
}

func (i *Image) IsPublic() bool {
	return i.Visibility == VisibilityPublic
}

// VisibleTo reports whether the image may be shown to the given user (nil for anonymous)
func (i *Image) VisibleTo(u *User) bool {
	return i.IsPublic() || u.CanModify(i.UserID)
}

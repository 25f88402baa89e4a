package catalog

import (
	"promptgallery/config"
	"promptgallery/models"
	"strings"
)

// Filters for image listings. All fields are optional and can be combined.
type Filters struct {
	Category   string
	Search     string // Case-insensitive, matches title or prompt
	Visibility models.Visibility
	UserID     string // Only images owned by this user
	ViewerID   string // Who is asking, private images are only ever shown to their owner
	Page       int
	Limit      int
}

type ImagePage struct {
	Images []*models.Image `json:"images"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

// ImageUpdate holds the fields to change, nil fields are left as they are.
// An empty CategoryID removes the category.
type ImageUpdate struct {
	Title      *string            `json:"title"`
	Prompt     *string            `json:"prompt"`
	CategoryID *string            `json:"category_id"`
	Visibility *models.Visibility `json:"visibility"`
}

func (f Filters) normalized() (Filters, error) {
	f.Category = strings.TrimSpace(f.Category)
	f.Search = strings.TrimSpace(f.Search)
	if f.Visibility == "" {
		f.Visibility = models.VisibilityPublic
	}
	if !f.Visibility.Valid() && f.Visibility != models.VisibilityAll {
		return f, validationError("invalid visibility: %s", f.Visibility)
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = config.DEFAULT_PAGE_LIMIT
	}
	if f.Limit > config.MAX_PAGE_LIMIT {
		f.Limit = config.MAX_PAGE_LIMIT
	}
	return f, nil
}

func (f Filters) offset() int {
	return (f.Page - 1) * f.Limit
}

// checkRange validates an inclusive [from, to] row range and returns offset and limit
func checkRange(from, to int) (int, int, error) {
	if from < 0 || to < from {
		return 0, 0, validationError("invalid range: %d-%d", from, to)
	}
	limit := to - from + 1
	if limit > config.MAX_PAGE_LIMIT {
		return 0, 0, validationError("range too big: %d rows, at most %d allowed", limit, config.MAX_PAGE_LIMIT)
	}
	return from, limit, nil
}

// likePattern builds a LIKE pattern matching s anywhere, with '!' as the escape character
func likePattern(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

package gallery

import (
	"bytes"
	"context"
	"io"
	"log"
	"promptgallery/catalog"
	"promptgallery/config"
	"promptgallery/models"
	"promptgallery/utils"
	"strings"
)

// NewImage holds the user supplied fields of an image
type NewImage struct {
	Title      string            `json:"title"`
	Prompt     string            `json:"prompt"`
	CategoryID *string           `json:"category_id"`
	Visibility models.Visibility `json:"visibility"`
	// Set by callers that uploaded to the image host themselves
	URL       string `json:"imgbb_url"`
	DeleteURL string `json:"imgbb_delete_url"`
}

// Upload is the image file sent by the user
type Upload struct {
	Name        string
	ContentType string
	Size        int64 // -1 when unknown
	Reader      io.Reader
}

func (n *NewImage) validate() error {
	n.Title = strings.TrimSpace(n.Title)
	n.Prompt = strings.TrimSpace(n.Prompt)
	if n.Title == "" {
		return catalog.NewValidationError("title is required")
	}
	if n.Prompt == "" {
		return catalog.NewValidationError("prompt is required")
	}
	if n.Visibility == "" {
		n.Visibility = models.VisibilityPublic
	}
	if !n.Visibility.Valid() {
		return catalog.NewValidationError("invalid visibility: %s", n.Visibility)
	}
	return nil
}

func (n *NewImage) toImage(owner *models.User) *models.Image {
	return &models.Image{
		Title:      n.Title,
		Prompt:     n.Prompt,
		CategoryID: n.CategoryID,
		Visibility: n.Visibility,
		URL:        n.URL,
		DeleteURL:  n.DeleteURL,
		UserID:     owner.ID,
	}
}

func (s *Service) ListImages(ctx context.Context, viewer *models.User, filters catalog.Filters) (catalog.ImagePage, error) {
	filters.ViewerID = viewerID(viewer)
	return s.Store.ListImages(ctx, filters)
}

// GetImage reports private images of other users as not found
func (s *Service) GetImage(ctx context.Context, viewer *models.User, id string) (*models.Image, error) {
	image, err := s.Store.GetImage(ctx, id)
	if err != nil {
		return nil, err
	}
	if !image.VisibleTo(viewer) {
		return nil, catalog.ErrNotFound
	}
	return image, nil
}

func (s *Service) ListUserImages(ctx context.Context, viewer *models.User, userID string, from, to int) ([]*models.Image, error) {
	return s.Store.ListUserImages(ctx, userID, viewerID(viewer), from, to)
}

// CreateImageFromURL inserts an image that is already stored on the image host
func (s *Service) CreateImageFromURL(ctx context.Context, owner *models.User, fields NewImage) (*models.Image, error) {
	if err := requireUser(owner); err != nil {
		return nil, err
	}
	if err := fields.validate(); err != nil {
		return nil, err
	}
	if _, err := s.Store.EnsureUser(ctx, owner); err != nil {
		return nil, err
	}
	return s.Store.CreateImage(ctx, fields.toImage(owner))
}

// CreateImage uploads the file to the image host and then inserts the catalog row.
// The upload is removed again if the row cannot be inserted.
func (s *Service) CreateImage(ctx context.Context, owner *models.User, upload Upload, fields NewImage) (*models.Image, error) {
	if err := requireUser(owner); err != nil {
		return nil, err
	}
	if err := fields.validate(); err != nil {
		return nil, err
	}
	data, contentType, err := readUpload(upload)
	if err != nil {
		return nil, err
	}
	if _, err = s.Store.EnsureUser(ctx, owner); err != nil {
		return nil, err
	}
	uploaded, err := s.Host.Upload(ctx, upload.Name, contentType, bytes.NewReader(data))
	if err != nil {
		log.Printf("Image upload failed, user %s: %v", owner.ID, err)
		return nil, err
	}
	fields.URL = uploaded.URL
	fields.DeleteURL = uploaded.DeleteURL
	image, err := s.Store.CreateImage(ctx, fields.toImage(owner))
	if err != nil {
		if delErr := s.Host.Delete(context.WithoutCancel(ctx), uploaded.DeleteURL); delErr != nil {
			log.Printf("Cannot delete orphan upload %s: %v", uploaded.URL, delErr)
		}
		return nil, err
	}
	return image, nil
}

// readUpload checks type and size of the file and downscales big images
func readUpload(upload Upload) ([]byte, string, error) {
	contentType := strings.ToLower(strings.TrimSpace(upload.ContentType))
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", catalog.NewValidationError("only images can be uploaded")
	}
	if upload.Reader == nil {
		return nil, "", catalog.NewValidationError("image is required")
	}
	maxSize := int64(config.MAX_UPLOAD_MB) << 20
	if upload.Size > maxSize {
		return nil, "", catalog.NewValidationError("image is bigger than %dMB", config.MAX_UPLOAD_MB)
	}
	data, err := io.ReadAll(io.LimitReader(upload.Reader, maxSize+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(data)) > maxSize {
		return nil, "", catalog.NewValidationError("image is bigger than %dMB", config.MAX_UPLOAD_MB)
	}
	if len(data) == 0 {
		return nil, "", catalog.NewValidationError("image is empty")
	}
	if config.MAX_IMAGE_DIMENSION > 0 {
		result, err := utils.Downscale(uint(config.MAX_IMAGE_DIMENSION), data, contentType)
		if err != nil {
			return nil, "", catalog.NewValidationError("cannot read image: %v", err)
		}
		if result.Changed {
			log.Printf("Downscaled upload %s from %dx%d to %dx%d", upload.Name, result.OldX, result.OldY, result.NewX, result.NewY)
		}
		return result.Data, result.ContentType, nil
	}
	return data, contentType, nil
}

func (s *Service) checkOwner(ctx context.Context, actor *models.User, id string) (*models.Image, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	image, err := s.Store.GetImage(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(image.UserID) {
		if !image.VisibleTo(actor) {
			return nil, catalog.ErrNotFound
		}
		return nil, catalog.ErrForbidden
	}
	return image, nil
}

func (s *Service) UpdateImage(ctx context.Context, actor *models.User, id string, update catalog.ImageUpdate) (*models.Image, error) {
	if _, err := s.checkOwner(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.Store.UpdateImage(ctx, id, update)
}

// DeleteImage removes the image from the host first. Host failures are only logged,
// the catalog row is deleted regardless.
func (s *Service) DeleteImage(ctx context.Context, actor *models.User, id string) error {
	image, err := s.checkOwner(ctx, actor, id)
	if err != nil {
		return err
	}
	if s.Host != nil && image.DeleteURL != "" {
		if err = s.Host.Delete(ctx, image.DeleteURL); err != nil {
			log.Printf("Cannot delete image %s from the image host: %v", image.ID, err)
		}
	}
	return s.Store.DeleteImage(ctx, id)
}

func (s *Service) RecordView(ctx context.Context, id string) error {
	return s.Store.IncrementViewCount(ctx, id)
}

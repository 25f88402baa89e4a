package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"promptgallery/config"
	"strings"

	"github.com/google/uuid"
)

const (
	HostImgBB = "imgbb"
	HostS3    = "s3"
	HostDisk  = "disk"
)

// Uploaded describes a stored image: the public URL and the reference needed to delete it later
type Uploaded struct {
	URL       string `json:"url"`
	DeleteURL string `json:"delete_url"`
}

// ImageHost keeps the image bytes, the catalog only stores the URLs it returns
type ImageHost interface {
	Upload(ctx context.Context, name, contentType string, reader io.Reader) (Uploaded, error)
	Delete(ctx context.Context, deleteRef string) error
}

// Init creates the image host selected by config.IMAGE_HOST
func Init() ImageHost {
	host, err := NewFromConfig()
	if err != nil {
		panic(err)
	}
	return host
}

func NewFromConfig() (ImageHost, error) {
	switch strings.ToLower(config.IMAGE_HOST) {
	case HostImgBB:
		if config.IMGBB_API_KEY == "" {
			return nil, fmt.Errorf("IMGBB_API_KEY is required for the imgbb image host")
		}
		return NewImgBBHost(config.IMGBB_ENDPOINT, config.IMGBB_API_KEY, config.IMGBB_EXPIRATION), nil
	case HostS3:
		if config.S3_BUCKET == "" {
			return nil, fmt.Errorf("S3_BUCKET is required for the s3 image host")
		}
		return NewS3Host(S3Options{
			Bucket:    config.S3_BUCKET,
			Region:    config.S3_REGION,
			Endpoint:  config.S3_ENDPOINT,
			AccessKey: config.S3_ACCESS_KEY,
			SecretKey: config.S3_SECRET_KEY,
			Prefix:    config.S3_PREFIX,
			PublicURL: config.S3_PUBLIC_URL,
		})
	case HostDisk, "":
		return NewDiskHost(config.DISK_DIR, strings.TrimRight(config.PUBLIC_URL, "/")+"/media"), nil
	}
	return nil, fmt.Errorf("unknown image host: %s", config.IMAGE_HOST)
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// objectName returns a unique file name keeping the image type as extension
func objectName(name, contentType string) string {
	ext, ok := extensions[strings.ToLower(contentType)]
	if !ok {
		ext = strings.ToLower(filepath.Ext(name))
	}
	return uuid.NewString() + ext
}

package utils

import (
	"bytes"
	"crypto/rand"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"math/big"

	"github.com/nfnt/resize"
)

// RandToken returns 32 random bytes as a base62 string
func RandToken() string {
	buf := make([]byte, 32)
	_, err := rand.Read(buf)
	if err != nil {
		panic(err)
	}
	var i big.Int
	return i.SetBytes(buf).Text(62)
}

type Downscaled struct {
	Data        []byte
	ContentType string
	Changed     bool
	NewX        int
	NewY        int
	OldX        int
	OldY        int
}

// Downscale shrinks the image so that neither side is bigger than maxSize.
// Images that already fit, or that cannot be decoded, are returned as they are.
func Downscale(maxSize uint, data []byte, contentType string) (result Downscaled, err error) {
	result = Downscaled{Data: data, ContentType: contentType}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		// Unknown format, e.g. webp
		return result, nil
	}
	result.OldX, result.OldY = cfg.Width, cfg.Height
	result.NewX, result.NewY = cfg.Width, cfg.Height
	if maxSize == 0 || (uint(cfg.Width) <= maxSize && uint(cfg.Height) <= maxSize) {
		return result, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return result, err
	}
	newImage := resize.Thumbnail(maxSize, maxSize, img, resize.Lanczos3)
	var newBuf bytes.Buffer
	if format == "jpeg" {
		err = jpeg.Encode(&newBuf, newImage, &jpeg.Options{Quality: 90})
		result.ContentType = "image/jpeg"
	} else {
		err = png.Encode(&newBuf, newImage)
		result.ContentType = "image/png"
	}
	if err != nil {
		return result, err
	}
	size := newImage.Bounds().Size()
	result.NewX, result.NewY = size.X, size.Y
	result.Data = newBuf.Bytes()
	result.Changed = true
	return result, nil
}

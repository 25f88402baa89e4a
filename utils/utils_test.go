package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandToken(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		token := RandToken()
		assert.Greater(t, len(token), 30)
		assert.False(t, seen[token])
		seen[token] = true
	}
}

func testImage(t *testing.T, w, h int, format string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	buf := bytes.Buffer{}
	if format == "png" {
		require.NoError(t, png.Encode(&buf, img))
	} else {
		require.NoError(t, jpeg.Encode(&buf, img, nil))
	}
	return buf.Bytes()
}

func TestDownscale(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		contentType string
		maxSize     uint
		changed     bool
		newX, newY  int
		wantType    string
	}{
		{"png too wide", testImage(t, 400, 200, "png"), "image/png", 100, true, 100, 50, "image/png"},
		{"jpeg too tall", testImage(t, 100, 300, "jpeg"), "image/jpeg", 150, true, 50, 150, "image/jpeg"},
		{"fits", testImage(t, 80, 60, "png"), "image/png", 100, false, 80, 60, "image/png"},
		{"disabled", testImage(t, 400, 200, "png"), "image/png", 0, false, 400, 200, "image/png"},
		{"not an image", []byte("RIFF....WEBPVP8 "), "image/webp", 100, false, 0, 0, "image/webp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Downscale(tt.maxSize, tt.data, tt.contentType)
			require.NoError(t, err)
			assert.Equal(t, tt.changed, result.Changed)
			assert.Equal(t, tt.newX, result.NewX)
			assert.Equal(t, tt.newY, result.NewY)
			assert.Equal(t, tt.wantType, result.ContentType)
			if !tt.changed {
				assert.Equal(t, tt.data, result.Data)
				return
			}
			cfg, _, err := image.DecodeConfig(bytes.NewReader(result.Data))
			require.NoError(t, err)
			assert.Equal(t, tt.newX, cfg.Width)
			assert.Equal(t, tt.newY, cfg.Height)
		})
	}
}

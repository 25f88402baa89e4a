package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"time"
)

// ImgBBHost uploads images to ImgBB (or any service speaking its upload API)
type ImgBBHost struct {
	Endpoint   string
	APIKey     string
	Expiration int // seconds, 0 keeps the image forever
	httpClient *http.Client
}

type imgbbResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		URL       string `json:"url"`
		DeleteURL string `json:"delete_url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewImgBBHost(endpoint, apiKey string, expiration int) *ImgBBHost {
	return &ImgBBHost{
		Endpoint:   endpoint,
		APIKey:     apiKey,
		Expiration: expiration,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (h *ImgBBHost) uploadURL() (string, error) {
	u, err := url.Parse(h.Endpoint)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("key", h.APIKey)
	if h.Expiration > 0 {
		q.Set("expiration", strconv.Itoa(h.Expiration))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (h *ImgBBHost) Upload(ctx context.Context, name, contentType string, reader io.Reader) (Uploaded, error) {
	target, err := h.uploadURL()
	if err != nil {
		return Uploaded{}, err
	}
	buf := bytes.Buffer{}
	form := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, objectName(name, contentType)))
	header.Set("Content-Type", contentType)
	part, err := form.CreatePart(header)
	if err != nil {
		return Uploaded{}, err
	}
	if _, err = io.Copy(part, reader); err != nil {
		return Uploaded{}, err
	}
	if err = form.Close(); err != nil {
		return Uploaded{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, &buf)
	if err != nil {
		return Uploaded{}, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return Uploaded{}, err
	}
	defer resp.Body.Close()

	result := imgbbResponse{}
	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Uploaded{}, fmt.Errorf("image host response, status %d: %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !result.Success {
		if result.Error.Message != "" {
			return Uploaded{}, fmt.Errorf("image host upload failed: %s", result.Error.Message)
		}
		return Uploaded{}, fmt.Errorf("image host upload failed, status: %d", resp.StatusCode)
	}
	if result.Data.URL == "" || result.Data.DeleteURL == "" {
		return Uploaded{}, fmt.Errorf("image host returned no url")
	}
	return Uploaded{URL: result.Data.URL, DeleteURL: result.Data.DeleteURL}, nil
}

// Delete requests the delete URL returned on upload
func (h *ImgBBHost) Delete(ctx context.Context, deleteRef string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, deleteRef, nil)
	if err != nil {
		return err
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("image host delete failed, status: %d", resp.StatusCode)
	}
	return nil
}

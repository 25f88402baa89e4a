package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"promptgallery/auth"
	"promptgallery/catalog"
	"promptgallery/db"
	"promptgallery/gallery"
	"promptgallery/models"
	"promptgallery/storage"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServer struct {
	engine   *gin.Engine
	store    *catalog.GormStore
	provider *auth.LocalProvider
	disk     *storage.DiskHost
	tx       *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tx, err := db.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, models.Migrate(tx))
	t.Cleanup(func() {
		if sqlDB, err := tx.DB(); err == nil {
			sqlDB.Close()
		}
	})
	store := catalog.NewStore(tx)
	provider := auth.NewLocalProvider(tx, time.Hour)
	disk := storage.NewDiskHost(t.TempDir(), "http://localhost/media")
	h := NewHandlers(gallery.NewService(store, disk), provider)

	engine := gin.New()
	engine.Use(sessions.Sessions("token", cookie.NewStore([]byte("test key"))))
	h.Register(&auth.Router{Base: engine, Provider: provider, Users: store})
	return &testServer{engine: engine, store: store, provider: provider, disk: disk, tx: tx}
}

// signUp returns the bearer token of a new account
func (s *testServer) signUp(t *testing.T, email string) (string, string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{"email": email, "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := AuthResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res.Token, res.User.ID
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) createImage(t *testing.T, token, title string, visibility models.Visibility) *models.Image {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/images", token, gin.H{
		"title":            title,
		"prompt":           "prompt of " + title,
		"visibility":       visibility,
		"imgbb_url":        "https://i.ibb.co/" + title,
		"imgbb_delete_url": "https://ibb.co/delete/" + title,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	res := ImageResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res.Image
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{catalog.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("image: %w", catalog.ErrNotFound), http.StatusNotFound},
		{catalog.ErrUnauthenticated, http.StatusUnauthorized},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{catalog.ErrForbidden, http.StatusForbidden},
		{catalog.NewValidationError("title is required"), http.StatusBadRequest},
		{&catalog.PlatformError{Err: errors.New("FOREIGN KEY constraint failed")}, http.StatusBadRequest},
		{auth.ErrEmailTaken, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		status, response := errorStatus(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		if status == http.StatusInternalServerError {
			assert.Equal(t, "Internal server error", response.Error)
		} else {
			assert.Equal(t, tt.err.Error(), response.Error)
		}
	}
}

func TestImageRoutes(t *testing.T) {
	s := newTestServer(t)
	alice, aliceID := s.signUp(t, "alice@example.com")
	bob, _ := s.signUp(t, "bob@example.com")

	// Anonymous callers cannot create
	w := s.do(t, http.MethodPost, "/api/images", "", gin.H{"title": "t"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	// Missing fields
	w = s.do(t, http.MethodPost, "/api/images", alice, gin.H{"title": "t", "prompt": "p"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	// Not a JSON object
	w = s.do(t, http.MethodPost, "/api/images", alice, "title")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Bad request"}`, w.Body.String())

	image := s.createImage(t, alice, "Sunset", models.VisibilityPublic)
	assert.Equal(t, aliceID, image.UserID)
	assert.Equal(t, "https://i.ibb.co/Sunset", image.URL)

	w = s.do(t, http.MethodGet, "/api/images/"+image.ID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "imgbb_delete_url")
	assert.Contains(t, w.Body.String(), `"username":"alice"`)

	w = s.do(t, http.MethodGet, "/api/images/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Only the owner can change it
	w = s.do(t, http.MethodPut, "/api/images/"+image.ID, bob, gin.H{"title": "mine now"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(t, http.MethodPut, "/api/images/"+image.ID, alice, []string{"Sunrise"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Bad request"}`, w.Body.String())
	w = s.do(t, http.MethodPut, "/api/images/"+image.ID, alice, gin.H{"title": "Sunrise"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Sunrise"`)

	for i := 0; i < 2; i++ {
		w = s.do(t, http.MethodPost, "/api/images/"+image.ID+"/view", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	w = s.do(t, http.MethodGet, "/api/images/"+image.ID, "", nil)
	assert.Contains(t, w.Body.String(), `"view_count":2`)

	w = s.do(t, http.MethodDelete, "/api/images/"+image.ID, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(t, http.MethodDelete, "/api/images/"+image.ID, alice, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodDelete, "/api/images/"+image.ID, alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImageList(t *testing.T) {
	s := newTestServer(t)
	alice, _ := s.signUp(t, "alice@example.com")
	bob, _ := s.signUp(t, "bob@example.com")
	for i := 0; i < 3; i++ {
		s.createImage(t, alice, fmt.Sprintf("public-%d", i), models.VisibilityPublic)
	}
	private := s.createImage(t, alice, "private", models.VisibilityPrivate)

	list := func(token, query string) catalog.ImagePage {
		t.Helper()
		w := s.do(t, http.MethodGet, "/api/images"+query, token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		page := catalog.ImagePage{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		return page
	}

	page := list("", "")
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.Limit)

	page = list("", "?limit=2&page=2")
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Images, 1)

	page = list(alice, "?visibility=private")
	require.Len(t, page.Images, 1)
	assert.Equal(t, private.ID, page.Images[0].ID)
	page = list(bob, "?visibility=private")
	assert.Empty(t, page.Images)
	page = list(alice, "?visibility=all")
	assert.Equal(t, int64(4), page.Total)
	page = list("", "?search=PUBLIC-1")
	assert.Equal(t, int64(1), page.Total)

	w := s.do(t, http.MethodGet, "/api/images?visibility=friends", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodGet, "/api/images?page=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Private images of others look like missing ones
	w = s.do(t, http.MethodGet, "/api/images/"+private.ID, bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(t, http.MethodPost, "/api/images/"+private.ID+"/view", bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func multipartUpload(t *testing.T, contentType string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, form.WriteField(k, v))
	}
	if data != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="image"; filename="art.png"`)
		header.Set("Content-Type", contentType)
		part, err := form.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, form.Close())
	return body, form.FormDataContentType()
}

func TestImageUpload(t *testing.T) {
	s := newTestServer(t)
	alice, _ := s.signUp(t, "alice@example.com")
	upload := func(contentType string, data []byte, fields map[string]string) *httptest.ResponseRecorder {
		body, formType := multipartUpload(t, contentType, data, fields)
		req := httptest.NewRequest(http.MethodPost, "/api/images/upload", body)
		req.Header.Set("Content-Type", formType)
		req.Header.Set("Authorization", "Bearer "+alice)
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)
		return w
	}

	w := upload("image/png", []byte("png bytes"), map[string]string{"title": "Art", "prompt": "a cat", "visibility": "private"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	res := ImageResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, models.VisibilityPrivate, res.Image.Visibility)
	assert.True(t, strings.HasPrefix(res.Image.URL, "http://localhost/media/"))

	// The disk host serves it back
	name := strings.TrimPrefix(res.Image.URL, "http://localhost/media/")
	w = s.do(t, http.MethodGet, "/media/"+name, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png bytes", w.Body.String())
	assert.Equal(t, "public, max-age=31536000, immutable", w.Header().Get("cache-control"))

	w = upload("text/plain", []byte("hello"), map[string]string{"title": "Art", "prompt": "a cat"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = upload("image/png", nil, map[string]string{"title": "Art", "prompt": "a cat"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = upload("image/png", []byte("png bytes"), map[string]string{"prompt": "a cat"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = upload("image/png", bytes.Repeat([]byte("x"), 5<<20+1), map[string]string{"title": "Art", "prompt": "a cat"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFavoriteRoutes(t *testing.T) {
	s := newTestServer(t)
	alice, aliceID := s.signUp(t, "alice@example.com")
	bob, bobID := s.signUp(t, "bob@example.com")
	image := s.createImage(t, alice, "Liked", models.VisibilityPublic)
	path := "/api/images/" + image.ID + "/favorite"

	w := s.do(t, http.MethodPost, path, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, path, bob, nil)
	assert.JSONEq(t, `{"favorited":false}`, w.Body.String())
	w = s.do(t, http.MethodPost, path, bob, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	w = s.do(t, http.MethodPost, path, bob, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	w = s.do(t, http.MethodGet, path, bob, nil)
	assert.JSONEq(t, `{"favorited":true}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/users/"+bobID+"/favorites", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Liked"`)
	w = s.do(t, http.MethodGet, "/api/users/"+bobID+"/favorites", alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(t, http.MethodGet, "/api/users/"+bobID+"/favorites?from=5&to=1", bob, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodDelete, path, bob, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodGet, path, bob, nil)
	assert.JSONEq(t, `{"favorited":false}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/users/"+aliceID+"/images", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Liked"`)
}

func TestCategoryRoutes(t *testing.T) {
	s := newTestServer(t)
	alice, aliceID := s.signUp(t, "alice@example.com")

	w := s.do(t, http.MethodPost, "/api/categories", alice, gin.H{"name": "Anime"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.NoError(t, s.promote(aliceID))

	w = s.do(t, http.MethodPost, "/api/categories", alice, gin.H{"name": "Anime"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = s.do(t, http.MethodPost, "/api/categories", alice, gin.H{"name": "Abstract"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = s.do(t, http.MethodPost, "/api/categories", alice, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := struct {
		Categories []models.Category `json:"categories"`
	}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Categories, 2)
	assert.Equal(t, "Abstract", res.Categories[0].Name)

	w = s.do(t, http.MethodGet, "/api/categories/"+res.Categories[1].ID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Anime"`)
	w = s.do(t, http.MethodGet, "/api/categories/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (s *testServer) promote(id string) error {
	_, err := s.store.EnsureUser(context.Background(), &models.User{ID: id})
	if err != nil {
		return err
	}
	return s.tx.Model(&models.User{}).Where("id = ?", id).Update("role", models.RoleAdmin).Error
}

func TestAuthRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.JSONEq(t, `{"user":null}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{"email": "jane@example.com", "password": "secret123", "username": "janedoe"})
	require.Equal(t, http.StatusOK, w.Code)
	res := AuthResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "janedoe", res.User.Username)
	assert.Equal(t, models.RoleUser, res.User.Role)

	w = s.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{"email": "jane@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodPost, "/api/auth/signin", "", gin.H{"email": "jane@example.com", "password": "nope nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(t, http.MethodPost, "/api/auth/signin", "", gin.H{"email": "jane@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/signin", "", gin.H{"email": "jane@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	token := res.Token

	w = s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Contains(t, w.Body.String(), `"username":"janedoe"`)

	w = s.do(t, http.MethodPost, "/api/auth/signout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.JSONEq(t, `{"user":null}`, w.Body.String())
	w = s.do(t, http.MethodPost, "/api/auth/signout", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

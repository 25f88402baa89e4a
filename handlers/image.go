package handlers

import (
	"net/http"
	"promptgallery/catalog"
	"promptgallery/config"
	"promptgallery/gallery"
	"promptgallery/models"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ImageResponse struct {
	Image *models.Image `json:"image"`
}

func (h *Handlers) ImageList(c *gin.Context, user *models.User) {
	filters := catalog.Filters{
		Category:   c.Query("category"),
		Search:     c.Query("search"),
		Visibility: models.Visibility(c.Query("visibility")),
		UserID:     c.Query("user_id"),
	}
	var err error
	if filters.Page, err = queryInt(c, "page", 1); err != nil {
		respondError(c, err)
		return
	}
	if filters.Limit, err = queryInt(c, "limit", config.DEFAULT_PAGE_LIMIT); err != nil {
		respondError(c, err)
		return
	}
	page, err := h.Service.ListImages(c.Request.Context(), user, filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handlers) ImageGet(c *gin.Context, user *models.User) {
	image, err := h.Service.GetImage(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ImageResponse{image})
}

// ImageCreate stores an image that the client already uploaded to the image host
func (h *Handlers) ImageCreate(c *gin.Context, user *models.User) {
	fields := gallery.NewImage{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, BadRequestResponse)
		return
	}
	image, err := h.Service.CreateImageFromURL(c.Request.Context(), user, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ImageResponse{image})
}

// ImageUpload takes a multipart form with the file in "image" plus the image fields
func (h *Handlers) ImageUpload(c *gin.Context, user *models.User) {
	maxBody := int64(config.MAX_UPLOAD_MB+1) << 20
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBody)
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{"image file is required (max " + strconv.Itoa(config.MAX_UPLOAD_MB) + "MB)"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	fields := gallery.NewImage{
		Title:      c.PostForm("title"),
		Prompt:     c.PostForm("prompt"),
		Visibility: models.Visibility(c.PostForm("visibility")),
	}
	if category := c.PostForm("category_id"); category != "" {
		fields.CategoryID = &category
	}
	upload := gallery.Upload{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Reader:      file,
	}
	image, err := h.Service.CreateImage(c.Request.Context(), user, upload, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ImageResponse{image})
}

func (h *Handlers) ImageUpdate(c *gin.Context, user *models.User) {
	update := catalog.ImageUpdate{}
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, BadRequestResponse)
		return
	}
	image, err := h.Service.UpdateImage(c.Request.Context(), user, c.Param("id"), update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ImageResponse{image})
}

func (h *Handlers) ImageDelete(c *gin.Context, user *models.User) {
	if err := h.Service.DeleteImage(c.Request.Context(), user, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ImageView counts a view of the detail page
func (h *Handlers) ImageView(c *gin.Context, user *models.User) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := h.Service.GetImage(ctx, user, id); err != nil {
		respondError(c, err)
		return
	}
	if err := h.Service.RecordView(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{"View count incremented"})
}

package handlers

import (
	"net/http"
	"promptgallery/models"

	"github.com/gin-gonic/gin"
)

type CategoryCreateRequest struct {
	Name        string  `json:"name" binding:"required"`
	ParentID    *string `json:"parent_id"`
	Description *string `json:"description"`
}

func (h *Handlers) CategoryList(c *gin.Context) {
	categories, err := h.Service.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handlers) CategoryGet(c *gin.Context) {
	category, err := h.Service.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

func (h *Handlers) CategoryCreate(c *gin.Context, user *models.User) {
	req := CategoryCreateRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	category, err := h.Service.CreateCategory(c.Request.Context(), user, &models.Category{
		Name:        req.Name,
		ParentID:    req.ParentID,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

package handlers

import (
	"net/http"
	"promptgallery/config"
	"promptgallery/models"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) FavoriteGet(c *gin.Context, user *models.User) {
	favorited, err := h.Service.IsFavorited(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorited": favorited})
}

func (h *Handlers) FavoriteAdd(c *gin.Context, user *models.User) {
	favorite, err := h.Service.AddFavorite(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"favorite": favorite})
}

func (h *Handlers) FavoriteRemove(c *gin.Context, user *models.User) {
	if err := h.Service.RemoveFavorite(c.Request.Context(), user, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) UserFavorites(c *gin.Context, user *models.User) {
	from, to, err := queryRange(c, config.DEFAULT_PAGE_LIMIT)
	if err != nil {
		respondError(c, err)
		return
	}
	favorites, err := h.Service.ListUserFavorites(c.Request.Context(), user, c.Param("id"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

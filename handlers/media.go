package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MediaServe serves images kept by the disk image host
func (h *Handlers) MediaServe(c *gin.Context) {
	if h.Media == nil {
		c.JSON(http.StatusNotFound, Response{"not found"})
		return
	}
	h.Media.Serve(c.Param("name"), c.Request, c.Writer)
}

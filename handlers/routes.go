package handlers

import (
	"promptgallery/auth"
	"promptgallery/models"
	"promptgallery/utils"
)

func (h *Handlers) Register(router *auth.Router) {
	// Image handlers
	router.OptionalGET("/api/images", h.ImageList)
	router.OptionalGET("/api/images/:id", h.ImageGet)
	router.POST("/api/images", h.ImageCreate)
	router.POST("/api/images/upload", h.ImageUpload)
	router.PUT("/api/images/:id", h.ImageUpdate)    // Owner or admin, checked by the service
	router.DELETE("/api/images/:id", h.ImageDelete) // Owner or admin, checked by the service
	router.OptionalPOST("/api/images/:id/view", h.ImageView)
	// Favorite handlers
	router.GET("/api/images/:id/favorite", h.FavoriteGet)
	router.POST("/api/images/:id/favorite", h.FavoriteAdd)
	router.DELETE("/api/images/:id/favorite", h.FavoriteRemove)
	// Category handlers
	categoryCache := (&utils.CacheRouter{CacheTime: 300, Public: true}).Handler()
	router.Base.GET("/api/categories", categoryCache, h.CategoryList)
	router.Base.GET("/api/categories/:id", categoryCache, h.CategoryGet)
	router.POST("/api/categories", h.CategoryCreate, models.RoleAdmin)
	// User handlers
	router.OptionalGET("/api/users/:id/images", h.UserImages)
	router.GET("/api/users/:id/favorites", h.UserFavorites)
	// Auth handlers
	router.Base.POST("/api/auth/signup", h.AuthSignUp)
	router.Base.POST("/api/auth/signin", h.AuthSignIn)
	router.POST("/api/auth/signout", h.AuthSignOut)
	router.OptionalGET("/api/auth/me", h.AuthMe)
	router.Base.GET("/api/auth/events", h.AuthEvents)
	// Images kept on the local disk
	// Stored names are random and never reused
	router.Base.GET("/media/:name", (&utils.CacheRouter{CacheTime: utils.CacheForever, Public: true}).Handler(), h.MediaServe)
}

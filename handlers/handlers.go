package handlers

import (
	"errors"
	"log"
	"net/http"
	"promptgallery/auth"
	"promptgallery/catalog"
	"promptgallery/gallery"
	"promptgallery/storage"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

var (
	// Predefined errors
	InternalErrorResponse = Response{"Internal server error"}
	BadRequestResponse    = Response{"Bad request"}
)

// Handlers serves the JSON API on top of the gallery service
type Handlers struct {
	Service  *gallery.Service
	Provider auth.Provider
	Media    *storage.DiskHost // Set when images are kept on the local disk
}

func NewHandlers(service *gallery.Service, provider auth.Provider) *Handlers {
	h := &Handlers{Service: service, Provider: provider}
	if disk, ok := service.Host.(*storage.DiskHost); ok {
		h.Media = disk
	}
	return h
}

func errorStatus(err error) (int, Response) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound, Response{err.Error()}
	case errors.Is(err, catalog.ErrUnauthenticated), errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, Response{err.Error()}
	case errors.Is(err, catalog.ErrForbidden):
		return http.StatusForbidden, Response{err.Error()}
	case errors.Is(err, auth.ErrEmailTaken), catalog.IsValidation(err), catalog.IsPlatform(err):
		return http.StatusBadRequest, Response{err.Error()}
	}
	return http.StatusInternalServerError, InternalErrorResponse
}

func respondError(c *gin.Context, err error) {
	status, response := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, response)
}

// queryInt reads an optional integer query parameter
func queryInt(c *gin.Context, name string, defaultValue int) (int, error) {
	value := c.Query(name)
	if value == "" {
		return defaultValue, nil
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0, catalog.NewValidationError("%s must be a number", name)
	}
	return result, nil
}

// queryRange reads the inclusive from/to range used by incremental listings
func queryRange(c *gin.Context, defaultLimit int) (from, to int, err error) {
	if from, err = queryInt(c, "from", 0); err != nil {
		return
	}
	to, err = queryInt(c, "to", from+defaultLimit-1)
	return
}

package auth

import (
	"context"
	"errors"
	"log"
	"net/http"
	"promptgallery/catalog"
	"promptgallery/models"

	"github.com/gin-gonic/gin"
)

// HandlerFunc receives the caller, user is nil for anonymous callers of optional routes
type HandlerFunc func(c *gin.Context, user *models.User)

// UserLookup loads the catalog row of a user, it carries the role
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// Router is a wrapper class that adds auth checks + User pre-loading
type Router struct {
	Base     gin.IRouter
	Provider Provider
	Users    UserLookup
}

// CurrentUser resolves the caller of the request, nil if there is none
func (cr *Router) CurrentUser(c *gin.Context) (*models.User, error) {
	token := RequestToken(c)
	if token == "" {
		return nil, nil
	}
	ctx := c.Request.Context()
	session, err := cr.Provider.GetSession(ctx, token)
	if err != nil || session == nil {
		return nil, err
	}
	user := ToAppUser(session.User)
	if cr.Users != nil {
		stored, err := cr.Users.GetUser(ctx, user.ID)
		if err == nil {
			return stored, nil
		}
		if !errors.Is(err, catalog.ErrNotFound) {
			return nil, err
		}
	}
	return &user, nil
}

func (cr *Router) baseExec(c *gin.Context, handler HandlerFunc, optional bool, required []models.Role) {
	user, err := cr.CurrentUser(c)
	if err != nil {
		log.Printf("Cannot load session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if user == nil {
		if optional {
			handler(c, nil)
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": catalog.ErrUnauthenticated.Error()})
		return
	}
	if !user.HasRoles(required) {
		c.JSON(http.StatusForbidden, gin.H{"error": catalog.ErrForbidden.Error()})
		return
	}
	handler(c, user)
}

func (cr *Router) POST(path string, handler HandlerFunc, required ...models.Role) {
	cr.Base.POST(path, func(c *gin.Context) {
		cr.baseExec(c, handler, false, required)
	})
}

func (cr *Router) GET(path string, handler HandlerFunc, required ...models.Role) {
	cr.Base.GET(path, func(c *gin.Context) {
		cr.baseExec(c, handler, false, required)
	})
}

func (cr *Router) PUT(path string, handler HandlerFunc, required ...models.Role) {
	cr.Base.PUT(path, func(c *gin.Context) {
		cr.baseExec(c, handler, false, required)
	})
}

func (cr *Router) DELETE(path string, handler HandlerFunc, required ...models.Role) {
	cr.Base.DELETE(path, func(c *gin.Context) {
		cr.baseExec(c, handler, false, required)
	})
}

// OptionalGET also serves anonymous callers
func (cr *Router) OptionalGET(path string, handler HandlerFunc) {
	cr.Base.GET(path, func(c *gin.Context) {
		cr.baseExec(c, handler, true, nil)
	})
}

func (cr *Router) OptionalPOST(path string, handler HandlerFunc) {
	cr.Base.POST(path, func(c *gin.Context) {
		cr.baseExec(c, handler, true, nil)
	})
}

package handlers

import (
	"context"
	"log"
	"net/http"
	"promptgallery/auth"
	"promptgallery/config"
	"promptgallery/models"

	"github.com/gin-gonic/gin"
)

type UserSignUpRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
	Username string `json:"username" form:"username"`
}

type UserSignInRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (h *Handlers) UserImages(c *gin.Context, user *models.User) {
	from, to, err := queryRange(c, config.DEFAULT_PAGE_LIMIT)
	if err != nil {
		respondError(c, err)
		return
	}
	images, err := h.Service.ListUserImages(c.Request.Context(), user, c.Param("id"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

func (h *Handlers) AuthSignUp(c *gin.Context) {
	req := UserSignUpRequest{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	adapter := auth.NewAdapter(h.Provider, h.Service.Store)
	defer adapter.Close()
	session, err := adapter.SignUp(c.Request.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	h.signedIn(c, session, adapter.User())
}

func (h *Handlers) AuthSignIn(c *gin.Context) {
	req := UserSignInRequest{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	adapter := auth.NewAdapter(h.Provider, h.Service.Store)
	defer adapter.Close()
	session, err := adapter.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.signedIn(c, session, adapter.User())
}

// signedIn keeps the token in the cookie session and answers with the stored user
func (h *Handlers) signedIn(c *gin.Context, session *auth.Session, user *models.User) {
	if s := auth.LoadSession(c); s != nil {
		if err := s.SetToken(session.Token); err != nil {
			log.Printf("Cannot save session: %v", err)
		}
	}
	if stored := h.storedUser(c.Request.Context(), user); stored != nil {
		user = stored
	}
	c.JSON(http.StatusOK, AuthResponse{User: user, Token: session.Token})
}

func (h *Handlers) storedUser(ctx context.Context, user *models.User) *models.User {
	if user == nil {
		return nil
	}
	stored, err := h.Service.Store.GetUser(ctx, user.ID)
	if err != nil {
		return nil
	}
	return stored
}

func (h *Handlers) AuthSignOut(c *gin.Context, user *models.User) {
	if err := h.Provider.SignOut(c.Request.Context(), auth.RequestToken(c)); err != nil {
		respondError(c, err)
		return
	}
	if s := auth.LoadSession(c); s != nil {
		if err := s.Logout(); err != nil {
			log.Printf("Cannot clear session: %v", err)
		}
	}
	c.JSON(http.StatusOK, MessageResponse{"Signed out"})
}

// AuthMe returns the caller, user is null for anonymous callers
func (h *Handlers) AuthMe(c *gin.Context, user *models.User) {
	c.JSON(http.StatusOK, gin.H{"user": user})
}

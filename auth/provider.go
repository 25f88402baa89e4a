package auth

import (
	"context"
	"errors"
	"promptgallery/models"
	"strings"
	"time"
)

type Event string

const (
	EventSignedIn  Event = "SIGNED_IN"
	EventSignedOut Event = "SIGNED_OUT"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
)

// IdentityUser is the user as known by the identity provider
type IdentityUser struct {
	ID       string            `json:"id"`
	Email    string            `json:"email"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type Session struct {
	Token     string       `json:"token"`
	User      IdentityUser `json:"user"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Provider is the identity provider: it owns credentials and session tokens
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string, metadata map[string]string) (*Session, error)
	SignOut(ctx context.Context, token string) error
	// GetSession returns nil without an error when the token has no live session
	GetSession(ctx context.Context, token string) (*Session, error)
	// Subscribe registers fn for session changes, the returned func removes it again
	Subscribe(fn func(Event, *Session)) (unsubscribe func())
}

// ToAppUser converts the provider's user into the shape used by the catalog
func ToAppUser(identity IdentityUser) models.User {
	user := models.User{
		ID:       identity.ID,
		Email:    identity.Email,
		Username: strings.TrimSpace(identity.Metadata["username"]),
		Role:     models.RoleUser,
	}
	if user.Username == "" {
		user.Username = models.UsernameFromEmail(identity.Email)
	}
	if avatar := strings.TrimSpace(identity.Metadata["avatar_url"]); avatar != "" {
		user.AvatarURL = &avatar
	}
	return user
}

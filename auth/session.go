package auth

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const tokenKey = "token"

// CookieSession is the cookie session of a browser client, it only keeps the provider's token
type CookieSession struct {
	sessions.Session
}

// LoadSession returns nil when the sessions middleware is not installed
func LoadSession(c *gin.Context) *CookieSession {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	return &CookieSession{
		Session: sessions.Default(c),
	}
}

func (s *CookieSession) Token() string {
	token, _ := s.Get(tokenKey).(string)
	return token
}

func (s *CookieSession) SetToken(token string) error {
	s.Set(tokenKey, token)
	return s.Save()
}

func (s *CookieSession) Logout() error {
	s.Delete(tokenKey)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	return s.Save()
}

// RequestToken returns the bearer token of the request, or the one kept in its cookie session
func RequestToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	if session := LoadSession(c); session != nil {
		return session.Token()
	}
	return ""
}

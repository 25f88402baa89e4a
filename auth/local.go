package auth

import (
	"context"
	"errors"
	"promptgallery/catalog"
	"promptgallery/models"
	"promptgallery/utils"
	"strings"
	"time"

	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

// LocalProvider keeps accounts and session tokens in the application database
type LocalProvider struct {
	db          *gorm.DB
	ttl         time.Duration
	subscribers cmap.ConcurrentMap[string, func(Event, *Session)]
}

var _ Provider = (*LocalProvider)(nil)

func NewLocalProvider(db *gorm.DB, ttl time.Duration) *LocalProvider {
	return &LocalProvider{
		db:          db,
		ttl:         ttl,
		subscribers: cmap.New[func(Event, *Session)](),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password string, metadata map[string]string) (*Session, error) {
	email = normalizeEmail(email)
	if !strings.Contains(email, "@") {
		return nil, catalog.NewValidationError("a valid email is required")
	}
	if len(password) < minPasswordLength {
		return nil, catalog.NewValidationError("password must be at least %d characters", minPasswordLength)
	}
	var count int64
	if err := p.db.WithContext(ctx).Model(&models.Account{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	account := models.Account{
		Email:        email,
		PasswordHash: string(hash),
		Username:     strings.TrimSpace(metadata["username"]),
		AvatarURL:    strings.TrimSpace(metadata["avatar_url"]),
	}
	if err = p.db.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, err
	}
	return p.startSession(ctx, &account)
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	account := models.Account{}
	err := p.db.WithContext(ctx).First(&account, "email = ?", normalizeEmail(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return p.startSession(ctx, &account)
}

// SignOut ends the session, unknown tokens are ignored
func (p *LocalProvider) SignOut(ctx context.Context, token string) error {
	session, err := p.GetSession(ctx, token)
	if err != nil || session == nil {
		return err
	}
	if err = p.db.WithContext(ctx).Delete(&models.AuthSession{}, "token = ?", token).Error; err != nil {
		return err
	}
	p.emit(EventSignedOut, session)
	return nil
}

func (p *LocalProvider) GetSession(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}
	row := models.AuthSession{}
	err := p.db.WithContext(ctx).
		Preload("Account").
		Where("token = ? AND expires_at > ?", token, time.Now()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toSession(&row), nil
}

func (p *LocalProvider) Subscribe(fn func(Event, *Session)) func() {
	id := uuid.NewString()
	p.subscribers.Set(id, fn)
	return func() {
		p.subscribers.Remove(id)
	}
}

// PurgeExpired removes sessions that expired before now
func (p *LocalProvider) PurgeExpired(ctx context.Context) (int64, error) {
	result := p.db.WithContext(ctx).Where("expires_at <= ?", time.Now()).Delete(&models.AuthSession{})
	return result.RowsAffected, result.Error
}

func (p *LocalProvider) startSession(ctx context.Context, account *models.Account) (*Session, error) {
	now := time.Now()
	row := models.AuthSession{
		Token:     utils.RandToken(),
		AccountID: account.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(p.ttl),
	}
	if err := p.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	row.Account = account
	session := toSession(&row)
	p.emit(EventSignedIn, session)
	return session, nil
}

func (p *LocalProvider) emit(event Event, session *Session) {
	for item := range p.subscribers.IterBuffered() {
		item.Val(event, session)
	}
}

func toSession(row *models.AuthSession) *Session {
	session := &Session{
		Token:     row.Token,
		ExpiresAt: row.ExpiresAt,
		User:      IdentityUser{ID: row.AccountID, Metadata: map[string]string{}},
	}
	if row.Account != nil {
		session.User.Email = row.Account.Email
		if row.Account.Username != "" {
			session.User.Metadata["username"] = row.Account.Username
		}
		if row.Account.AvatarURL != "" {
			session.User.Metadata["avatar_url"] = row.Account.AvatarURL
		}
	}
	return session
}

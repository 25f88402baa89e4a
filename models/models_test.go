package models

import (
	"promptgallery/db"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsernameFromEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"regular", "jane.doe@example.com", "jane.doe"},
		{"no domain", "jane", "jane"},
		{"empty", "", "user"},
		{"empty local part", "@example.com", "user"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UsernameFromEmail(tt.email))
		})
	}
}

func TestUser_HasRoles(t *testing.T) {
	user := &User{ID: "u1", Role: RoleUser}
	admin := &User{ID: "a1", Role: RoleAdmin}

	assert.True(t, user.HasRoles(nil))
	assert.True(t, user.HasRoles([]Role{RoleUser}))
	assert.False(t, user.HasRoles([]Role{RoleAdmin}))
	assert.True(t, admin.HasRoles([]Role{RoleAdmin}))
	assert.True(t, admin.HasRoles([]Role{RoleUser}))
}

func TestImage_VisibleTo(t *testing.T) {
	owner := &User{ID: "owner", Role: RoleUser}
	other := &User{ID: "other", Role: RoleUser}
	admin := &User{ID: "admin", Role: RoleAdmin}

	public := &Image{UserID: "owner", Visibility: VisibilityPublic}
	private := &Image{UserID: "owner", Visibility: VisibilityPrivate}

	assert.True(t, public.VisibleTo(nil))
	assert.True(t, public.VisibleTo(other))
	assert.False(t, private.VisibleTo(nil))
	assert.False(t, private.VisibleTo(other))
	assert.True(t, private.VisibleTo(owner))
	assert.True(t, private.VisibleTo(admin))
}

func TestVisibility_Valid(t *testing.T) {
	assert.True(t, VisibilityPublic.Valid())
	assert.True(t, VisibilityPrivate.Valid())
	assert.False(t, VisibilityAll.Valid())
	assert.False(t, Visibility("").Valid())
	assert.False(t, Visibility("friends").Valid())
}

func TestSeedCategories(t *testing.T) {
	tx, err := db.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, Migrate(tx))

	require.NoError(t, SeedCategories(tx, []string{"Landscape", "Portrait"}))
	// Only an empty table gets seeded
	require.NoError(t, SeedCategories(tx, []string{"Anime"}))

	names := []string{}
	require.NoError(t, tx.Model(&Category{}).Order("name").Pluck("name", &names).Error)
	assert.Equal(t, []string{"Landscape", "Portrait"}, names)
}

func TestUser_BeforeCreate(t *testing.T) {
	tx, err := db.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, Migrate(tx))

	user := User{Email: "jane@example.com"}
	require.NoError(t, tx.Create(&user).Error)
	assert.Len(t, user.ID, 36)
	assert.Equal(t, "jane", user.Username)
	assert.Equal(t, RoleUser, user.Role)
}

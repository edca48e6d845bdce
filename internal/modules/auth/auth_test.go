package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pierres.shop/app/internal/database/dbtest"
	"pierres.shop/app/internal/modules/auth"
	"pierres.shop/app/internal/modules/users"
)

func TestTokens_RoundTrip(t *testing.T) {
	tokens := auth.NewTokens([]byte("s3cret"), time.Hour)

	raw, err := tokens.Issue("u-1", "pierre@example.com", users.RoleAdmin)
	require.NoError(t, err)

	claims, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, users.RoleAdmin, claims.Role)
}

func TestTokens_Expired(t *testing.T) {
	tokens := auth.NewTokens([]byte("s3cret"), -time.Minute)
	raw, err := tokens.Issue("u-1", "pierre@example.com", users.RoleCustomer)
	require.NoError(t, err)

	_, err = tokens.Parse(raw)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestTokens_WrongSecret(t *testing.T) {
	raw, err := auth.NewTokens([]byte("one"), time.Hour).Issue("u-1", "a@example.com", users.RoleCustomer)
	require.NoError(t, err)

	_, err = auth.NewTokens([]byte("two"), time.Hour).Parse(raw)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)

	_, err = auth.NewTokens([]byte("two"), time.Hour).Parse("not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func seedUser(t *testing.T, db *gorm.DB, email string, verified bool) users.User {
	t.Helper()
	hash, err := auth.HashPassword("hunter22")
	require.NoError(t, err)
	u, err := users.NewRepo(db).Create(context.Background(), users.CreateInput{
		Slug: "pierre", Email: email, PasswordHash: hash, Role: users.RoleAdmin,
	})
	require.NoError(t, err)
	if verified {
		require.NoError(t, db.Model(&users.User{}).Where("id = ?", u.ID).
			Update("email_verified_at", time.Now()).Error)
	}
	return u
}

func TestService_Login(t *testing.T) {
	db := dbtest.Open(t)
	seedUser(t, db, "pierre@example.com", true)
	tokens := auth.NewTokens([]byte("s3cret"), time.Hour)
	svc := auth.NewService(users.NewRepo(db), tokens)
	ctx := context.Background()

	tok, u, err := svc.Login(ctx, " Pierre@Example.com ", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "pierre", u.Slug)
	claims, err := tokens.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Subject)

	_, _, err = svc.Login(ctx, "pierre@example.com", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_LoginRequiresVerifiedEmail(t *testing.T) {
	db := dbtest.Open(t)
	seedUser(t, db, "pierre@example.com", false)
	svc := auth.NewService(users.NewRepo(db), auth.NewTokens([]byte("s3cret"), time.Hour))

	_, _, err := svc.Login(context.Background(), "pierre@example.com", "hunter22")
	assert.ErrorIs(t, err, auth.ErrEmailNotVerified)
}

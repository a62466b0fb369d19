package service

import (
	"context"
	"testing"

	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/repository"
	"github.com/damoang/eventhub-backend/internal/testutil"
	"github.com/damoang/eventhub-backend/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_LoginAndRefresh(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	manager := jwt.NewManager("test-secret", 900, 3600)
	svc := NewAuthService(repository.NewAdminRepository(db), repository.NewUserRepository(db), manager, 900)

	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	require.NoError(t, db.Create(&domain.Admin{Email: "staff@example.com", Name: "Staff", PasswordHash: hash}).Error)
	require.NoError(t, db.Create(&domain.User{Email: "m@example.com", Name: "Member", Role: domain.RoleRepresentative, PasswordHash: hash}).Error)

	tokens, err := svc.AdminLogin(ctx, "staff@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.Equal(t, 900, tokens.ExpiresIn)
	claims, err := manager.VerifyToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())

	_, err = svc.AdminLogin(ctx, "staff@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	_, err = svc.AdminLogin(ctx, "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	// a member account is not a staff account
	_, err = svc.AdminLogin(ctx, "m@example.com", "s3cret")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	member, err := svc.MemberLogin(ctx, "m@example.com", "s3cret")
	require.NoError(t, err)
	claims, err = manager.VerifyToken(member.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, jwt.RoleRepresentative, claims.Role)

	refreshed, err := svc.Refresh(ctx, member.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.Refresh(ctx, member.AccessToken)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/repository"
	"github.com/damoang/eventhub-backend/pkg/jwt"
	pkglogger "github.com/damoang/eventhub-backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// AuthService authentication business logic
type AuthService interface {
	AdminLogin(ctx context.Context, email, password string) (*domain.TokenResponse, error)
	MemberLogin(ctx context.Context, email, password string) (*domain.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenResponse, error)
}

type authService struct {
	admins     repository.AdminRepository
	users      repository.UserRepository
	jwtManager *jwt.Manager
	expiresIn  int
}

// NewAuthService creates a new AuthService. expiresIn is the access token lifetime in seconds.
func NewAuthService(admins repository.AdminRepository, users repository.UserRepository, jwtManager *jwt.Manager, expiresIn int) AuthService {
	return &authService{admins: admins, users: users, jwtManager: jwtManager, expiresIn: expiresIn}
}

// HashPassword bcrypt-hashes a password for storage
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func checkPassword(hash, password string) bool {
	return hash != "" && bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// AdminLogin authenticates a staff account
func (s *authService) AdminLogin(ctx context.Context, email, password string) (*domain.TokenResponse, error) {
	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}
	if !checkPassword(admin.PasswordHash, password) {
		pkglogger.GetLogger().Warn().Str("email", email).Msg("admin login failed")
		return nil, common.ErrInvalidCredentials
	}
	return s.issue(strconv.FormatUint(admin.ID, 10), admin.Name, jwt.RoleAdmin)
}

// MemberLogin authenticates a member account
func (s *authService) MemberLogin(ctx context.Context, email, password string) (*domain.TokenResponse, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}
	if !checkPassword(user.PasswordHash, password) {
		return nil, common.ErrInvalidCredentials
	}
	role := user.Role
	if role == "" {
		role = jwt.RolePartner
	}
	return s.issue(strconv.FormatUint(user.ID, 10), user.Name, role)
}

// Refresh exchanges a refresh token for a new pair. The account must still exist.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenResponse, error) {
	claims, err := s.jwtManager.VerifyRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, common.ErrExpiredToken
		}
		return nil, common.ErrInvalidToken
	}
	id, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	name := claims.Name
	if claims.IsAdmin() {
		admin, err := s.admins.FindByID(ctx, id)
		if err != nil {
			return nil, common.ErrInvalidToken
		}
		name = admin.Name
	} else {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			return nil, common.ErrInvalidToken
		}
		name = user.Name
	}
	return s.issue(claims.UserID, name, claims.Role)
}

func (s *authService) issue(id, name, role string) (*domain.TokenResponse, error) {
	access, err := s.jwtManager.GenerateAccessToken(id, name, role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(id, name, role)
	if err != nil {
		return nil, err
	}
	return &domain.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    s.expiresIn,
	}, nil
}

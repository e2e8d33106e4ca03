package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"suraksha.com/preparedness/internal/auth"
	"suraksha.com/preparedness/internal/model"
	"suraksha.com/preparedness/internal/repository"
	"suraksha.com/preparedness/pkg/apperror"
)

type RegisterInput struct {
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8"`
	Name        string  `json:"name" binding:"required,min=2,max=100"`
	Phone       *string `json:"phone"`
	Department  *string `json:"department"`
	YearOfStudy *string `json:"year_of_study"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, error)
	Login(ctx context.Context, input LoginInput) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
	}
}

// Register creates a new student account. The role is never taken from the
// request; admins are provisioned out of band.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	email := normalizeEmail(input.Email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperror.ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashed,
		Name:         strings.TrimSpace(input.Name),
		Role:         model.RoleStudent,
		IsActive:     true,
		Phone:        normalizeOptional(input.Phone),
		Department:   normalizeOptional(input.Department),
		YearOfStudy:  normalizeOptional(input.YearOfStudy),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues a token pair. Unknown email and wrong
// password produce the same error, so callers cannot enumerate accounts.
func (s *authService) Login(ctx context.Context, input LoginInput) (*TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(input.Password, user.PasswordHash) {
		return nil, apperror.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperror.ErrInactiveAccount
	}

	return s.issuePair(user.Email)
}

// Refresh exchanges a valid refresh token for a freshly rotated pair. Any
// failure rejects the whole exchange; nothing is issued partially.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.Verify(refreshToken, auth.TokenRefresh)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrInvalidToken
		}
		return nil, err
	}

	return s.issuePair(user.Email)
}

func (s *authService) issuePair(email string) (*TokenPair, error) {
	access, _, err := s.tokens.IssueAccess(email)
	if err != nil {
		return nil, err
	}

	refresh, _, err := s.tokens.IssueRefresh(email)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}

	result := trimmed
	return &result
}

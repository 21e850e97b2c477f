package service

import (
	"context"
	"fmt"
	"time"

	"github.com/stockbuddy/stockbuddy-api/internal/auth"
	"github.com/stockbuddy/stockbuddy-api/internal/logger"
	usermodel "github.com/stockbuddy/stockbuddy-api/internal/models/user"
	"github.com/stockbuddy/stockbuddy-api/internal/storage"
	"github.com/stockbuddy/stockbuddy-api/internal/validation"
)

// Reset tokens outlive their usefulness quickly; 30 minutes matches the
// window communicated in the reset email.
const resetTokenTTL = 30 * time.Minute

type AuthService struct {
	users      storage.UserStore
	jwtManager *auth.JWTManager
	log        *logger.Logger
}

func NewAuthService(users storage.UserStore, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		users:      users,
		jwtManager: jwtManager,
		log:        logger.New("auth-service"),
	}
}

type AuthResult struct {
	User      *usermodel.User
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*AuthResult, error) {
	if err := validation.ValidateSignup(name, email, password); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, name, email, passwordHash)
	if err != nil {
		if err == storage.ErrEmailExists {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, expiresAt, err := s.jwtManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) GetUser(ctx context.Context, userID string) (*usermodel.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// ForgotPassword returns the plaintext reset token when the email belongs to
// a user, and "" when it does not. Callers must respond identically in both
// cases so the endpoint cannot be used to probe which emails are registered.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return "", nil
	}

	resetToken, err := auth.GenerateResetToken()
	if err != nil {
		return "", err
	}

	expiresAt := time.Now().Add(resetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.ID, auth.HashResetToken(resetToken), expiresAt); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	s.log.Info("Password reset requested for user %s", user.ID)

	return resetToken, nil
}

func (s *AuthService) ValidateResetToken(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidOrExpiredToken
	}

	user, err := s.users.GetUserByValidResetHash(ctx, auth.HashResetToken(token))
	if err != nil {
		return fmt.Errorf("failed to look up reset token: %w", err)
	}
	if user == nil {
		return ErrInvalidOrExpiredToken
	}

	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrInvalidOrExpiredToken
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.ConsumeResetToken(ctx, auth.HashResetToken(token), passwordHash)
	if err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}
	if user == nil {
		return ErrInvalidOrExpiredToken
	}

	s.log.Info("Password reset completed for user %s", user.ID)

	return nil
}

package services

import (
	"context"
	"crypto/subtle"

	"github.com/ArowuTest/luckydraw-backend/internal/config"
	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthServiceImpl authenticates the draw operator against configured credentials
type AuthServiceImpl struct {
	operator config.OperatorConfig
	tokens   *jwt.TokenService
}

// NewAuthService creates a new AuthServiceImpl
func NewAuthService(operator config.OperatorConfig, tokens *jwt.TokenService) *AuthServiceImpl {
	if operator.PasswordHash == "" {
		slog.Warn("Operator password hash is not configured, login is disabled")
	}
	return &AuthServiceImpl{operator: operator, tokens: tokens}
}

// Login verifies the operator credentials and issues a token
func (s *AuthServiceImpl) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if s.operator.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.operator.Username)) == 1
	// bcrypt runs even when the username is wrong
	passErr := bcrypt.CompareHashAndPassword([]byte(s.operator.PasswordHash), []byte(req.Password))
	if !userOK || passErr != nil {
		slog.Warn("Operator login failed", "username", req.Username)
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(s.operator.Username, jwt.RoleOperator)
	if err != nil {
		slog.Error("Failed to issue operator token", "error", err)
		return nil, err
	}
	slog.Info("Operator logged in", "username", req.Username)
	return &models.LoginResponse{
		Token:     token,
		ExpiresIn: int(s.tokens.ExpiresIn().Seconds()),
	}, nil
}

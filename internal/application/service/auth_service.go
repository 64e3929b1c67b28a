package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/limepath/pathsys/internal/application/port"
	"github.com/limepath/pathsys/internal/domain/entity"
)

// AuthService authenticates operators and issues JWTs
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *entity.User, error)
	ParseToken(tokenString string) (*Claims, error)
}

// Claims are the JWT claims carried by issued tokens
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type authServiceImpl struct {
	userRepo  port.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo port.UserRepository, jwtSecret string, tokenTTL time.Duration, logger Logger) AuthService {
	return &authServiceImpl{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Login verifies credentials and returns a signed token. Failed lookups
// and bad passwords are indistinguishable to the caller.
func (s *authServiceImpl) Login(ctx context.Context, username, password string) (string, *entity.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, port.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !user.Active {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := Claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		s.logger.Error("Failed to sign token", "error", err, "username", username)
		return "", nil, err
	}

	s.logger.Info("User logged in", "username", username, "role", user.Role)
	return signed, user, nil
}

// ParseToken validates a token string and returns its claims
func (s *authServiceImpl) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository resolves credentials and the session identity. Role names are
// needed to derive the user variant (admin / dpo / employee).
type UserRepository interface {
	GetCredentials(username string) (userID int64, passwordHash string, isActive bool, err error)
	GetSessionUser(userID int64) (*User, error)
}

// Service is the main auth service with dependencies
type Service struct {
	userRepo       UserRepository
	tokenGenerator TokenGenerator
}

func NewService(userRepo UserRepository, tokenGen TokenGenerator) *Service {
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
	}
}

// NewJWTTokenGenerator creates a new JWT token generator
func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 24 * 7 * time.Hour
	}
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	userID, storedHash, isActive, err := s.userRepo.GetCredentials(dto.Username)
	if err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}
	if !isActive {
		return AuthTokens{}, ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID, dto.Username)
	if err != nil {
		return AuthTokens{}, err
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID, dto.Username)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshTokens validates refresh token and returns new tokens
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(claims.UserID, claims.Username)
	if err != nil {
		return AuthTokens{}, err
	}

	newRefreshToken, err := s.tokenGenerator.GenerateRefreshToken(claims.UserID, claims.Username)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// SessionUser loads the session identity for a validated token.
func (s *Service) SessionUser(userID int64) (*User, error) {
	return s.userRepo.GetSessionUser(userID)
}

// GenerateAccessToken creates a new access token
func (j *JWTTokenGenerator) GenerateAccessToken(userID int64, username string) (string, error) {
	return j.sign(userID, username, j.AccessTokenTTL, j.AccessTokenSecret)
}

// GenerateRefreshToken creates a new refresh token
func (j *JWTTokenGenerator) GenerateRefreshToken(userID int64, username string) (string, error) {
	return j.sign(userID, username, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) sign(userID int64, username string, ttl time.Duration, secret []byte) (string, error) {
	expiresAt := time.Now().Add(ttl)

	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   fmt.Sprintf("%d", userID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		// Refresh tokens outlive the access TTL; pick the secret by remaining
		// lifetime.
		if claims, ok := token.Claims.(*Claims); ok && claims.ExpiresAt != nil {
			if time.Until(claims.ExpiresAt.Time) > j.AccessTokenTTL {
				return j.RefreshTokenSecret, nil
			}
		}
		return j.AccessTokenSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is the session identity attached to the request context by the auth
// middleware. Permissions are deliberately NOT carried here: authorization
// checks re-resolve from the store on every call so a revoked grant never
// survives in memory.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Kind     string `json:"kind"`
}

func (u *User) IsAuthenticated() bool {
	return u != nil && u.ID > 0
}

type ctxKey string

const ContextUserKey ctxKey = "user"

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenGenerator creates and validates tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID int64, username string) (token string, err error)
	GenerateRefreshToken(userID int64, username string) (token string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserInactive       = errors.New("user is inactive")
)

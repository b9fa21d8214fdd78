package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"rental-backoffice/internal/domain"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type for this endpoint")
)

type TokenType string

const TokenTypeAccess TokenType = "access"

const issuer = "rental-backoffice"

// UserClaims are the claims carried by a back-office access token
type UserClaims struct {
	UserID   int32           `json:"user_id"`
	Username string          `json:"username"`
	Role     domain.UserRole `json:"role"`
	Type     TokenType       `json:"type"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token holder has the admin role
func (c *UserClaims) IsAdmin() bool {
	return c.Role == domain.UserRoleAdmin
}

// User rebuilds the authenticated principal from the claims
func (c *UserClaims) User() *domain.User {
	return &domain.User{
		ID:       c.UserID,
		Username: c.Username,
		Role:     c.Role,
		IsActive: true,
	}
}

type TokenManager interface {
	GenerateAccessToken(user *domain.User) (string, error)
	ValidateToken(tokenString string) (*UserClaims, error)
}

type tokenManager struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewTokenManager signs HS256 tokens valid for expiry. A zero expiry means one hour.
func NewTokenManager(secret string, expiry time.Duration) TokenManager {
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &tokenManager{
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}
}

func (m *tokenManager) GenerateAccessToken(user *domain.User) (string, error) {
	now := m.now()
	claims := UserClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		Type:     TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(user.ID)),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != TokenTypeAccess {
		return nil, ErrWrongTokenType
	}

	// Populate UserID from Subject if it was lost
	if claims.UserID == 0 && claims.Subject != "" {
		uid, _ := strconv.Atoi(claims.Subject)
		claims.UserID = int32(uid)
	}
	return claims, nil
}

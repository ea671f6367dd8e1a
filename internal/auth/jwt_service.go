package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims represents JWT claims.
type Claims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	IsStaff   bool   `json:"is_staff"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller as seen by the services.
type Principal struct {
	UserID  uint
	Email   string
	IsStaff bool
}

// Principal extracts the caller identity from the claims.
func (c *Claims) Principal() Principal {
	return Principal{UserID: c.UserID, Email: c.Email, IsStaff: c.IsStaff}
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTService creates a new JWT service with the given secret and token lifetimes.
func NewJWTService(secret string, accessTTL, refreshTTL time.Duration) *JWTService {
	return &JWTService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// RefreshTTL is how long refresh tokens (and their stored JTIs) live.
func (s *JWTService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// GenerateAccessToken generates a new access token for the principal.
func (s *JWTService) GenerateAccessToken(p Principal) (string, error) {
	claims := s.newClaims(p, tokenTypeAccess, s.accessTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// GenerateRefreshToken generates a new refresh token for the principal.
// The refresh token ID is returned separately for storage in Redis.
func (s *JWTService) GenerateRefreshToken(p Principal) (tokenID string, token string, err error) {
	claims := s.newClaims(p, tokenTypeRefresh, s.refreshTTL)
	tokenID = uuid.New().String()
	claims.ID = tokenID

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	return tokenID, token, err
}

func (s *JWTService) newClaims(p Principal, tokenType string, ttl time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		UserID:    p.UserID,
		Email:     p.Email,
		IsStaff:   p.IsStaff,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
}

// ValidateToken validates a JWT token and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// ValidateAccessToken validates a token and rejects refresh tokens.
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, errors.New("token is not an access token")
	}
	return claims, nil
}

// ValidateRefreshToken validates a token, requires it to be a refresh token and returns its claims.
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeRefresh || claims.ID == "" {
		return nil, errors.New("token is not a refresh token")
	}
	return claims, nil
}

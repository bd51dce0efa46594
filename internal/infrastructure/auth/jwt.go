package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/retailportal/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("token has expired")
	ErrInvalidClaims     = errors.New("invalid token claims")
	ErrMissingRetailerID = errors.New("missing retailer_id in claims")
)

// Roles carried in portal tokens
const (
	RoleRetailer = "retailer"
	RoleAdmin    = "admin"
)

// Claims represents the portal's JWT claims. Tokens are issued by the
// portal's auth service; this backend only verifies them.
type Claims struct {
	jwt.RegisteredClaims
	RetailerID string `json:"retailer_id,omitempty"`
	Role       string `json:"role"`
}

// TokenVerifier validates portal-issued bearer tokens
type TokenVerifier struct {
	secret []byte
	issuer string
}

// NewTokenVerifier creates a new token verifier
func NewTokenVerifier(cfg config.JWTConfig) *TokenVerifier {
	return &TokenVerifier{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
	}
}

// Verify validates a token and returns its claims
func (v *TokenVerifier) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if v.issuer != "" {
		issuer, err := claims.GetIssuer()
		if err != nil || issuer != v.issuer {
			return nil, ErrInvalidClaims
		}
	}

	if claims.Role == RoleRetailer && claims.RetailerID == "" {
		return nil, ErrMissingRetailerID
	}

	return claims, nil
}

// GetRetailerUUID extracts and parses the retailer ID from claims
func (c *Claims) GetRetailerUUID() (uuid.UUID, error) {
	return uuid.Parse(c.RetailerID)
}

// IsAdmin reports whether the claims carry the admin role
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailportal/backend/internal/infrastructure/config"
)

const testSecret = "test-secret-key"

func signToken(t *testing.T, secret string, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func retailerClaims(retailerID uuid.UUID, expiresIn time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "retail-portal",
			Subject:   retailerID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		RetailerID: retailerID.String(),
		Role:       RoleRetailer,
	}
}

func TestTokenVerifier_Verify(t *testing.T) {
	verifier := NewTokenVerifier(config.JWTConfig{Secret: testSecret, Issuer: "retail-portal"})

	t.Run("accepts a valid retailer token", func(t *testing.T) {
		retailerID := uuid.New()
		tokenString := signToken(t, testSecret, retailerClaims(retailerID, time.Hour))

		claims, err := verifier.Verify(tokenString)
		require.NoError(t, err)
		assert.Equal(t, RoleRetailer, claims.Role)

		parsed, err := claims.GetRetailerUUID()
		require.NoError(t, err)
		assert.Equal(t, retailerID, parsed)
		assert.False(t, claims.IsAdmin())
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		tokenString := signToken(t, "other-secret", retailerClaims(uuid.New(), time.Hour))

		_, err := verifier.Verify(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		tokenString := signToken(t, testSecret, retailerClaims(uuid.New(), -time.Minute))

		_, err := verifier.Verify(tokenString)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects the wrong issuer", func(t *testing.T) {
		claims := retailerClaims(uuid.New(), time.Hour)
		claims.Issuer = "someone-else"
		tokenString := signToken(t, testSecret, claims)

		_, err := verifier.Verify(tokenString)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("rejects a retailer token without a retailer id", func(t *testing.T) {
		claims := retailerClaims(uuid.New(), time.Hour)
		claims.RetailerID = ""
		tokenString := signToken(t, testSecret, claims)

		_, err := verifier.Verify(tokenString)
		assert.ErrorIs(t, err, ErrMissingRetailerID)
	})

	t.Run("accepts an admin token without a retailer id", func(t *testing.T) {
		now := time.Now()
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "retail-portal",
				Subject:   "ops",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
			Role: RoleAdmin,
		}
		tokenString := signToken(t, testSecret, claims)

		verified, err := verifier.Verify(tokenString)
		require.NoError(t, err)
		assert.True(t, verified.IsAdmin())
	})
}

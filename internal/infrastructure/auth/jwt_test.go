package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/irenerossetti/condominio-backend/internal/domain/identity"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars"

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:   testSecret,
		Issuer:   "test-issuer",
		TokenTTL: 15 * time.Minute,
	})
}

// signRaw signs arbitrary claims, standing in for the external issuer
func signRaw(t *testing.T, claims jwt.Claims, method jwt.SigningMethod, key any) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	token, expiresAt, err := svc.GenerateToken(TokenInput{UserID: userID, Username: "irene", Role: identity.RoleAdmin})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "test-issuer", claims.Issuer)

	caller, err := claims.Caller()
	require.NoError(t, err)
	assert.Equal(t, userID, caller.UserID)
	assert.Equal(t, "irene", caller.Username)
	assert.True(t, caller.IsAdmin())
}

func TestNewJWTService_DefaultTTL(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: testSecret})
	assert.Equal(t, 12*time.Hour, svc.ttl)
}

func TestValidateToken_Rejections(t *testing.T) {
	svc := newTestJWTService()
	now := time.Now()
	base := func() Claims {
		return Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "test-issuer",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
			UserID: uuid.NewString(),
			Role:   "OWNER",
		}
	}

	expired := base()
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))
	_, err := svc.ValidateToken(signRaw(t, expired, jwt.SigningMethodHS256, []byte(testSecret)))
	assert.ErrorIs(t, err, ErrExpiredToken)

	future := base()
	future.NotBefore = jwt.NewNumericDate(now.Add(time.Hour))
	_, err = svc.ValidateToken(signRaw(t, future, jwt.SigningMethodHS256, []byte(testSecret)))
	assert.ErrorIs(t, err, ErrTokenNotYetValid)

	_, err = svc.ValidateToken(signRaw(t, base(), jwt.SigningMethodHS256, []byte("another-secret-of-sufficient-size")))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken(signRaw(t, base(), jwt.SigningMethodHS512, []byte(testSecret)))
	assert.ErrorIs(t, err, ErrInvalidToken, "only HS256 is accepted")

	wrongIssuer := base()
	wrongIssuer.Issuer = "elsewhere"
	_, err = svc.ValidateToken(signRaw(t, wrongIssuer, jwt.SigningMethodHS256, []byte(testSecret)))
	assert.ErrorIs(t, err, ErrInvalidToken)

	anonymous := base()
	anonymous.UserID = ""
	_, err = svc.ValidateToken(signRaw(t, anonymous, jwt.SigningMethodHS256, []byte(testSecret)))
	assert.ErrorIs(t, err, ErrMissingUserID)

	_, err = svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaims_Caller(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name    string
		claims  Claims
		role    identity.Role
		isAdmin bool
	}{
		{"admin role", Claims{UserID: userID.String(), Role: "ADMIN"}, identity.RoleAdmin, true},
		{"lowercase admin", Claims{UserID: userID.String(), Role: "admin"}, identity.RoleAdmin, true},
		{"owner role", Claims{UserID: userID.String(), Role: "OWNER"}, identity.RoleOwner, false},
		{"staff flag", Claims{UserID: userID.String(), Role: "OWNER", IsStaff: true}, identity.RoleOwner, true},
		{"system is not grantable by token", Claims{UserID: userID.String(), Role: "SYSTEM"}, identity.RoleOwner, false},
		{"missing role", Claims{UserID: userID.String()}, identity.RoleOwner, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller, err := tt.claims.Caller()
			require.NoError(t, err)
			assert.Equal(t, tt.role, caller.Role)
			assert.Equal(t, tt.isAdmin, caller.IsAdmin())
		})
	}

	_, err := (&Claims{UserID: "not-a-uuid"}).Caller()
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

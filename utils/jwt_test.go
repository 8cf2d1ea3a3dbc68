package utils

import (
	"testing"
	"time"

	"ahara/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	u := &entity.User{Name: "Asha", Email: "asha@example.com", Role: entity.RoleCustomer}
	u.ID = 11

	tok, err := GenerateToken(u, "s3cret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(tok, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, uint(11), claims.ID)
	assert.Equal(t, entity.RoleCustomer, claims.Role)
	assert.Equal(t, "asha@example.com", claims.Email)

	_, err = ParseToken(tok, "wrong")
	assert.Error(t, err)
}

func TestParseTokenRejectsExpiredAndNone(t *testing.T) {
	u := &entity.User{Role: entity.RoleAdmin}
	tok, err := GenerateToken(u, "k", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(tok, "k")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{ID: 1, Role: entity.RoleAdmin})
	raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseToken(raw, "k")
	assert.Error(t, err)
}

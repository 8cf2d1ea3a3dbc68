package services

import (
	"context"
	"testing"

	"ahara/entity"
	"ahara/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.auth.Register(ctx, RegisterReq{Name: " Asha ", Email: "Asha@Test.local", Password: "secret1", Phone: "9876543210"})
	require.NoError(t, err)
	assert.Equal(t, "asha@test.local", out.User.Email)
	assert.Equal(t, "Asha", out.User.Name)
	assert.Equal(t, entity.RoleCustomer, out.User.Role)
	assert.NotEqual(t, "secret1", out.User.PasswordHash)

	claims, err := utils.ParseToken(out.Token, "jwt-test-secret")
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, claims.ID)
	assert.Equal(t, entity.RoleCustomer, claims.Role)

	_, err = f.auth.Register(ctx, RegisterReq{Name: "Other", Email: "asha@test.local", Password: "secret2"})
	assert.ErrorIs(t, err, ErrConflict)

	in, err := f.auth.Login(ctx, LoginReq{Email: "ASHA@test.local", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, in.User.ID)

	_, err = f.auth.Login(ctx, LoginReq{Email: "asha@test.local", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, LoginReq{Email: "nobody@test.local", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	me, err := f.auth.Me(ctx, out.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "asha@test.local", me.Email)
	_, err = f.auth.Me(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateTokenPair(t *testing.T) {
	require.NoError(t, Init())

	access, refresh, expiresIn, err := GenerateTokenPair("123456789")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.Positive(t, expiresIn)

	uid, err := ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, "123456789", uid)

	uid, err = ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "123456789", uid)
}

func TestAccessTokenRejectedAsRefreshToken(t *testing.T) {
	require.NoError(t, Init())

	access, refresh, _, err := GenerateTokenPair("42")
	require.NoError(t, err)

	// access token 没有 refresh 类型声明
	_, err = ValidateRefreshToken(access)
	assert.Error(t, err)

	// refresh token 也不能当 access token 用
	_, err = ValidateAccessToken(refresh)
	assert.Error(t, err)
}

func TestValidateAccessTokenRejectsGarbage(t *testing.T) {
	require.NoError(t, Init())

	_, err := ValidateAccessToken("not-a-jwt")
	assert.Error(t, err)

	_, err = ValidateAccessToken("")
	assert.Error(t, err)
}

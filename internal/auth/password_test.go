package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("pw123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", hash)

	assert.True(t, VerifyPassword("pw123", hash))
	assert.False(t, VerifyPassword("pw124", hash))
	assert.False(t, VerifyPassword("", hash))
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashPassword_CostOutOfRangeUsesDefault(t *testing.T) {
	hash, err := HashPassword("pw", 0)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", 73), bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("pw", ""))
	assert.False(t, VerifyPassword("pw", "not-a-bcrypt-hash"))
	assert.False(t, VerifyPassword("pw", "pw"))
}

func TestDecoyHash_MatchesConfiguredCost(t *testing.T) {
	for _, cost := range []int{bcrypt.MinCost, bcrypt.MinCost + 1} {
		decoy, err := DecoyHash(cost)
		require.NoError(t, err)
		decoyCost, err := bcrypt.Cost([]byte(decoy))
		require.NoError(t, err)

		stored, err := HashPassword("password123", cost)
		require.NoError(t, err)
		storedCost, err := bcrypt.Cost([]byte(stored))
		require.NoError(t, err)

		assert.Equal(t, cost, decoyCost)
		assert.Equal(t, storedCost, decoyCost)
		assert.False(t, VerifyPassword("password123", decoy))
	}
}

func TestDecoyHash_OutOfRangeCostFallsBack(t *testing.T) {
	decoy, err := DecoyHash(0)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(decoy))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

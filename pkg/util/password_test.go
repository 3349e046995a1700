package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "Regular password", password: "password123"},
		{name: "Accented password", password: "fromage-de-chèvre"},
		{name: "Symbols", password: "p@ss!#$%^&*()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)

			cost, err := bcrypt.Cost([]byte(hash))
			require.NoError(t, err)
			assert.Equal(t, bcryptCost, cost)
		})
	}
}

func TestHashPassword_TooLong(t *testing.T) {
	long := make([]byte, 80)
	for i := range long {
		long[i] = 'a'
	}

	hash, err := HashPassword(string(long))
	assert.Error(t, err)
	assert.Empty(t, hash)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)

	tests := []struct {
		name   string
		hash   string
		secret string
		want   bool
	}{
		{name: "Matching password", hash: hash, secret: "secret123", want: true},
		{name: "Wrong password", hash: hash, secret: "secret124", want: false},
		{name: "Empty password", hash: hash, secret: "", want: false},
		{name: "Corrupt hash", hash: "not-a-bcrypt-hash", secret: "secret123", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyPassword(tt.hash, tt.secret))
		})
	}
}

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("same")
	require.NoError(t, err)
	second, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, VerifyPassword(first, "same"))
	assert.True(t, VerifyPassword(second, "same"))
}

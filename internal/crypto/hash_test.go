package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		errMsg   string
		password string
		wantErr  bool
	}{
		{
			name:     "successful hash",
			password: "p1",
			wantErr:  false,
		},
		{
			name:     "unicode password",
			password: "пароль-123",
			wantErr:  false,
		},
		{
			name:     "empty password",
			password: "",
			wantErr:  true,
			errMsg:   "password cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Empty(t, hash)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash, "хеш не должен совпадать с паролем")

			cost, err := bcrypt.Cost([]byte(hash))
			require.NoError(t, err)
			assert.Equal(t, PasswordCost, cost)
		})
	}
}

func TestHashPassword_Salted(t *testing.T) {
	// Одинаковый пароль дает разные хеши (соль)
	h1, err := HashPassword("same-password")
	require.NoError(t, err)
	h2, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	t.Run("match", func(t *testing.T) {
		assert.NoError(t, VerifyPassword("correct horse", hash))
	})

	t.Run("mismatch", func(t *testing.T) {
		err := VerifyPassword("battery staple", hash)
		assert.ErrorIs(t, err, ErrPasswordMismatch)
	})

	t.Run("empty password", func(t *testing.T) {
		err := VerifyPassword("", hash)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrPasswordMismatch)
	})

	t.Run("empty hash", func(t *testing.T) {
		err := VerifyPassword("correct horse", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "hash cannot be empty")
	})

	t.Run("garbage hash", func(t *testing.T) {
		err := VerifyPassword("correct horse", "not-a-bcrypt-hash")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrPasswordMismatch)
	})
}

func TestFingerprintToken(t *testing.T) {
	fp := FingerprintToken("token-value")

	assert.Len(t, fp, 64)
	assert.Regexp(t, "^[a-f0-9]{64}$", fp)
	assert.Equal(t, fp, FingerprintToken("token-value"), "отпечаток детерминирован")
	assert.NotEqual(t, fp, FingerprintToken("token-value2"))
}

func TestRandomID(t *testing.T) {
	a, err := RandomID(16)
	require.NoError(t, err)
	b, err := RandomID(16)
	require.NoError(t, err)

	assert.Len(t, a, 22)
	assert.NotEqual(t, a, b)
}

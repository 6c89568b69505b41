package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Senha123")
	require.NoError(t, err)
	assert.NotEqual(t, "Senha123", hash)

	assert.True(t, CheckPassword("Senha123", hash))
	assert.False(t, CheckPassword("senha123", hash))
	assert.False(t, CheckPassword("", hash))
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Senha123", false},
		{"valid with symbols", "S3nh@forte", false},
		{"missing uppercase", "senha123", true},
		{"missing lowercase", "SENHA123", true},
		{"missing digit", "SenhaForte", true},
		{"empty", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.password)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

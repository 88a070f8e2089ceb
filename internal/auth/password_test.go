package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		minLength int
		wantErr   error
	}{
		{name: "valid password", password: "validpassword123"},
		{name: "too short", password: "short", wantErr: ErrPasswordTooShort},
		{name: "at default minimum", password: "123456789012"},
		{name: "hanzi counted as characters", password: "我爱学习中文汉字很有意思"},
		{name: "hanzi below minimum", password: "我爱学习中文汉字很有意", wantErr: ErrPasswordTooShort},
		{name: "configured minimum", password: "123456789012", minLength: 16, wantErr: ErrPasswordTooShort},
		{name: "lower configured minimum", password: "12345678", minLength: 8},
		{name: "too long", password: strings.Repeat("a", 73), wantErr: ErrPasswordTooLong},
		{name: "hanzi over byte limit", password: strings.Repeat("字", 25), wantErr: ErrPasswordTooLong},
		{name: "at maximum length", password: strings.Repeat("a", 72)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password, tt.minLength, bcrypt.MinCost)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, CheckPassword(tt.password, hash))
		})
	}
}

func TestCheckPassword_Mismatch(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery", 0, bcrypt.MinCost)
	require.NoError(t, err)

	assert.ErrorIs(t, CheckPassword("wrong-horse-battery", hash), ErrInvalidPassword)
}

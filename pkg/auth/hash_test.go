package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewHashServiceCost(t *testing.T) {
	assert.Equal(t, bcrypt.MinCost, NewHashService(bcrypt.MinCost).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewHashService(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewHashService(bcrypt.MaxCost+1).cost)
}

func TestHashPasswordLimits(t *testing.T) {
	hashService := NewHashService(bcrypt.MinCost)

	cases := map[string]struct {
		password string
		wantErr  error
	}{
		"member password":      {password: "rahasia-desa-2024"},
		"exactly 72 bytes":     {password: strings.Repeat("a", 72)},
		"empty":                {password: "", wantErr: ErrEmptyPassword},
		"73 bytes is refused":  {password: strings.Repeat("a", 73), wantErr: ErrPasswordTooLong},
		"multibyte over limit": {password: strings.Repeat("é", 37), wantErr: ErrPasswordTooLong},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			hashed, err := hashService.HashPassword(tc.password)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Empty(t, hashed)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, tc.password, hashed)

			cost, err := bcrypt.Cost([]byte(hashed))
			require.NoError(t, err)
			assert.Equal(t, bcrypt.MinCost, cost)
		})
	}
}

func TestComparePasswordRoundTrip(t *testing.T) {
	hashService := NewHashService(bcrypt.MinCost)
	hashed, err := hashService.HashPassword("rahasia-desa-2024")
	require.NoError(t, err)

	assert.True(t, hashService.ComparePassword(hashed, "rahasia-desa-2024"))
	assert.False(t, hashService.ComparePassword(hashed, "Rahasia-desa-2024"))
	assert.False(t, hashService.ComparePassword(hashed, ""))
	assert.False(t, hashService.ComparePassword("not-a-bcrypt-hash", "rahasia-desa-2024"))
}

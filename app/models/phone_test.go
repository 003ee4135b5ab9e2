package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		region  string
		want    string
		wantErr bool
	}{
		{"empty passes through", "", "IN", "", false},
		{"national number with default region", "9876543210", "", "+919876543210", false},
		{"e164 keeps country", "+14155552671", "IN", "+14155552671", false},
		{"formatted input normalized", "(415) 555-2671", "US", "+14155552671", false},
		{"garbage rejected", "not a phone", "IN", "", true},
		{"too short rejected", "12345", "IN", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizePhone(tc.in, tc.region)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestUserLifecycle(t *testing.T) {
	user, err := CreateUser("Jordan", "+919876543210", "long enough")
	require.NoError(t, err)
	assert.Equal(t, ROLE_USER, user.Role)
	assert.False(t, user.IsAdmin())
	assert.True(t, user.CheckPassword("long enough"))
	assert.False(t, user.CheckPassword("wrong"))

	_, err = CreateUser("Jordan", "+919876543210", "short")
	require.ErrorIs(t, err, ErrPasswordTooShort)

	user.Role = ROLE_ADMIN
	assert.True(t, user.IsAdmin())
}

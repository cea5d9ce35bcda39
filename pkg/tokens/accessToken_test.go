package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-jwt-secret")

func TestIssueAccessToken_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	token, exp, err := IssueAccessToken(secret, "u-1", "admin", 2*time.Hour, now)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := AccessClaimsFromToken(token, secret)
	require.NoError(t, err)

	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "ADMIN", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, now.Add(2*time.Hour), claims.ExpiresAt.Time, time.Second)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestAccessClaimsFromToken_Rejects(t *testing.T) {
	t.Parallel()

	expired, _, err := IssueAccessToken(secret, "u-1", "user", time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	otherKey, _, err := IssueAccessToken([]byte("other"), "u-1", "user", time.Hour, time.Now())
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		Role: "USER",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(secret)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, AccessClaims{UserID: "u-1"}).SignedString(secret)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "garbage", token: "not-a-valid-jwt"},
		{name: "expired", token: expired, wantErr: jwt.ErrTokenExpired},
		{name: "wrong key", token: otherKey, wantErr: jwt.ErrTokenSignatureInvalid},
		{name: "missing user id", token: noUser, wantErr: ErrMissingUserID},
		{name: "wrong alg", token: hs512},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			claims, err := AccessClaimsFromToken(tt.token, secret)
			require.Error(t, err)
			assert.Nil(t, claims)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

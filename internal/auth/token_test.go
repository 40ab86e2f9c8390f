package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_IssueAndVerify(t *testing.T) {
	now := time.Now()
	issuer := NewIssuer("secret", time.Hour, 7*24*time.Hour)
	issuer.now = func() time.Time { return now }

	token, expiresAt, err := issuer.Issue("user-1", "a@example.com", false)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Hour), expiresAt, time.Second)

	claims, err := NewVerifier("secret").Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Owner())
	assert.Equal(t, "a@example.com", claims.Email)

	_, expiresAt, err = issuer.Issue("user-1", "a@example.com", true)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(7*24*time.Hour), expiresAt, time.Second)
}

func TestVerifier_Errors(t *testing.T) {
	sign := func(t *testing.T, secret string, claims *Claims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))
	past := jwt.NewNumericDate(time.Now().Add(-time.Hour))

	tests := []struct {
		name  string
		token func(t *testing.T) string
		want  error
	}{
		{
			name:  "garbage",
			token: func(*testing.T) string { return "not-a-token" },
			want:  ErrTokenInvalid,
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				return sign(t, "other", &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u", ExpiresAt: future}})
			},
			want: ErrTokenInvalid,
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				return sign(t, "secret", &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u", ExpiresAt: past}})
			},
			want: ErrTokenExpired,
		},
		{
			name: "no subject",
			token: func(t *testing.T) string {
				return sign(t, "secret", &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future}})
			},
			want: ErrNoSubject,
		},
	}
	v := NewVerifier("secret")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Owner(tt.token(t))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClaims_UserIDTakesPrecedence(t *testing.T) {
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "sub"}, UserID: "uid"}
	assert.Equal(t, "uid", c.Owner())
	c.UserID = ""
	assert.Equal(t, "sub", c.Owner())
}

func TestUnverifiedOwner(t *testing.T) {
	issuer := NewIssuer("server-only", time.Hour, time.Hour)
	token, _, err := issuer.Issue("user-9", "", false)
	require.NoError(t, err)

	owner, err := NewUnverifiedOwner().Owner(token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", owner)

	u := NewUnverifiedOwner()
	u.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = u.Owner(token)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = u.Owner("a.b")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

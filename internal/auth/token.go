package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("JWT token has expired")
	ErrTokenInvalid = errors.New("invalid JWT token")
	ErrNoSubject    = errors.New("user_id not found in JWT token")
)

// Claims are carried by every session token. UserID is accepted from tokens
// minted elsewhere and takes precedence over Subject.
type Claims struct {
	jwt.RegisteredClaims
	Email  string `json:"email,omitempty"`
	UserID string `json:"user_id,omitempty"`
}

// Owner returns the id of the user the token was issued to.
func (c *Claims) Owner() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

type Issuer struct {
	secret        []byte
	ttl           time.Duration
	rememberMeTTL time.Duration
	now           func() time.Time
}

func NewIssuer(secret string, ttl, rememberMeTTL time.Duration) *Issuer {
	return &Issuer{
		secret:        []byte(secret),
		ttl:           ttl,
		rememberMeTTL: rememberMeTTL,
		now:           time.Now,
	}
}

// Issue signs an HS256 token for the user. rememberMe selects the longer
// lifetime.
func (i *Issuer) Issue(userID, email string, rememberMe bool) (string, time.Time, error) {
	ttl := i.ttl
	if rememberMe {
		ttl = i.rememberMeTTL
	}
	now := i.now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: email,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verifier checks token signatures with the shared secret.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

func (v *Verifier) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, classify(err)
	}
	if claims.Owner() == "" {
		return nil, ErrNoSubject
	}
	return claims, nil
}

// Owner implements the tool adapter's owner lookup.
func (v *Verifier) Owner(token string) (string, error) {
	claims, err := v.Verify(token)
	if err != nil {
		return "", err
	}
	return claims.Owner(), nil
}

// UnverifiedOwner reads the owner from a token without checking its
// signature. Clients that do not hold the secret use it; the server still
// verifies every request they make.
type UnverifiedOwner struct {
	now func() time.Time
}

func NewUnverifiedOwner() *UnverifiedOwner {
	return &UnverifiedOwner{now: time.Now}
}

func (u *UnverifiedOwner) Owner(token string) (string, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", classify(err)
	}
	if claims.ExpiresAt != nil && !u.now().Before(claims.ExpiresAt.Time) {
		return "", ErrTokenExpired
	}
	if claims.Owner() == "" {
		return "", ErrNoSubject
	}
	return claims.Owner(), nil
}

func classify(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrTokenExpired
	}
	return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
}

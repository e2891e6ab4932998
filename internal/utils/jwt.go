package utils // package utils provides helper functions for token creation and hashing

import (
	"errors" // sentinel error for failed verification
	"time"   // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidToken is returned by ParseAccessToken for every verification
// failure: bad signature, wrong algorithm, malformed structure, expired
// token or missing subject.  Callers never learn which check failed.
var ErrInvalidToken = errors.New("invalid or expired token")

// Principal is the authenticated identity decoded from a verified access
// token.  It is ephemeral: derived per request, never persisted.
type Principal struct {
	Username string // the "sub" claim
	Role     string // the "role" claim
}

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp as a time.Time.  Access tokens are short-lived and encoded
// in the Authorization header when calling protected endpoints.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user.  It takes the
// signing secret, the username, the user's role, and a TTL in minutes.  The
// JWT embeds the subject (sub), role, expiration (exp) and issued at (iat)
// claims; expiry is absolute, computed as now + TTL.
func NewAccessToken(secret, username, role string, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  username,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies a raw token string and extracts the Principal.
// Verification is a pure function of the token, the secret and the clock;
// rotating the secret invalidates every previously issued token.
func ParseAccessToken(secret, raw string) (Principal, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Principal{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Principal{}, ErrInvalidToken
	}
	role, _ := claims["role"].(string)
	return Principal{Username: sub, Role: role}, nil
}

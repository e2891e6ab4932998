package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-for-token-tests"

func TestAccessToken_Roundtrip(t *testing.T) {
	tok, err := NewAccessToken(testSecret, "alice", "voter", 60)
	if err != nil {
		t.Fatalf("NewAccessToken() error = %v", err)
	}
	if tok.Token == "" {
		t.Fatal("issued token is empty")
	}
	if remaining := time.Until(tok.Exp); remaining < 59*time.Minute || remaining > 61*time.Minute {
		t.Errorf("expiry %v not about 60 minutes out", tok.Exp)
	}

	p, err := ParseAccessToken(testSecret, tok.Token)
	if err != nil {
		t.Fatalf("ParseAccessToken() error = %v", err)
	}
	if p.Username != "alice" {
		t.Errorf("Username = %q, want %q", p.Username, "alice")
	}
	if p.Role != "voter" {
		t.Errorf("Role = %q, want %q", p.Role, "voter")
	}
}

func TestParseAccessToken_Expired(t *testing.T) {
	tok, err := NewAccessToken(testSecret, "alice", "voter", -1)
	if err != nil {
		t.Fatalf("NewAccessToken() error = %v", err)
	}
	if _, err := ParseAccessToken(testSecret, tok.Token); err != ErrInvalidToken {
		t.Errorf("ParseAccessToken() on expired token: error = %v, want ErrInvalidToken", err)
	}
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	tok, _ := NewAccessToken(testSecret, "alice", "voter", 60)
	if _, err := ParseAccessToken("a-different-secret", tok.Token); err != ErrInvalidToken {
		t.Errorf("ParseAccessToken() with wrong secret: error = %v, want ErrInvalidToken", err)
	}
}

func TestParseAccessToken_TamperedSignature(t *testing.T) {
	tok, _ := NewAccessToken(testSecret, "alice", "voter", 60)
	raw := tok.Token

	// Corrupt the final signature byte.
	last := raw[len(raw)-1]
	repl := byte('A')
	if last == 'A' {
		repl = 'B'
	}
	tampered := raw[:len(raw)-1] + string(repl)

	if _, err := ParseAccessToken(testSecret, tampered); err != ErrInvalidToken {
		t.Errorf("ParseAccessToken() on tampered token: error = %v, want ErrInvalidToken", err)
	}
}

func TestParseAccessToken_Malformed(t *testing.T) {
	for _, raw := range []string{"", "not-a-jwt", "a.b", "a.b.c.d"} {
		if _, err := ParseAccessToken(testSecret, raw); err != ErrInvalidToken {
			t.Errorf("ParseAccessToken(%q) error = %v, want ErrInvalidToken", raw, err)
		}
	}
}

func TestParseAccessToken_MissingSubject(t *testing.T) {
	claims := jwt.MapClaims{
		"role": "voter",
		"exp":  time.Now().UTC().Add(time.Hour).Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAccessToken(testSecret, signed); err != ErrInvalidToken {
		t.Errorf("ParseAccessToken() without sub: error = %v, want ErrInvalidToken", err)
	}
}

func TestParseAccessToken_RejectsNoneAlgorithm(t *testing.T) {
	claims := jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().UTC().Add(time.Hour).Unix(),
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAccessToken(testSecret, unsigned); err != ErrInvalidToken {
		t.Errorf("ParseAccessToken() with alg=none: error = %v, want ErrInvalidToken", err)
	}
}

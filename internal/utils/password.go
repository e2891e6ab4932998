package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Password hashing uses salted PBKDF2-SHA256.  The encoded form is
// "pbkdf2_sha256$<iterations>$<salt b64>$<key b64>", which keeps the salt
// and work factor alongside the derived key so old hashes keep verifying
// after the configured iteration count changes.

const (
	pbkdf2Prefix  = "pbkdf2_sha256"
	pbkdf2SaltLen = 16
	pbkdf2KeyLen  = 32

	// DefaultPBKDF2Iterations matches the deployed configuration default.
	DefaultPBKDF2Iterations = 29000
)

var errMalformedHash = errors.New("malformed password hash")

// HashPassword derives a PBKDF2-SHA256 hash of plain with a fresh random
// salt and the given iteration count.
func HashPassword(plain string, iterations int) (string, error) {
	if iterations < 1 {
		iterations = DefaultPBKDF2Iterations
	}
	salt := make([]byte, pbkdf2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := pbkdf2.Key([]byte(plain), salt, iterations, pbkdf2KeyLen, sha256.New)
	return fmt.Sprintf("%s$%d$%s$%s",
		pbkdf2Prefix,
		iterations,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword re-derives the key from plain using the salt and iteration
// count stored in encoded and compares in constant time.  Any parse failure
// verifies as false rather than erroring: a stored hash this code cannot
// read must never authenticate anyone.
func VerifyPassword(encoded, plain string) bool {
	iterations, salt, want, err := parseHash(encoded)
	if err != nil {
		return false
	}
	got := pbkdf2.Key([]byte(plain), salt, iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}

func parseHash(encoded string) (int, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 4 || parts[0] != pbkdf2Prefix {
		return 0, nil, nil, errMalformedHash
	}
	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations < 1 {
		return 0, nil, nil, errMalformedHash
	}
	salt, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return 0, nil, nil, errMalformedHash
	}
	key, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil || len(key) == 0 {
		return 0, nil, nil, errMalformedHash
	}
	return iterations, salt, key, nil
}

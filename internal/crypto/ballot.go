// Package crypto implements ballot encryption at rest and the tally
// fingerprint.  Ballots are sealed with AES-256-GCM so the stored blob is
// both confidential and tamper-evident; the fingerprint lets two observers
// confirm they are looking at the same tally without re-trusting raw counts.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

const nonceLen = 12

// ErrDecrypt is returned whenever a stored blob fails authenticated
// decryption: wrong key, truncation, corruption or tampering.  No partial
// plaintext is ever returned.
var ErrDecrypt = errors.New("ballot decryption failed")

// BallotCipher performs authenticated encryption of a single ballot choice.
// It holds no mutable state and is safe for concurrent use.
type BallotCipher struct {
	aead cipher.AEAD
}

// NewBallotCipher builds a cipher from a 256-bit key.  A key of any other
// length is a configuration error, not a per-call one.
func NewBallotCipher(key []byte) (*BallotCipher, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &BallotCipher{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random 96-bit nonce and returns
// base64(nonce || ciphertext).  The per-call nonce means two encryptions of
// the same choice produce different blobs, so equal ciphertexts can never
// reveal which voters chose identically.
func (b *BallotCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, nonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := b.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a blob produced by Encrypt.  Every failure mode collapses
// to ErrDecrypt.
func (b *BallotCipher) Decrypt(blob string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(blob)
	if err != nil || len(data) < nonceLen {
		return "", ErrDecrypt
	}
	plain, err := b.aead.Open(nil, data[:nonceLen], data[nonceLen:], nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plain), nil
}

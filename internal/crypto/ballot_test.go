package crypto

import (
	"encoding/base64"
	"strings"
	"testing"
)

var testKey = []byte("0123456789abcdef0123456789abcdef") // 32 bytes

func TestNewBallotCipher_KeyLength(t *testing.T) {
	tests := []struct {
		name    string
		key     []byte
		wantErr bool
	}{
		{name: "32 byte key", key: testKey, wantErr: false},
		{name: "nil key", key: nil, wantErr: true},
		{name: "16 byte key", key: []byte("0123456789abcdef"), wantErr: true},
		{name: "33 byte key", key: append([]byte{}, append(testKey, 'x')...), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBallotCipher(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewBallotCipher() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEncryptDecrypt_Roundtrip(t *testing.T) {
	c, err := NewBallotCipher(testKey)
	if err != nil {
		t.Fatalf("NewBallotCipher() error = %v", err)
	}

	for _, plaintext := range []string{"yes", "no", "", "a much longer choice with spaces", "unicode ✓"} {
		blob, err := c.Encrypt(plaintext)
		if err != nil {
			t.Fatalf("Encrypt(%q) error = %v", plaintext, err)
		}
		got, err := c.Decrypt(blob)
		if err != nil {
			t.Fatalf("Decrypt() error = %v", err)
		}
		if got != plaintext {
			t.Errorf("Decrypt() = %q, want %q", got, plaintext)
		}
	}
}

func TestEncrypt_NonceUniqueness(t *testing.T) {
	c, _ := NewBallotCipher(testKey)

	a, err := c.Encrypt("yes")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	b, err := c.Encrypt("yes")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if a == b {
		t.Error("two encryptions of the same plaintext produced identical blobs")
	}
}

func TestDecrypt_TamperedBlob(t *testing.T) {
	c, _ := NewBallotCipher(testKey)

	blob, err := c.Encrypt("yes")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		t.Fatalf("decode blob: %v", err)
	}

	// Flip one byte at every position; authentication must fail each time.
	for i := range raw {
		mutated := append([]byte{}, raw...)
		mutated[i] ^= 0x01
		if _, err := c.Decrypt(base64.StdEncoding.EncodeToString(mutated)); err != ErrDecrypt {
			t.Errorf("Decrypt() with byte %d flipped: error = %v, want ErrDecrypt", i, err)
		}
	}
}

func TestDecrypt_Malformed(t *testing.T) {
	c, _ := NewBallotCipher(testKey)

	tests := []struct {
		name string
		blob string
	}{
		{name: "not base64", blob: "!!!not-base64!!!"},
		{name: "empty", blob: ""},
		{name: "shorter than nonce", blob: base64.StdEncoding.EncodeToString([]byte("short"))},
		{name: "nonce only", blob: base64.StdEncoding.EncodeToString(make([]byte, 12))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Decrypt(tt.blob); err != ErrDecrypt {
				t.Errorf("Decrypt(%q) error = %v, want ErrDecrypt", tt.blob, err)
			}
		})
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	c1, _ := NewBallotCipher(testKey)
	c2, _ := NewBallotCipher([]byte(strings.Repeat("k", 32)))

	blob, err := c1.Encrypt("yes")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if _, err := c2.Decrypt(blob); err != ErrDecrypt {
		t.Errorf("Decrypt() with wrong key: error = %v, want ErrDecrypt", err)
	}
}

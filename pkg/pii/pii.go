// Package pii encrypts payout account numbers at rest. The wire layout is
// base64(iv | tag | ciphertext) with AES-256-GCM, a 12-byte iv and a 16-byte
// tag, which keeps stored values interchangeable with records written by the
// previous implementation.
package pii

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"
)

const (
	ivSize  = 12
	tagSize = 16
)

// Cipher encrypts and decrypts PII strings with a fixed 32-byte key.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher creates a Cipher from a 32-byte key.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("pii: key must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals plain and returns the base64-encoded iv|tag|ciphertext blob.
func (c *Cipher) Encrypt(plain string) (string, error) {
	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	sealed := c.aead.Seal(nil, iv, []byte(plain), nil)
	// Seal appends the tag after the ciphertext; the stored layout wants it
	// between iv and ciphertext.
	ciphertext := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	blob := make([]byte, 0, ivSize+tagSize+len(ciphertext))
	blob = append(blob, iv...)
	blob = append(blob, tag...)
	blob = append(blob, ciphertext...)
	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt reverses Encrypt.
func (c *Cipher) Decrypt(encrypted string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("pii: invalid base64: %w", err)
	}
	if len(blob) < ivSize+tagSize {
		return "", fmt.Errorf("pii: blob too short")
	}
	iv := blob[:ivSize]
	tag := blob[ivSize : ivSize+tagSize]
	ciphertext := blob[ivSize+tagSize:]

	sealed := make([]byte, 0, len(ciphertext)+tagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plain, err := c.aead.Open(nil, iv, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("pii: decryption failed: %w", err)
	}
	return string(plain), nil
}

// MaskAccount renders an account number as its last four digits. The input
// may be encrypted or plain; anything undecryptable is treated as plain.
func (c *Cipher) MaskAccount(encOrPlain string) string {
	if encOrPlain == "" {
		return ""
	}
	account, err := c.Decrypt(encOrPlain)
	if err != nil {
		account = encOrPlain
	}

	var digits strings.Builder
	for _, r := range account {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) < 4 {
		return "••••"
	}
	return "•••• " + d[len(d)-4:]
}

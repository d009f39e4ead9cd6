// Package crypto implements authenticated encryption for secret values at rest.
// Values are sealed with AES-256-GCM under a single process-wide data key and
// stored as nonce ‖ ciphertext ‖ tag. There is no key rotation and no streaming:
// every secret is encrypted whole, in one shot.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

const (
	// KeySize is the required data-key length in bytes (AES-256).
	KeySize = 32

	nonceSize = 12
	tagSize   = 16
)

// ErrCiphertextTooShort is returned when the input cannot even hold a nonce and tag.
var ErrCiphertextTooShort = errors.New("ciphertext is too short")

// ErrDecrypt is returned when GCM authentication fails: tampered ciphertext,
// a corrupted nonce, or the wrong key. The plaintext is never returned in that case.
var ErrDecrypt = errors.New("decryption failed")

// Cipher seals and opens secret values. Safe for concurrent use.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher builds a Cipher from a hex-encoded 256-bit data key.
func NewCipher(hexKey string) (*Cipher, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("encryption key is not valid hex: %w", err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("initializing AES: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("initializing GCM: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random nonce. Two calls with the same
// plaintext produce different outputs but both decrypt back to it.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	// Never use more than 2^32 random nonces with a given key because of
	// the risk of a repeat.
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	// Seal appends ciphertext ‖ tag to the nonce slice.
	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens data produced by Encrypt. Authentication failure is a hard
// error; garbage plaintext is never returned.
func (c *Cipher) Decrypt(data []byte) ([]byte, error) {
	if len(data) < nonceSize+tagSize {
		return nil, ErrCiphertextTooShort
	}

	nonce, sealed := data[:nonceSize], data[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

// GenerateKey returns a fresh random data key hex-encoded for configuration.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("generating data key: %w", err)
	}
	return hex.EncodeToString(key), nil
}

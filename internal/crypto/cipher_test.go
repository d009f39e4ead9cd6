package crypto

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

func testKey(t *testing.T) string {
	t.Helper()
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	return hex.EncodeToString(key)
}

func TestNewCipher(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "valid 32-byte key", key: strings.Repeat("ab", 32)},
		{name: "not hex", key: strings.Repeat("zz", 32), wantErr: true},
		{name: "too short", key: strings.Repeat("ab", 16), wantErr: true},
		{name: "too long", key: strings.Repeat("ab", 33), wantErr: true},
		{name: "empty", key: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCipher(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewCipher(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c, err := NewCipher(testKey(t))
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}

	tests := []struct {
		name      string
		plaintext []byte
	}{
		{name: "simple value", plaintext: []byte("s3cret-api-token")},
		{name: "empty value", plaintext: []byte("")},
		{name: "10KB value", plaintext: bytes.Repeat([]byte("x"), 10240)},
		{name: "binary value", plaintext: []byte{0x00, 0x01, 0x02, 0xff, 0xfe, 0xfd}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ciphertext, err := c.Encrypt(tt.plaintext)
			if err != nil {
				t.Fatalf("Encrypt: %v", err)
			}
			if len(ciphertext) != 12+len(tt.plaintext)+16 {
				t.Errorf("ciphertext length = %d, want %d", len(ciphertext), 12+len(tt.plaintext)+16)
			}

			decrypted, err := c.Decrypt(ciphertext)
			if err != nil {
				t.Fatalf("Decrypt: %v", err)
			}
			if !bytes.Equal(decrypted, tt.plaintext) {
				t.Errorf("round trip mismatch: got %v, want %v", decrypted, tt.plaintext)
			}
		})
	}
}

func TestEncryptionIsNonDeterministic(t *testing.T) {
	c, _ := NewCipher(testKey(t))

	plaintext := []byte("same value")
	first, _ := c.Encrypt(plaintext)
	second, _ := c.Encrypt(plaintext)

	if bytes.Equal(first, second) {
		t.Error("encrypting the same plaintext twice should produce different ciphertexts")
	}

	for _, ciphertext := range [][]byte{first, second} {
		decrypted, err := c.Decrypt(ciphertext)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if !bytes.Equal(decrypted, plaintext) {
			t.Error("both ciphertexts should decrypt to the original plaintext")
		}
	}
}

func TestDecryptDetectsTampering(t *testing.T) {
	c, _ := NewCipher(testKey(t))

	ciphertext, err := c.Encrypt([]byte("integrity matters"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	// Flipping any single byte (nonce, ciphertext, or tag) must fail authentication.
	for i := range ciphertext {
		tampered := bytes.Clone(ciphertext)
		tampered[i] ^= 0x01

		if _, err := c.Decrypt(tampered); !errors.Is(err, ErrDecrypt) {
			t.Errorf("Decrypt with byte %d flipped: error = %v, want ErrDecrypt", i, err)
		}
	}
}

func TestDecryptWithWrongKey(t *testing.T) {
	c1, _ := NewCipher(testKey(t))
	c2, _ := NewCipher(strings.Repeat("cd", 32))

	ciphertext, _ := c1.Encrypt([]byte("keyed data"))
	if _, err := c2.Decrypt(ciphertext); !errors.Is(err, ErrDecrypt) {
		t.Errorf("Decrypt with wrong key: error = %v, want ErrDecrypt", err)
	}
}

func TestDecryptRejectsShortInput(t *testing.T) {
	c, _ := NewCipher(testKey(t))

	for length := 0; length < 28; length++ {
		data := make([]byte, length)
		if _, err := c.Decrypt(data); !errors.Is(err, ErrCiphertextTooShort) {
			t.Errorf("Decrypt(%d bytes): error = %v, want ErrCiphertextTooShort", length, err)
		}
	}
}

func TestGenerateKey(t *testing.T) {
	hexKey, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	if len(hexKey) != KeySize*2 {
		t.Errorf("key length = %d, want %d", len(hexKey), KeySize*2)
	}
	if _, err := NewCipher(hexKey); err != nil {
		t.Errorf("generated key rejected by NewCipher: %v", err)
	}

	other, _ := GenerateKey()
	if hexKey == other {
		t.Error("two generated keys should differ")
	}
}

package primitives

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"crypto/sha256"
)

// AES-256-GCM sizing: 32-byte key, 12-byte IV, 16-byte tag.
const (
	AESKeySize   = 32
	AESIVSize    = 12
	AESTagSize   = 16
)

// GenerateAESKey returns a fresh random 32-byte AES-256 key.
func GenerateAESKey() ([]byte, error) {
	key := make([]byte, AESKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("primitives: generate AES key: %w", err)
	}
	return key, nil
}

// GenerateIV returns a fresh random 12-byte AES-GCM IV.
func GenerateIV() ([]byte, error) {
	iv := make([]byte, AESIVSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("primitives: generate IV: %w", err)
	}
	return iv, nil
}

// AESGCMEncrypt encrypts plaintext under key with a freshly-generated IV and
// no associated data, returning (ciphertext-with-tag, iv). The tag is
// appended to the ciphertext by the standard library's GCM implementation.
func AESGCMEncrypt(key, plaintext []byte) (ciphertext, iv []byte, err error) {
	if len(key) != AESKeySize {
		return nil, nil, fmt.Errorf("primitives: invalid AES key size: got %d, want %d", len(key), AESKeySize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("primitives: new AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, fmt.Errorf("primitives: new GCM: %w", err)
	}

	iv, err = GenerateIV()
	if err != nil {
		return nil, nil, err
	}

	ciphertext = gcm.Seal(nil, iv, plaintext, nil)
	return ciphertext, iv, nil
}

// AESGCMDecrypt decrypts ciphertext (with appended tag) under key and iv,
// with no associated data. It returns an error without any partial output
// if the tag fails to verify.
func AESGCMDecrypt(key, iv, ciphertext []byte) ([]byte, error) {
	if len(key) != AESKeySize {
		return nil, fmt.Errorf("primitives: invalid AES key size: got %d, want %d", len(key), AESKeySize)
	}
	if len(iv) != AESIVSize {
		return nil, fmt.Errorf("primitives: invalid IV size: got %d, want %d", len(iv), AESIVSize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("primitives: new AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("primitives: new GCM: %w", err)
	}

	plaintext, err := gcm.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("primitives: AES-GCM decryption failed: %w", err)
	}
	return plaintext, nil
}

// DeriveKey derives keyLen bytes from secret using HKDF-SHA256. The
// standard envelopes use the KEM shared secret directly as the AES key and
// do not call this; it is exposed for callers that want domain-separated
// keys derived from a single shared secret, such as deriving multiple
// per-purpose keys from one KEM output.
func DeriveKey(secret, salt, info []byte, keyLen int) ([]byte, error) {
	r := hkdf.New(sha256.New, secret, salt, info)
	out := make([]byte, keyLen)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("primitives: derive key: %w", err)
	}
	return out, nil
}

// Zero overwrites data in place with zero bytes. Call it on private-key
// buffers and KEM shared secrets once they are no longer needed.
func Zero(data []byte) {
	for i := range data {
		data[i] = 0
	}
}

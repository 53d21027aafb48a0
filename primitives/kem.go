// Package primitives wraps the black-box PQC and AEAD building blocks
// (ML-KEM-768, ML-DSA-65, ML-DSA-87, AES-256-GCM) behind fixed-size,
// byte-slice APIs. Nothing above this package should import circl or
// crypto/aes directly — every key kind in package keys goes through here.
package primitives

import (
	"crypto/rand"
	"fmt"

	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
)

// KEM sizes, re-exported as named constants so callers never need to import
// circl themselves.
const (
	KEMPublicKeySize  = mlkem768.PublicKeySize
	KEMPrivateKeySize = mlkem768.PrivateKeySize
	KEMCiphertextSize = mlkem768.CiphertextSize
	KEMSharedKeySize  = mlkem768.SharedKeySize
)

// KEMKeyPair holds a raw ML-KEM-768 key pair.
type KEMKeyPair struct {
	PublicKey  []byte
	PrivateKey []byte
}

// GenerateKEMKeyPair generates a new ML-KEM-768 key pair from the CSPRNG.
func GenerateKEMKeyPair() (*KEMKeyPair, error) {
	pub, priv, err := mlkem768.GenerateKeyPair(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("primitives: generate ML-KEM-768 key pair: %w", err)
	}

	pubBytes, err := pub.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("primitives: marshal ML-KEM-768 public key: %w", err)
	}
	privBytes, err := priv.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("primitives: marshal ML-KEM-768 private key: %w", err)
	}

	return &KEMKeyPair{PublicKey: pubBytes, PrivateKey: privBytes}, nil
}

// KEMEncapsulation is the output of an encapsulation: a ciphertext to send
// to the recipient and a shared secret to use as an AEAD key.
type KEMEncapsulation struct {
	Ciphertext []byte
	SharedKey  []byte
}

// Encapsulate derives a shared secret and ciphertext for recipientPublicKey.
func Encapsulate(recipientPublicKey []byte) (*KEMEncapsulation, error) {
	if len(recipientPublicKey) != KEMPublicKeySize {
		return nil, fmt.Errorf("primitives: invalid ML-KEM-768 public key size: got %d, want %d", len(recipientPublicKey), KEMPublicKeySize)
	}

	var pub mlkem768.PublicKey
	if err := pub.Unpack(recipientPublicKey); err != nil {
		return nil, fmt.Errorf("primitives: unpack ML-KEM-768 public key: %w", err)
	}

	seed := make([]byte, mlkem768.EncapsulationSeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("primitives: read encapsulation seed: %w", err)
	}

	ct := make([]byte, KEMCiphertextSize)
	ss := make([]byte, KEMSharedKeySize)
	pub.EncapsulateTo(ct, ss, seed)

	return &KEMEncapsulation{Ciphertext: ct, SharedKey: ss}, nil
}

// Decapsulate recovers the shared secret from ciphertext using privateKey.
func Decapsulate(privateKey, ciphertext []byte) ([]byte, error) {
	if len(privateKey) != KEMPrivateKeySize {
		return nil, fmt.Errorf("primitives: invalid ML-KEM-768 private key size: got %d, want %d", len(privateKey), KEMPrivateKeySize)
	}
	if len(ciphertext) != KEMCiphertextSize {
		return nil, fmt.Errorf("primitives: invalid ML-KEM-768 ciphertext size: got %d, want %d", len(ciphertext), KEMCiphertextSize)
	}

	var priv mlkem768.PrivateKey
	if err := priv.Unpack(privateKey); err != nil {
		return nil, fmt.Errorf("primitives: unpack ML-KEM-768 private key: %w", err)
	}

	ss := make([]byte, KEMSharedKeySize)
	priv.DecapsulateTo(ss, ciphertext)
	return ss, nil
}

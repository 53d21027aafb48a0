package primitives

import (
	"crypto/rand"
	"fmt"

	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
	"github.com/cloudflare/circl/sign/mldsa/mldsa87"
)

// ML-DSA-65 sizes (identity, share-sign, server keys).
const (
	DSA65PublicKeySize  = mldsa65.PublicKeySize
	DSA65PrivateKeySize = mldsa65.PrivateKeySize
	DSA65SignatureSize  = mldsa65.SignatureSize
)

// ML-DSA-87 sizes (master key).
const (
	DSA87PublicKeySize  = mldsa87.PublicKeySize
	DSA87PrivateKeySize = mldsa87.PrivateKeySize
	DSA87SignatureSize  = mldsa87.SignatureSize
)

// DSAKeyPair holds a raw ML-DSA key pair, regardless of mode.
type DSAKeyPair struct {
	PublicKey  []byte
	PrivateKey []byte
}

// GenerateDSA65KeyPair generates a new ML-DSA-65 key pair.
func GenerateDSA65KeyPair() (*DSAKeyPair, error) {
	pub, priv, err := mldsa65.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("primitives: generate ML-DSA-65 key pair: %w", err)
	}
	pubBytes, err := pub.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("primitives: marshal ML-DSA-65 public key: %w", err)
	}
	privBytes, err := priv.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("primitives: marshal ML-DSA-65 private key: %w", err)
	}
	return &DSAKeyPair{PublicKey: pubBytes, PrivateKey: privBytes}, nil
}

// GenerateDSA87KeyPair generates a new ML-DSA-87 key pair.
func GenerateDSA87KeyPair() (*DSAKeyPair, error) {
	pub, priv, err := mldsa87.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("primitives: generate ML-DSA-87 key pair: %w", err)
	}
	pubBytes, err := pub.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("primitives: marshal ML-DSA-87 public key: %w", err)
	}
	privBytes, err := priv.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("primitives: marshal ML-DSA-87 private key: %w", err)
	}
	return &DSAKeyPair{PublicKey: pubBytes, PrivateKey: privBytes}, nil
}

// SignDSA65 signs data with an ML-DSA-65 private key. No signing context is
// used (nil ctx), matching the flat, single-domain signing the envelope
// protocol relies on — domain separation instead comes from keyHash binding.
func SignDSA65(privateKey, data []byte) ([]byte, error) {
	if len(privateKey) != DSA65PrivateKeySize {
		return nil, fmt.Errorf("primitives: invalid ML-DSA-65 private key size: got %d, want %d", len(privateKey), DSA65PrivateKeySize)
	}
	var priv mldsa65.PrivateKey
	if err := priv.UnmarshalBinary(privateKey); err != nil {
		return nil, fmt.Errorf("primitives: unmarshal ML-DSA-65 private key: %w", err)
	}
	sig := make([]byte, DSA65SignatureSize)
	if err := mldsa65.SignTo(&priv, data, nil, false, sig); err != nil {
		return nil, fmt.Errorf("primitives: ML-DSA-65 sign: %w", err)
	}
	return sig, nil
}

// VerifyDSA65 verifies an ML-DSA-65 signature over data.
func VerifyDSA65(publicKey, data, signature []byte) (bool, error) {
	if len(publicKey) != DSA65PublicKeySize {
		return false, fmt.Errorf("primitives: invalid ML-DSA-65 public key size: got %d, want %d", len(publicKey), DSA65PublicKeySize)
	}
	if len(signature) != DSA65SignatureSize {
		return false, fmt.Errorf("primitives: invalid ML-DSA-65 signature size: got %d, want %d", len(signature), DSA65SignatureSize)
	}
	var pub mldsa65.PublicKey
	if err := pub.UnmarshalBinary(publicKey); err != nil {
		return false, fmt.Errorf("primitives: unmarshal ML-DSA-65 public key: %w", err)
	}
	return mldsa65.Verify(&pub, data, nil, signature), nil
}

// SignDSA87 signs data with an ML-DSA-87 private key (master key class).
func SignDSA87(privateKey, data []byte) ([]byte, error) {
	if len(privateKey) != DSA87PrivateKeySize {
		return nil, fmt.Errorf("primitives: invalid ML-DSA-87 private key size: got %d, want %d", len(privateKey), DSA87PrivateKeySize)
	}
	var priv mldsa87.PrivateKey
	if err := priv.UnmarshalBinary(privateKey); err != nil {
		return nil, fmt.Errorf("primitives: unmarshal ML-DSA-87 private key: %w", err)
	}
	sig := make([]byte, DSA87SignatureSize)
	if err := mldsa87.SignTo(&priv, data, nil, false, sig); err != nil {
		return nil, fmt.Errorf("primitives: ML-DSA-87 sign: %w", err)
	}
	return sig, nil
}

// VerifyDSA87 verifies an ML-DSA-87 signature over data.
func VerifyDSA87(publicKey, data, signature []byte) (bool, error) {
	if len(publicKey) != DSA87PublicKeySize {
		return false, fmt.Errorf("primitives: invalid ML-DSA-87 public key size: got %d, want %d", len(publicKey), DSA87PublicKeySize)
	}
	if len(signature) != DSA87SignatureSize {
		return false, fmt.Errorf("primitives: invalid ML-DSA-87 signature size: got %d, want %d", len(signature), DSA87SignatureSize)
	}
	var pub mldsa87.PublicKey
	if err := pub.UnmarshalBinary(publicKey); err != nil {
		return false, fmt.Errorf("primitives: unmarshal ML-DSA-87 public key: %w", err)
	}
	return mldsa87.Verify(&pub, data, nil, signature), nil
}

package keys

import (
	"fmt"

	"github.com/kindlyrobotics/pqe2e/codec"
	"github.com/kindlyrobotics/pqe2e/envelope"
	"github.com/kindlyrobotics/pqe2e/errs"
	"github.com/kindlyrobotics/pqe2e/primitives"
)

// hybridEncrypt implements the KEM+AEAD envelope shared by account, share,
// and migrate keys: ML-KEM-768 encapsulate to a fresh shared secret, then
// AES-256-GCM-seal plaintext under it. Factored once, per the envelope
// shape's own "factor once" precedent, instead of one copy per key kind.
func hybridEncrypt(recipientPublicJSON string, recipientKeyRaw []byte, keyType string, plaintext []byte) (string, error) {
	encap, err := primitives.Encapsulate(recipientKeyRaw)
	if err != nil {
		return "", fmt.Errorf("keys: encapsulate: %w", err)
	}
	defer primitives.Zero(encap.SharedKey)

	ciphertext, iv, err := primitives.AESGCMEncrypt(encap.SharedKey, plaintext)
	if err != nil {
		return "", fmt.Errorf("keys: seal: %w", err)
	}

	return envelope.EmitAsymEnvelope(
		keyType,
		codec.KeyHash(recipientPublicJSON),
		codec.EncodeB64(ciphertext),
		codec.EncodeB64(iv),
		codec.EncodeB64(encap.Ciphertext),
	), nil
}

// hybridDecrypt is the inverse of hybridEncrypt: validate the envelope,
// decapsulate with the recipient's private key, then open the AEAD
// ciphertext. wantKeyType restricts which envelope keyType is accepted, so
// an account-encrypted envelope can't be fed to share-key decryption.
func hybridDecrypt(recipientPrivateKeyRaw []byte, envelopeJSON string, wantKeyType string) ([]byte, error) {
	env, err := envelope.ParseAsymEnvelope(envelopeJSON)
	if err != nil {
		return nil, fmt.Errorf("keys: parse asymmetric envelope: %w", errs.ErrInputInvalid)
	}
	if env.KeyType != wantKeyType {
		return nil, fmt.Errorf("keys: asymmetric envelope keyType %q is not %q: %w", env.KeyType, wantKeyType, errs.ErrBindingFailure)
	}

	sharedKey, err := primitives.Decapsulate(recipientPrivateKeyRaw, env.CipherText)
	if err != nil {
		return nil, fmt.Errorf("keys: decapsulate: %w", errs.ErrAuthFailure)
	}
	defer primitives.Zero(sharedKey)

	plaintext, err := primitives.AESGCMDecrypt(sharedKey, env.IV, env.EncryptedData)
	if err != nil {
		return nil, fmt.Errorf("keys: open: %w", errs.ErrAuthFailure)
	}
	return plaintext, nil
}

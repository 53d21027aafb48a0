package keys

import (
	"fmt"

	"github.com/kindlyrobotics/pqe2e/codec"
	"github.com/kindlyrobotics/pqe2e/envelope"
	"github.com/kindlyrobotics/pqe2e/errs"
	"github.com/kindlyrobotics/pqe2e/primitives"
)

// symmetricEncrypt implements the AEAD-only envelope shared by room and
// device keys: AES-256-GCM-seal plaintext under the raw key, no KEM step.
// keyJSON is the symmetric key's own JSON string, since room/device keys
// have no separate public half to hash.
func symmetricEncrypt(keyJSON string, keyRaw []byte, keyType string, plaintext []byte) (string, error) {
	ciphertext, iv, err := primitives.AESGCMEncrypt(keyRaw, plaintext)
	if err != nil {
		return "", fmt.Errorf("keys: seal: %w", err)
	}
	return envelope.EmitSymEnvelope(keyType, codec.KeyHash(keyJSON), codec.EncodeB64(ciphertext), codec.EncodeB64(iv)), nil
}

// symmetricDecrypt is the inverse of symmetricEncrypt.
func symmetricDecrypt(keyRaw []byte, envelopeJSON string, wantKeyType string) ([]byte, error) {
	env, err := envelope.ParseSymEnvelope(envelopeJSON)
	if err != nil {
		return nil, fmt.Errorf("keys: parse symmetric envelope: %w", errs.ErrInputInvalid)
	}
	if env.KeyType != wantKeyType {
		return nil, fmt.Errorf("keys: symmetric envelope keyType %q is not %q: %w", env.KeyType, wantKeyType, errs.ErrBindingFailure)
	}

	plaintext, err := primitives.AESGCMDecrypt(keyRaw, env.IV, env.EncryptedData)
	if err != nil {
		return nil, fmt.Errorf("keys: open: %w", errs.ErrAuthFailure)
	}
	return plaintext, nil
}

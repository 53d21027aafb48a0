package keys

import (
	"fmt"

	"github.com/kindlyrobotics/pqe2e/codec"
	"github.com/kindlyrobotics/pqe2e/envelope"
	"github.com/kindlyrobotics/pqe2e/errs"
	"github.com/kindlyrobotics/pqe2e/primitives"
)

// GenerateDeviceKey generates a fresh 32-byte symmetric device key. Device
// keys carry no timestamp or sessionUuid and are never master-signed.
func GenerateDeviceKey() (string, error) {
	raw, err := primitives.GenerateAESKey()
	if err != nil {
		return "", fmt.Errorf("keys: generate device key: %w", err)
	}
	return envelope.EmitDeviceKey(codec.EncodeB64(raw)), nil
}

// ValidateDeviceKey is the structural validator for a device key JSON string.
func ValidateDeviceKey(deviceKeyJSON string) bool {
	return envelope.IsValidDeviceKey(deviceKeyJSON)
}

// EncryptDataDeviceKey encrypts plaintext under a device key.
func EncryptDataDeviceKey(deviceKeyJSON string, plaintext []byte) (string, error) {
	parsed, err := envelope.ParseDeviceKey(deviceKeyJSON)
	if err != nil {
		return "", fmt.Errorf("keys: parse device key: %w", errs.ErrInputInvalid)
	}
	return symmetricEncrypt(deviceKeyJSON, parsed.KeyRaw, envelope.EncKeyDevice, plaintext)
}

// DecryptDataDeviceKey decrypts a symmetric envelope produced by
// EncryptDataDeviceKey.
func DecryptDataDeviceKey(deviceKeyJSON string, envelopeJSON string) ([]byte, error) {
	parsed, err := envelope.ParseDeviceKey(deviceKeyJSON)
	if err != nil {
		return nil, fmt.Errorf("keys: parse device key: %w", errs.ErrInputInvalid)
	}
	return symmetricDecrypt(parsed.KeyRaw, envelopeJSON, envelope.EncKeyDevice)
}

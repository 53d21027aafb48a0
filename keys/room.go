package keys

import (
	"fmt"

	"github.com/kindlyrobotics/pqe2e/codec"
	"github.com/kindlyrobotics/pqe2e/envelope"
	"github.com/kindlyrobotics/pqe2e/errs"
	"github.com/kindlyrobotics/pqe2e/primitives"
)

// GenerateRoomKey generates a fresh 32-byte symmetric room key scoped to
// sessionUUID.
func GenerateRoomKey(sessionUUID string, timestamp int64) (string, error) {
	raw, err := primitives.GenerateAESKey()
	if err != nil {
		return "", fmt.Errorf("keys: generate room key: %w", err)
	}
	return envelope.EmitRoomKey(codec.EncodeB64(raw), timestamp, sessionUUID), nil
}

// ValidateRoomKey is the structural validator for a room key JSON string.
func ValidateRoomKey(roomKeyJSON string) bool {
	return envelope.IsValidRoomKey(roomKeyJSON)
}

// EncryptDataRoomKey encrypts plaintext under a room key using the
// symmetric AEAD envelope: AES-GCM-seal plaintext directly under the raw
// room key, no KEM step.
func EncryptDataRoomKey(roomKeyJSON string, plaintext []byte) (string, error) {
	parsed, err := envelope.ParseRoomKey(roomKeyJSON)
	if err != nil {
		return "", fmt.Errorf("keys: parse room key: %w", errs.ErrInputInvalid)
	}
	return symmetricEncrypt(roomKeyJSON, parsed.KeyRaw, envelope.EncKeyRoom, plaintext)
}

// DecryptDataRoomKey decrypts a symmetric envelope produced by
// EncryptDataRoomKey.
func DecryptDataRoomKey(roomKeyJSON string, envelopeJSON string) ([]byte, error) {
	parsed, err := envelope.ParseRoomKey(roomKeyJSON)
	if err != nil {
		return nil, fmt.Errorf("keys: parse room key: %w", errs.ErrInputInvalid)
	}
	return symmetricDecrypt(parsed.KeyRaw, envelopeJSON, envelope.EncKeyRoom)
}

// RoomKeyHash returns keyHash(roomKeyJSON).
func RoomKeyHash(roomKeyJSON string) string {
	return codec.KeyHash(roomKeyJSON)
}

package message

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/kindlyrobotics/pqe2e/keys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionUUID = "018fdb31-0798-78a2-b4c9-e145d5b5b88e"
const roomID = "018fdb31-0798-78a2-b4c9-e145d5b5b88e"

func nowMillis() int64 {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
}

func setup(t *testing.T) (roomKeyJSON string, identity *keys.IdentityKeyPair) {
	t.Helper()
	master, err := keys.GenerateMasterKeyPair()
	require.NoError(t, err)
	identity, err = keys.GenerateIdentityKeyPair(sessionUUID, nowMillis(), master.PublicJSON, master.PrivateJSON)
	require.NoError(t, err)
	roomKeyJSON, err = keys.GenerateRoomKey(sessionUUID, nowMillis())
	require.NoError(t, err)
	return roomKeyJSON, identity
}

func TestEncryptDecryptMessageRoundTrip(t *testing.T) {
	roomKeyJSON, identity := setup(t)
	now := nowMillis()

	value := Value{Type: ContentText, Content: `"hello"`}
	metadata := Metadata{Channel: "c", Timestamp: now, IsLarge: false}

	signed, err := EncryptMessage(value, metadata, roomKeyJSON, identity.PrivateJSON, identity.PublicJSON, roomID)
	require.NoError(t, err)
	assert.True(t, IsValidMessage(signed.Message))

	decrypted, err := DecryptMessage(*signed, ServerData{Timestamp: now}, roomKeyJSON, identity.PublicJSON, roomID)
	require.NoError(t, err)
	assert.False(t, decrypted.Encrypted)
	assert.Equal(t, roomID, decrypted.RoomID)

	var inner Value
	require.NoError(t, json.Unmarshal([]byte(decrypted.Value), &inner))
	assert.Equal(t, ContentText, inner.Type)
	assert.Equal(t, `"hello"`, inner.Content)
}

func TestDecryptMessageRejectsTimestampOutsideWindow(t *testing.T) {
	roomKeyJSON, identity := setup(t)
	now := nowMillis()

	value := Value{Type: ContentText, Content: `"hello"`}
	metadata := Metadata{Channel: "c", Timestamp: now, IsLarge: false}

	signed, err := EncryptMessage(value, metadata, roomKeyJSON, identity.PrivateJSON, identity.PublicJSON, roomID)
	require.NoError(t, err)

	_, err = DecryptMessage(*signed, ServerData{Timestamp: now}, roomKeyJSON, identity.PublicJSON, roomID)
	require.NoError(t, err)

	_, err = DecryptMessage(*signed, ServerData{Timestamp: now + FreshnessWindowMillis}, roomKeyJSON, identity.PublicJSON, roomID)
	assert.NoError(t, err)

	_, err = DecryptMessage(*signed, ServerData{Timestamp: now + FreshnessWindowMillis + 1}, roomKeyJSON, identity.PublicJSON, roomID)
	assert.Error(t, err)
}

func TestDecryptMessageRejectsRoomIDMismatch(t *testing.T) {
	roomKeyJSON, identity := setup(t)
	now := nowMillis()

	value := Value{Type: ContentText, Content: `"hello"`}
	metadata := Metadata{Channel: "c", Timestamp: now, IsLarge: false}

	signed, err := EncryptMessage(value, metadata, roomKeyJSON, identity.PrivateJSON, identity.PublicJSON, roomID)
	require.NoError(t, err)

	_, err = DecryptMessage(*signed, ServerData{Timestamp: now}, roomKeyJSON, identity.PublicJSON, "018fdb31-0798-78a2-b4c9-e145d5b5b800")
	assert.Error(t, err)
}

func TestEncryptMessageRejectsChannelBoundary(t *testing.T) {
	roomKeyJSON, identity := setup(t)
	now := nowMillis()
	value := Value{Type: ContentText, Content: `"hi"`}

	okChannel := strings.Repeat("a", 100)
	_, err := EncryptMessage(value, Metadata{Channel: okChannel, Timestamp: now}, roomKeyJSON, identity.PrivateJSON, identity.PublicJSON, roomID)
	require.NoError(t, err)

	tooLong := strings.Repeat("a", 101)
	_, err = EncryptMessage(value, Metadata{Channel: tooLong, Timestamp: now}, roomKeyJSON, identity.PrivateJSON, identity.PublicJSON, roomID)
	assert.Error(t, err)
}

func TestDecryptMessageRejectsTamperedSignature(t *testing.T) {
	roomKeyJSON, identity := setup(t)
	now := nowMillis()
	value := Value{Type: ContentText, Content: `"hi"`}

	signed, err := EncryptMessage(value, Metadata{Channel: "c", Timestamp: now}, roomKeyJSON, identity.PrivateJSON, identity.PublicJSON, roomID)
	require.NoError(t, err)

	tampered := Signed{Message: signed.Message + " ", Sign: signed.Sign}
	_, err = DecryptMessage(tampered, ServerData{Timestamp: now}, roomKeyJSON, identity.PublicJSON, roomID)
	assert.Error(t, err)
}

func TestIsValidMessageNeverPanics(t *testing.T) {
	garbage := []string{"", "{", "null", "[]", `{"encrypted":1}`, strings.Repeat("x", 10000)}
	for _, g := range garbage {
		assert.NotPanics(t, func() { IsValidMessage(g) })
	}
}

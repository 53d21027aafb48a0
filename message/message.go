// Package message implements the message envelope: an inner cleartext
// value, an outer envelope that couples room-key encryption with
// identity-key signing, and the structural validator for both.
package message

import (
	"encoding/json"
	"fmt"

	"github.com/kindlyrobotics/pqe2e/envelope"
	"github.com/kindlyrobotics/pqe2e/errs"
	"github.com/kindlyrobotics/pqe2e/keys"
)

// MaxChannelLen is the channel field's length ceiling: 100 characters are
// accepted, 101 or more are rejected.
const MaxChannelLen = 100

// FreshnessWindowMillis is the message timestamp's allowed distance from
// serverData.timestamp: a skew of 60000ms is accepted, 60001ms or more is
// rejected.
const FreshnessWindowMillis = 60000

// Content kinds allowed in a message's inner value.
const (
	ContentText      = "text"
	ContentImage     = "image"
	ContentVideo     = "video"
	ContentAudio     = "audio"
	ContentFile      = "file"
	ContentThumbnail = "thumbnail"
)

var contentKinds = []string{ContentText, ContentImage, ContentVideo, ContentAudio, ContentFile, ContentThumbnail}

// Reply is the optional reply reference carried by a message value.
type Reply struct {
	ID string `json:"id"`
}

// Value is the message's inner cleartext value; it becomes the room-key
// plaintext when the outer envelope is encrypted.
type Value struct {
	Type    string   `json:"type"`
	Content string   `json:"content"`
	Reply   *Reply   `json:"reply,omitempty"`
	Mention []string `json:"mention,omitempty"`
}

// Outer is the message envelope exchanged between peers.
type Outer struct {
	Encrypted bool    `json:"encrypted"`
	Value     string  `json:"value"`
	Channel   string  `json:"channel"`
	Timestamp int64   `json:"timestamp"`
	IsLarge   bool    `json:"isLarge"`
	Original  *string `json:"original,omitempty"`
	RoomID    string  `json:"roomid"`
}

// Metadata is the caller-supplied non-value fields of an outgoing message.
type Metadata struct {
	Channel   string
	Timestamp int64
	IsLarge   bool
	Original  *string
}

// ServerData carries the server-provided freshness anchor.
type ServerData struct {
	Timestamp int64
}

// Signed is the {message, sign} pair EncryptMessage returns and
// DecryptMessage consumes.
type Signed struct {
	Message string
	Sign    string
}

// EncryptMessage encrypts value under roomKeyJSON, assembles the outer
// envelope from metadata and roomID, and signs the assembled message string
// with identity.
func EncryptMessage(value Value, metadata Metadata, roomKeyJSON string, identityPrivateJSON, identityPublicJSON string, roomID string) (*Signed, error) {
	if !keys.ValidateRoomKey(roomKeyJSON) {
		return nil, fmt.Errorf("message: invalid room key: %w", errs.ErrInputInvalid)
	}
	if !keys.ValidateIdentityPrivateKey(identityPrivateJSON) || !keys.ValidateIdentityPublicKey(identityPublicJSON) {
		return nil, fmt.Errorf("message: invalid identity key pair: %w", errs.ErrInputInvalid)
	}
	if len(metadata.Channel) > MaxChannelLen {
		return nil, fmt.Errorf("message: channel length %d exceeds %d: %w", len(metadata.Channel), MaxChannelLen, errs.ErrInputInvalid)
	}
	if !validContentKind(value.Type) {
		return nil, fmt.Errorf("message: unknown content kind %q: %w", value.Type, errs.ErrInputInvalid)
	}

	inner, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("message: marshal inner value: %w", err)
	}

	encryptedValue, err := keys.EncryptDataRoomKey(roomKeyJSON, inner)
	if err != nil {
		return nil, fmt.Errorf("message: encrypt inner value: %w", err)
	}

	outer := Outer{
		Encrypted: true,
		Value:     encryptedValue,
		Channel:   metadata.Channel,
		Timestamp: metadata.Timestamp,
		IsLarge:   metadata.IsLarge,
		Original:  metadata.Original,
		RoomID:    roomID,
	}
	messageBytes, err := json.Marshal(outer)
	if err != nil {
		return nil, fmt.Errorf("message: marshal outer envelope: %w", err)
	}
	messageStr := string(messageBytes)

	sign, err := keys.SignWithIdentityKey(identityPrivateJSON, messageBytes, keys.IdentityPublicKeyHash(identityPublicJSON))
	if err != nil {
		return nil, fmt.Errorf("message: sign message: %w", err)
	}

	return &Signed{Message: messageStr, Sign: sign}, nil
}

// DecryptMessage verifies signed.Sign, checks roomid/freshness guards, and
// (if encrypted) decrypts the inner value with roomKeyJSON.
func DecryptMessage(signed Signed, serverData ServerData, roomKeyJSON string, identityPublicJSON string, roomID string) (*Outer, error) {
	if !keys.ValidateIdentityPublicKey(identityPublicJSON) {
		return nil, fmt.Errorf("message: invalid identity public key: %w", errs.ErrInputInvalid)
	}

	var outer Outer
	if err := json.Unmarshal([]byte(signed.Message), &outer); err != nil {
		return nil, fmt.Errorf("message: parse message: %w", errs.ErrInputInvalid)
	}

	ok, err := keys.VerifyIdentityKey(identityPublicJSON, signed.Sign, []byte(signed.Message))
	if err != nil {
		return nil, fmt.Errorf("message: verify signature: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("message: signature does not verify: %w", errs.ErrAuthFailure)
	}

	if err := checkGuards(outer, serverData, roomID); err != nil {
		return nil, err
	}

	if !outer.Encrypted {
		return &outer, nil
	}

	if !keys.ValidateRoomKey(roomKeyJSON) {
		return nil, fmt.Errorf("message: invalid room key: %w", errs.ErrInputInvalid)
	}
	if !envelope.IsValidSymEnvelope(outer.Value) {
		return nil, fmt.Errorf("message: inner value is not a valid room-encrypted envelope: %w", errs.ErrInputInvalid)
	}

	plaintext, err := keys.DecryptDataRoomKey(roomKeyJSON, outer.Value)
	if err != nil {
		return nil, fmt.Errorf("message: decrypt inner value: %w", err)
	}

	var inner Value
	if err := json.Unmarshal(plaintext, &inner); err != nil {
		return nil, fmt.Errorf("message: parse decrypted inner value: %w", errs.ErrInputInvalid)
	}

	return &Outer{
		Encrypted: false,
		Value:     string(plaintext),
		Channel:   outer.Channel,
		Timestamp: outer.Timestamp,
		IsLarge:   outer.IsLarge,
		Original:  outer.Original,
		RoomID:    outer.RoomID,
	}, nil
}

func checkGuards(outer Outer, serverData ServerData, roomID string) error {
	if outer.RoomID != roomID {
		return fmt.Errorf("message: roomid mismatch: %w", errs.ErrBindingFailure)
	}
	diff := outer.Timestamp - serverData.Timestamp
	if diff < 0 {
		diff = -diff
	}
	if diff > FreshnessWindowMillis {
		return fmt.Errorf("message: timestamp %dms outside freshness window: %w", diff, errs.ErrFreshnessFailure)
	}
	return nil
}

func validContentKind(kind string) bool {
	for _, k := range contentKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// IsValidMessage is the structural validator for a message string: it
// never panics, only returns a boolean.
func IsValidMessage(messageString string) bool {
	var outer Outer
	if err := json.Unmarshal([]byte(messageString), &outer); err != nil {
		return false
	}
	if len(outer.Channel) > MaxChannelLen {
		return false
	}
	if outer.RoomID == "" {
		return false
	}

	if outer.Encrypted {
		return envelope.IsValidSymEnvelope(outer.Value)
	}

	var inner Value
	if err := json.Unmarshal([]byte(outer.Value), &inner); err != nil {
		return false
	}
	if !validContentKind(inner.Type) {
		return false
	}
	if !json.Valid([]byte(inner.Content)) {
		return false
	}
	if inner.Reply != nil && inner.Reply.ID == "" {
		return false
	}
	return true
}

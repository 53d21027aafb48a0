// Package roomkey implements room-key distribution to a set of recipients:
// wrap a room key to each recipient's account public key, and sign the
// resulting metadata and room key with the distributing identity.
package roomkey

import (
	"fmt"

	"github.com/kindlyrobotics/pqe2e/crosssign"
	"github.com/kindlyrobotics/pqe2e/errs"
	"github.com/kindlyrobotics/pqe2e/keys"
)

// Recipient is one row of the distribution list passed to
// EncryptRoomKeyWithAccountKeys.
type Recipient struct {
	UserID          string
	MasterPublicKey string // masterPub JSON
	AccountKeyPub   string // accountKeyPub JSON
	AccountKeySign  string // master signature envelope over AccountKeyPub, required when Verify is true
	Verify          bool
}

// SharedUser is one row of the metadata's sharedUser list.
type SharedUser struct {
	UserID               string `json:"userId"`
	MasterKeyHash        string `json:"masterKeyHash"`
	AccountKeyTimeStamp  int64  `json:"accountKeyTimeStamp"`
}

// Metadata is the distribution metadata signed alongside the room key.
type Metadata struct {
	RoomKeyHash string       `json:"roomKeyHash"`
	SharedUser  []SharedUser `json:"sharedUser"`
}

// EncryptedRecipient is one row of the distribution's encryptedData list.
type EncryptedRecipient struct {
	UserID        string `json:"userId"`
	EncryptedData string `json:"encryptedData"`
}

// Distribution is the full result of EncryptRoomKeyWithAccountKeys.
type Distribution struct {
	Metadata      Metadata             `json:"metadata"`
	MetadataSign  string               `json:"metadataSign"`
	EncryptedData []EncryptedRecipient `json:"encryptedData"`
	Sign          string               `json:"sign"`
}

// EncryptRoomKeyWithAccountKeys wraps roomKeyJSON to every recipient's
// account public key, builds and signs the distribution metadata, and signs
// the room key itself, all under identityPrivateJSON/identityPublicJSON.
//
// Recipients and their encrypted-data rows are emitted in input order;
// ties are stable since no reordering occurs.
func EncryptRoomKeyWithAccountKeys(recipients []Recipient, roomKeyJSON string, identityPrivateJSON, identityPublicJSON string) (*Distribution, error) {
	if !keys.ValidateRoomKey(roomKeyJSON) {
		return nil, fmt.Errorf("roomkey: invalid room key: %w", errs.ErrInputInvalid)
	}
	if !keys.ValidateIdentityPrivateKey(identityPrivateJSON) || !keys.ValidateIdentityPublicKey(identityPublicJSON) {
		return nil, fmt.Errorf("roomkey: invalid identity key pair: %w", errs.ErrInputInvalid)
	}

	sharedUsers := make([]SharedUser, 0, len(recipients))
	encryptedRows := make([]EncryptedRecipient, 0, len(recipients))

	for _, r := range recipients {
		if !keys.ValidateAccountPublicKey(r.AccountKeyPub) {
			return nil, fmt.Errorf("roomkey: recipient %s: invalid account public key: %w", r.UserID, errs.ErrInputInvalid)
		}
		if r.Verify {
			if err := crosssign.VerifySubkey(r.MasterPublicKey, r.AccountKeyPub, r.AccountKeySign); err != nil {
				return nil, fmt.Errorf("roomkey: recipient %s: %w", r.UserID, err)
			}
		}

		enc, err := keys.EncryptDataAccountKey(r.AccountKeyPub, []byte(roomKeyJSON))
		if err != nil {
			return nil, fmt.Errorf("roomkey: recipient %s: encrypt room key: %w", r.UserID, err)
		}
		encryptedRows = append(encryptedRows, EncryptedRecipient{UserID: r.UserID, EncryptedData: enc})

		accountKeyTimestamp, err := accountKeyTimestamp(r.AccountKeyPub)
		if err != nil {
			return nil, fmt.Errorf("roomkey: recipient %s: %w", r.UserID, err)
		}

		sharedUsers = append(sharedUsers, SharedUser{
			UserID:              r.UserID,
			MasterKeyHash:       keys.MasterPublicKeyHash(r.MasterPublicKey),
			AccountKeyTimeStamp: accountKeyTimestamp,
		})
	}

	metadata := Metadata{
		RoomKeyHash: keys.RoomKeyHash(roomKeyJSON),
		SharedUser:  sharedUsers,
	}

	identityPubHash := keys.IdentityPublicKeyHash(identityPublicJSON)

	metadataJSON, err := marshalMetadata(metadata)
	if err != nil {
		return nil, fmt.Errorf("roomkey: marshal metadata: %w", err)
	}
	metadataSign, err := keys.SignWithIdentityKey(identityPrivateJSON, metadataJSON, identityPubHash)
	if err != nil {
		return nil, fmt.Errorf("roomkey: sign metadata: %w", err)
	}

	sign, err := keys.SignWithIdentityKey(identityPrivateJSON, []byte(roomKeyJSON), identityPubHash)
	if err != nil {
		return nil, fmt.Errorf("roomkey: sign room key: %w", err)
	}

	return &Distribution{
		Metadata:      metadata,
		MetadataSign:  metadataSign,
		EncryptedData: encryptedRows,
		Sign:          sign,
	}, nil
}

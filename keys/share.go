package keys

import (
	"fmt"

	"github.com/kindlyrobotics/pqe2e/codec"
	"github.com/kindlyrobotics/pqe2e/envelope"
	"github.com/kindlyrobotics/pqe2e/errs"
	"github.com/kindlyrobotics/pqe2e/primitives"
)

// ShareKeyPair is a generated share key: ML-KEM-768, scoped to a session,
// cross-signed by a master key. Used for out-of-band key sharing (account
// key is for room-key distribution; share key is the analogous recipient
// key for sharing arbitrary data to one session).
type ShareKeyPair struct {
	PublicJSON  string
	PrivateJSON string
	MasterSign  string
}

// GenerateShareKeyPair generates an ML-KEM-768 key pair for sessionUUID and
// signs the public half with masterPrivateJSON.
func GenerateShareKeyPair(sessionUUID string, timestamp int64, masterPublicJSON, masterPrivateJSON string) (*ShareKeyPair, error) {
	kp, err := primitives.GenerateKEMKeyPair()
	if err != nil {
		return nil, fmt.Errorf("keys: generate share key pair: %w", err)
	}
	defer primitives.Zero(kp.PrivateKey)

	pubJSON := envelope.EmitSharePublicKey(codec.EncodeB64(kp.PublicKey), timestamp, sessionUUID)
	privJSON := envelope.EmitSharePrivateKey(codec.EncodeB64(kp.PrivateKey), timestamp, sessionUUID)

	sign, err := SignWithMasterKey(masterPrivateJSON, []byte(pubJSON), MasterPublicKeyHash(masterPublicJSON))
	if err != nil {
		return nil, fmt.Errorf("keys: master-sign share public key: %w", err)
	}

	return &ShareKeyPair{PublicJSON: pubJSON, PrivateJSON: privJSON, MasterSign: sign}, nil
}

// ValidateSharePublicKey is the structural validator for a share public key
// JSON string.
func ValidateSharePublicKey(publicJSON string) bool {
	return envelope.IsValidSharePublicKey(publicJSON)
}

// ValidateSharePrivateKey is the structural validator for a share private
// key JSON string.
func ValidateSharePrivateKey(privateJSON string) bool {
	return envelope.IsValidSharePrivateKey(privateJSON)
}

// EncryptDataShareKey encrypts plaintext to a share public key.
func EncryptDataShareKey(publicJSON string, plaintext []byte) (string, error) {
	pub, err := envelope.ParseSharePublicKey(publicJSON)
	if err != nil {
		return "", fmt.Errorf("keys: parse share public key: %w", errs.ErrInputInvalid)
	}
	return hybridEncrypt(publicJSON, pub.KeyRaw, envelope.EncKeyShare, plaintext)
}

// DecryptDataShareKey decrypts an asymmetric envelope produced by
// EncryptDataShareKey, using a share private key.
func DecryptDataShareKey(privateJSON string, envelopeJSON string) ([]byte, error) {
	priv, err := envelope.ParseSharePrivateKey(privateJSON)
	if err != nil {
		return nil, fmt.Errorf("keys: parse share private key: %w", errs.ErrInputInvalid)
	}
	return hybridDecrypt(priv.KeyRaw, envelopeJSON, envelope.EncKeyShare)
}

// SharePublicKeyHash returns keyHash(sharePublicJSON).
func SharePublicKeyHash(publicJSON string) string {
	return codec.KeyHash(publicJSON)
}

package keys

import (
	"fmt"

	"github.com/kindlyrobotics/pqe2e/codec"
	"github.com/kindlyrobotics/pqe2e/envelope"
	"github.com/kindlyrobotics/pqe2e/errs"
	"github.com/kindlyrobotics/pqe2e/primitives"
)

// AccountKeyPair is a generated account key: ML-KEM-768, cross-signed by a
// master key. Account keys are the recipient key for room-key distribution.
type AccountKeyPair struct {
	PublicJSON  string
	PrivateJSON string
	MasterSign  string
}

// GenerateAccountKeyPair generates an ML-KEM-768 key pair and signs the
// public half with masterPrivateJSON.
func GenerateAccountKeyPair(timestamp int64, masterPublicJSON, masterPrivateJSON string) (*AccountKeyPair, error) {
	kp, err := primitives.GenerateKEMKeyPair()
	if err != nil {
		return nil, fmt.Errorf("keys: generate account key pair: %w", err)
	}
	defer primitives.Zero(kp.PrivateKey)

	pubJSON := envelope.EmitAccountPublicKey(codec.EncodeB64(kp.PublicKey), timestamp)
	privJSON := envelope.EmitAccountPrivateKey(codec.EncodeB64(kp.PrivateKey), timestamp)

	sign, err := SignWithMasterKey(masterPrivateJSON, []byte(pubJSON), MasterPublicKeyHash(masterPublicJSON))
	if err != nil {
		return nil, fmt.Errorf("keys: master-sign account public key: %w", err)
	}

	return &AccountKeyPair{PublicJSON: pubJSON, PrivateJSON: privJSON, MasterSign: sign}, nil
}

// ValidateAccountPublicKey is the structural validator for an account public
// key JSON string.
func ValidateAccountPublicKey(publicJSON string) bool {
	return envelope.IsValidAccountPublicKey(publicJSON)
}

// ValidateAccountPrivateKey is the structural validator for an account
// private key JSON string.
func ValidateAccountPrivateKey(privateJSON string) bool {
	return envelope.IsValidAccountPrivateKey(privateJSON)
}

// EncryptDataAccountKey encrypts plaintext to an account public key using
// the hybrid KEM+AEAD envelope: KEM-encapsulate to the recipient, then
// AES-GCM-seal plaintext under the resulting shared secret.
func EncryptDataAccountKey(publicJSON string, plaintext []byte) (string, error) {
	pub, err := envelope.ParseAccountPublicKey(publicJSON)
	if err != nil {
		return "", fmt.Errorf("keys: parse account public key: %w", errs.ErrInputInvalid)
	}
	return hybridEncrypt(publicJSON, pub.KeyRaw, envelope.EncKeyAccount, plaintext)
}

// DecryptDataAccountKey decrypts an asymmetric envelope produced by
// EncryptDataAccountKey, using an account private key.
func DecryptDataAccountKey(privateJSON string, envelopeJSON string) ([]byte, error) {
	priv, err := envelope.ParseAccountPrivateKey(privateJSON)
	if err != nil {
		return nil, fmt.Errorf("keys: parse account private key: %w", errs.ErrInputInvalid)
	}
	return hybridDecrypt(priv.KeyRaw, envelopeJSON, envelope.EncKeyAccount)
}

// AccountPublicKeyHash returns keyHash(accountPublicJSON).
func AccountPublicKeyHash(publicJSON string) string {
	return codec.KeyHash(publicJSON)
}

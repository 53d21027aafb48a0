package keys

import (
	"fmt"

	"github.com/kindlyrobotics/pqe2e/codec"
	"github.com/kindlyrobotics/pqe2e/envelope"
	"github.com/kindlyrobotics/pqe2e/errs"
	"github.com/kindlyrobotics/pqe2e/primitives"
)

// MigrateKeyPair is a generated migrate key: ML-KEM-768, used to KEM-wrap
// data during account migration. Unlike account/share keys it carries no
// master signature and no sessionUuid binding.
type MigrateKeyPair struct {
	PublicJSON  string
	PrivateJSON string
}

// GenerateMigrateKeyPair generates a stand-alone ML-KEM-768 key pair.
// timestamp is optional and omitted from the emitted JSON when nil.
func GenerateMigrateKeyPair(timestamp *int64) (*MigrateKeyPair, error) {
	kp, err := primitives.GenerateKEMKeyPair()
	if err != nil {
		return nil, fmt.Errorf("keys: generate migrate key pair: %w", err)
	}
	defer primitives.Zero(kp.PrivateKey)

	return &MigrateKeyPair{
		PublicJSON:  envelope.EmitMigratePublicKey(codec.EncodeB64(kp.PublicKey), timestamp),
		PrivateJSON: envelope.EmitMigratePrivateKey(codec.EncodeB64(kp.PrivateKey), timestamp),
	}, nil
}

// ValidateMigratePublicKey is the structural validator for a migrate public
// key JSON string.
func ValidateMigratePublicKey(publicJSON string) bool {
	return envelope.IsValidMigratePublicKey(publicJSON)
}

// ValidateMigratePrivateKey is the structural validator for a migrate
// private key JSON string.
func ValidateMigratePrivateKey(privateJSON string) bool {
	return envelope.IsValidMigratePrivateKey(privateJSON)
}

// EncryptDataMigrateKey encrypts plaintext to a migrate public key.
func EncryptDataMigrateKey(publicJSON string, plaintext []byte) (string, error) {
	pub, err := envelope.ParseMigratePublicKey(publicJSON)
	if err != nil {
		return "", fmt.Errorf("keys: parse migrate public key: %w", errs.ErrInputInvalid)
	}
	return hybridEncrypt(publicJSON, pub.KeyRaw, envelope.EncKeyMigrate, plaintext)
}

// DecryptDataMigrateKey decrypts an asymmetric envelope produced by
// EncryptDataMigrateKey, using a migrate private key.
func DecryptDataMigrateKey(privateJSON string, envelopeJSON string) ([]byte, error) {
	priv, err := envelope.ParseMigratePrivateKey(privateJSON)
	if err != nil {
		return nil, fmt.Errorf("keys: parse migrate private key: %w", errs.ErrInputInvalid)
	}
	return hybridDecrypt(priv.KeyRaw, envelopeJSON, envelope.EncKeyMigrate)
}

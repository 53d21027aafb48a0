package keys

import (
	"fmt"

	"github.com/kindlyrobotics/pqe2e/codec"
	"github.com/kindlyrobotics/pqe2e/envelope"
	"github.com/kindlyrobotics/pqe2e/errs"
	"github.com/kindlyrobotics/pqe2e/primitives"
)

// MigrateSignKeyPair is a generated migrate-sign key: ML-DSA-65, used to
// sign migration assertions. Stand-alone, like migrate: no master
// signature, no sessionUuid binding.
type MigrateSignKeyPair struct {
	PublicJSON  string
	PrivateJSON string
}

// GenerateMigrateSignKeyPair generates a stand-alone ML-DSA-65 key pair.
func GenerateMigrateSignKeyPair(timestamp *int64) (*MigrateSignKeyPair, error) {
	kp, err := primitives.GenerateDSA65KeyPair()
	if err != nil {
		return nil, fmt.Errorf("keys: generate migrate-sign key pair: %w", err)
	}
	defer primitives.Zero(kp.PrivateKey)

	return &MigrateSignKeyPair{
		PublicJSON:  envelope.EmitMigrateSignPublicKey(codec.EncodeB64(kp.PublicKey), timestamp),
		PrivateJSON: envelope.EmitMigrateSignPrivateKey(codec.EncodeB64(kp.PrivateKey), timestamp),
	}, nil
}

// ValidateMigrateSignPublicKey is the structural validator for a
// migrate-sign public key JSON string.
func ValidateMigrateSignPublicKey(publicJSON string) bool {
	return envelope.IsValidMigrateSignPublicKey(publicJSON)
}

// ValidateMigrateSignPrivateKey is the structural validator for a
// migrate-sign private key JSON string.
func ValidateMigrateSignPrivateKey(privateJSON string) bool {
	return envelope.IsValidMigrateSignPrivateKey(privateJSON)
}

// SignWithMigrateSignKey signs data with a migrate-sign private key.
func SignWithMigrateSignKey(privateJSON string, data []byte, migrateSignPubKeyHash string) (string, error) {
	parsed, err := envelope.ParseMigrateSignPrivateKey(privateJSON)
	if err != nil {
		return "", fmt.Errorf("keys: parse migrate-sign private key: %w", errs.ErrInputInvalid)
	}

	sig, err := primitives.SignDSA65(parsed.KeyRaw, data)
	if err != nil {
		return "", fmt.Errorf("keys: migrate-sign sign: %w", err)
	}

	return envelope.EmitSignatureEnvelope(envelope.SignerMigrateSignKey, migrateSignPubKeyHash, codec.EncodeB64(sig), envelope.AlgorithmMLDSA65), nil
}

// VerifyMigrateSignKey verifies a signature envelope produced by
// SignWithMigrateSignKey.
func VerifyMigrateSignKey(publicJSON string, sigEnvelopeJSON string, data []byte) (bool, error) {
	pub, err := envelope.ParseMigrateSignPublicKey(publicJSON)
	if err != nil {
		return false, fmt.Errorf("keys: parse migrate-sign public key: %w", errs.ErrInputInvalid)
	}

	sigEnv, err := envelope.ParseSignatureEnvelope(sigEnvelopeJSON)
	if err != nil {
		return false, fmt.Errorf("keys: parse signature envelope: %w", errs.ErrInputInvalid)
	}
	if sigEnv.KeyType != envelope.SignerMigrateSignKey {
		return false, fmt.Errorf("keys: signature envelope keyType %q is not %q: %w", sigEnv.KeyType, envelope.SignerMigrateSignKey, errs.ErrBindingFailure)
	}

	ok, err := primitives.VerifyDSA65(pub.KeyRaw, data, sigEnv.Signature)
	if err != nil {
		return false, fmt.Errorf("keys: migrate-sign verify: %w", err)
	}
	return ok, nil
}

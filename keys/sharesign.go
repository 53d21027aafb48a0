package keys

import (
	"fmt"

	"github.com/kindlyrobotics/pqe2e/codec"
	"github.com/kindlyrobotics/pqe2e/envelope"
	"github.com/kindlyrobotics/pqe2e/errs"
	"github.com/kindlyrobotics/pqe2e/primitives"
)

// ShareSignKeyPair is a generated share-sign key: ML-DSA-65, scoped to a
// session, cross-signed by a master key, used to sign share-key material.
type ShareSignKeyPair struct {
	PublicJSON  string
	PrivateJSON string
	MasterSign  string
}

// GenerateShareSignKeyPair generates an ML-DSA-65 key pair for sessionUUID
// and signs the public half with masterPrivateJSON.
func GenerateShareSignKeyPair(sessionUUID string, timestamp int64, masterPublicJSON, masterPrivateJSON string) (*ShareSignKeyPair, error) {
	kp, err := primitives.GenerateDSA65KeyPair()
	if err != nil {
		return nil, fmt.Errorf("keys: generate share-sign key pair: %w", err)
	}
	defer primitives.Zero(kp.PrivateKey)

	pubJSON := envelope.EmitShareSignPublicKey(codec.EncodeB64(kp.PublicKey), timestamp, sessionUUID)
	privJSON := envelope.EmitShareSignPrivateKey(codec.EncodeB64(kp.PrivateKey), timestamp, sessionUUID)

	sign, err := SignWithMasterKey(masterPrivateJSON, []byte(pubJSON), MasterPublicKeyHash(masterPublicJSON))
	if err != nil {
		return nil, fmt.Errorf("keys: master-sign share-sign public key: %w", err)
	}

	return &ShareSignKeyPair{PublicJSON: pubJSON, PrivateJSON: privJSON, MasterSign: sign}, nil
}

// ValidateShareSignPublicKey is the structural validator for a share-sign
// public key JSON string.
func ValidateShareSignPublicKey(publicJSON string) bool {
	return envelope.IsValidShareSignPublicKey(publicJSON)
}

// ValidateShareSignPrivateKey is the structural validator for a share-sign
// private key JSON string.
func ValidateShareSignPrivateKey(privateJSON string) bool {
	return envelope.IsValidShareSignPrivateKey(privateJSON)
}

// SignWithShareSignKey signs data with a share-sign private key.
func SignWithShareSignKey(privateJSON string, data []byte, shareSignPubKeyHash string) (string, error) {
	parsed, err := envelope.ParseShareSignPrivateKey(privateJSON)
	if err != nil {
		return "", fmt.Errorf("keys: parse share-sign private key: %w", errs.ErrInputInvalid)
	}

	sig, err := primitives.SignDSA65(parsed.KeyRaw, data)
	if err != nil {
		return "", fmt.Errorf("keys: share-sign sign: %w", err)
	}

	return envelope.EmitSignatureEnvelope(envelope.SignerShareSignKey, shareSignPubKeyHash, codec.EncodeB64(sig), envelope.AlgorithmMLDSA65), nil
}

// VerifyShareSignKey verifies a signature envelope produced by
// SignWithShareSignKey.
func VerifyShareSignKey(publicJSON string, sigEnvelopeJSON string, data []byte) (bool, error) {
	pub, err := envelope.ParseShareSignPublicKey(publicJSON)
	if err != nil {
		return false, fmt.Errorf("keys: parse share-sign public key: %w", errs.ErrInputInvalid)
	}

	sigEnv, err := envelope.ParseSignatureEnvelope(sigEnvelopeJSON)
	if err != nil {
		return false, fmt.Errorf("keys: parse signature envelope: %w", errs.ErrInputInvalid)
	}
	if sigEnv.KeyType != envelope.SignerShareSignKey {
		return false, fmt.Errorf("keys: signature envelope keyType %q is not %q: %w", sigEnv.KeyType, envelope.SignerShareSignKey, errs.ErrBindingFailure)
	}

	ok, err := primitives.VerifyDSA65(pub.KeyRaw, data, sigEnv.Signature)
	if err != nil {
		return false, fmt.Errorf("keys: share-sign verify: %w", err)
	}
	return ok, nil
}

// ShareSignPublicKeyHash returns keyHash(shareSignPublicJSON).
func ShareSignPublicKeyHash(publicJSON string) string {
	return codec.KeyHash(publicJSON)
}

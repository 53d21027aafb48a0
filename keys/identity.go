package keys

import (
	"fmt"

	"github.com/kindlyrobotics/pqe2e/codec"
	"github.com/kindlyrobotics/pqe2e/envelope"
	"github.com/kindlyrobotics/pqe2e/errs"
	"github.com/kindlyrobotics/pqe2e/primitives"
)

// IdentityKeyPair is a generated identity key: ML-DSA-65, scoped to one
// session and cross-signed by a master key.
type IdentityKeyPair struct {
	PublicJSON  string
	PrivateJSON string
	MasterSign  string // signature envelope, keyType "masterKey"
}

// GenerateIdentityKeyPair generates an ML-DSA-65 key pair for sessionUUID
// and signs the public half with masterPrivateJSON.
func GenerateIdentityKeyPair(sessionUUID string, timestamp int64, masterPublicJSON, masterPrivateJSON string) (*IdentityKeyPair, error) {
	kp, err := primitives.GenerateDSA65KeyPair()
	if err != nil {
		return nil, fmt.Errorf("keys: generate identity key pair: %w", err)
	}
	defer primitives.Zero(kp.PrivateKey)

	pubJSON := envelope.EmitIdentityPublicKey(codec.EncodeB64(kp.PublicKey), timestamp, sessionUUID)
	privJSON := envelope.EmitIdentityPrivateKey(codec.EncodeB64(kp.PrivateKey), timestamp, sessionUUID)

	sign, err := SignWithMasterKey(masterPrivateJSON, []byte(pubJSON), MasterPublicKeyHash(masterPublicJSON))
	if err != nil {
		return nil, fmt.Errorf("keys: master-sign identity public key: %w", err)
	}

	return &IdentityKeyPair{PublicJSON: pubJSON, PrivateJSON: privJSON, MasterSign: sign}, nil
}

// ValidateIdentityPublicKey is the structural validator for an identity
// public key JSON string.
func ValidateIdentityPublicKey(publicJSON string) bool {
	return envelope.IsValidIdentityPublicKey(publicJSON)
}

// ValidateIdentityPrivateKey is the structural validator for an identity
// private key JSON string.
func ValidateIdentityPrivateKey(privateJSON string) bool {
	return envelope.IsValidIdentityPrivateKey(privateJSON)
}

// SignWithIdentityKey signs data with an identity private key.
func SignWithIdentityKey(privateJSON string, data []byte, identityPubKeyHash string) (string, error) {
	parsed, err := envelope.ParseIdentityPrivateKey(privateJSON)
	if err != nil {
		return "", fmt.Errorf("keys: parse identity private key: %w", errs.ErrInputInvalid)
	}

	sig, err := primitives.SignDSA65(parsed.KeyRaw, data)
	if err != nil {
		return "", fmt.Errorf("keys: identity sign: %w", err)
	}

	return envelope.EmitSignatureEnvelope(envelope.SignerIdentityKey, identityPubKeyHash, codec.EncodeB64(sig), envelope.AlgorithmMLDSA65), nil
}

// VerifyIdentityKey verifies a signature envelope produced by
// SignWithIdentityKey against an identity public key and the original data.
func VerifyIdentityKey(publicJSON string, sigEnvelopeJSON string, data []byte) (bool, error) {
	pub, err := envelope.ParseIdentityPublicKey(publicJSON)
	if err != nil {
		return false, fmt.Errorf("keys: parse identity public key: %w", errs.ErrInputInvalid)
	}

	sigEnv, err := envelope.ParseSignatureEnvelope(sigEnvelopeJSON)
	if err != nil {
		return false, fmt.Errorf("keys: parse signature envelope: %w", errs.ErrInputInvalid)
	}
	if sigEnv.KeyType != envelope.SignerIdentityKey {
		return false, fmt.Errorf("keys: signature envelope keyType %q is not %q: %w", sigEnv.KeyType, envelope.SignerIdentityKey, errs.ErrBindingFailure)
	}

	ok, err := primitives.VerifyDSA65(pub.KeyRaw, data, sigEnv.Signature)
	if err != nil {
		return false, fmt.Errorf("keys: identity verify: %w", err)
	}
	return ok, nil
}

// IdentityPublicKeyHash returns keyHash(identityPublicJSON).
func IdentityPublicKeyHash(publicJSON string) string {
	return codec.KeyHash(publicJSON)
}

// Package keys implements generate/validate/sign/verify/encrypt/decrypt for
// every key kind in the wire algebra, on top of primitives (raw crypto),
// codec (base64/hash), and envelope (JSON shapes + structural validation).
package keys

import (
	"fmt"

	"github.com/kindlyrobotics/pqe2e/codec"
	"github.com/kindlyrobotics/pqe2e/envelope"
	"github.com/kindlyrobotics/pqe2e/errs"
	"github.com/kindlyrobotics/pqe2e/primitives"
)

// MasterKeyPair is a generated master key: the root of the cross-signing
// graph. Its private key signs every subkey that carries a timestamp or
// sessionUuid (identity, account, share, shareSign).
type MasterKeyPair struct {
	PublicJSON  string
	PrivateJSON string
}

// GenerateMasterKeyPair generates an ML-DSA-87 key pair and renders both
// halves as master key JSON.
func GenerateMasterKeyPair() (*MasterKeyPair, error) {
	kp, err := primitives.GenerateDSA87KeyPair()
	if err != nil {
		return nil, fmt.Errorf("keys: generate master key pair: %w", err)
	}
	defer primitives.Zero(kp.PrivateKey)

	return &MasterKeyPair{
		PublicJSON:  envelope.EmitMasterPublicKey(codec.EncodeB64(kp.PublicKey)),
		PrivateJSON: envelope.EmitMasterPrivateKey(codec.EncodeB64(kp.PrivateKey)),
	}, nil
}

// ValidateMasterPublicKey is the structural validator for a master public
// key JSON string.
func ValidateMasterPublicKey(publicJSON string) bool {
	return envelope.IsValidMasterPublicKey(publicJSON)
}

// ValidateMasterPrivateKey is the structural validator for a master private
// key JSON string.
func ValidateMasterPrivateKey(privateJSON string) bool {
	return envelope.IsValidMasterPrivateKey(privateJSON)
}

// SignWithMasterKey signs data with a master private key, producing a
// signature envelope whose keyHash locates the signer's master public key.
func SignWithMasterKey(privateJSON string, data []byte, masterPubKeyHash string) (string, error) {
	parsed, err := envelope.ParseMasterPrivateKey(privateJSON)
	if err != nil {
		return "", fmt.Errorf("keys: parse master private key: %w", errs.ErrInputInvalid)
	}

	sig, err := primitives.SignDSA87(parsed.KeyRaw, data)
	if err != nil {
		return "", fmt.Errorf("keys: master sign: %w", err)
	}

	return envelope.EmitSignatureEnvelope(envelope.SignerMasterKey, masterPubKeyHash, codec.EncodeB64(sig), envelope.AlgorithmMLDSA87), nil
}

// VerifyMasterKey verifies a signature envelope produced by SignWithMasterKey
// against a master public key and the original data. It rejects any envelope
// whose keyType is not "masterKey".
func VerifyMasterKey(publicJSON string, sigEnvelopeJSON string, data []byte) (bool, error) {
	pub, err := envelope.ParseMasterPublicKey(publicJSON)
	if err != nil {
		return false, fmt.Errorf("keys: parse master public key: %w", errs.ErrInputInvalid)
	}

	sigEnv, err := envelope.ParseSignatureEnvelope(sigEnvelopeJSON)
	if err != nil {
		return false, fmt.Errorf("keys: parse signature envelope: %w", errs.ErrInputInvalid)
	}
	if sigEnv.KeyType != envelope.SignerMasterKey {
		return false, fmt.Errorf("keys: signature envelope keyType %q is not %q: %w", sigEnv.KeyType, envelope.SignerMasterKey, errs.ErrBindingFailure)
	}
	if sigEnv.Algorithm != envelope.AlgorithmMLDSA87 {
		return false, fmt.Errorf("keys: signature envelope algorithm %q is not %q: %w", sigEnv.Algorithm, envelope.AlgorithmMLDSA87, errs.ErrBindingFailure)
	}

	ok, err := primitives.VerifyDSA87(pub.KeyRaw, data, sigEnv.Signature)
	if err != nil {
		return false, fmt.Errorf("keys: master verify: %w", err)
	}
	return ok, nil
}

// MasterPublicKeyHash returns keyHash(masterPublicJSON), used both by
// SignWithMasterKey callers and by subkey verifiers that need to locate the
// signer from a cross-signature's keyHash field.
func MasterPublicKeyHash(publicJSON string) string {
	return codec.KeyHash(publicJSON)
}

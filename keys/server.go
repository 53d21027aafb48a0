package keys

import (
	"fmt"

	"github.com/kindlyrobotics/pqe2e/codec"
	"github.com/kindlyrobotics/pqe2e/envelope"
	"github.com/kindlyrobotics/pqe2e/errs"
	"github.com/kindlyrobotics/pqe2e/primitives"
)

// ServerKeyPair is a generated server key: ML-DSA-65 with a required
// timestamp, used to sign server assertions. The message envelope's
// ServerData timestamp is taken as given; no server signature is checked
// over it.
type ServerKeyPair struct {
	PublicJSON  string
	PrivateJSON string
}

// GenerateServerKeyPair generates an ML-DSA-65 key pair with timestamp.
func GenerateServerKeyPair(timestamp int64) (*ServerKeyPair, error) {
	kp, err := primitives.GenerateDSA65KeyPair()
	if err != nil {
		return nil, fmt.Errorf("keys: generate server key pair: %w", err)
	}
	defer primitives.Zero(kp.PrivateKey)

	return &ServerKeyPair{
		PublicJSON:  envelope.EmitServerPublicKey(codec.EncodeB64(kp.PublicKey), timestamp),
		PrivateJSON: envelope.EmitServerPrivateKey(codec.EncodeB64(kp.PrivateKey), timestamp),
	}, nil
}

// ValidateServerPublicKey is the structural validator for a server public
// key JSON string.
func ValidateServerPublicKey(publicJSON string) bool {
	return envelope.IsValidServerPublicKey(publicJSON)
}

// ValidateServerPrivateKey is the structural validator for a server private
// key JSON string.
func ValidateServerPrivateKey(privateJSON string) bool {
	return envelope.IsValidServerPrivateKey(privateJSON)
}

// SignWithServerKey signs data with a server private key.
func SignWithServerKey(privateJSON string, data []byte, serverPubKeyHash string) (string, error) {
	parsed, err := envelope.ParseServerPrivateKey(privateJSON)
	if err != nil {
		return "", fmt.Errorf("keys: parse server private key: %w", errs.ErrInputInvalid)
	}

	sig, err := primitives.SignDSA65(parsed.KeyRaw, data)
	if err != nil {
		return "", fmt.Errorf("keys: server sign: %w", err)
	}

	return envelope.EmitSignatureEnvelope(envelope.SignerServerKey, serverPubKeyHash, codec.EncodeB64(sig), envelope.AlgorithmMLDSA65), nil
}

// VerifyServerKey verifies a signature envelope produced by
// SignWithServerKey.
func VerifyServerKey(publicJSON string, sigEnvelopeJSON string, data []byte) (bool, error) {
	pub, err := envelope.ParseServerPublicKey(publicJSON)
	if err != nil {
		return false, fmt.Errorf("keys: parse server public key: %w", errs.ErrInputInvalid)
	}

	sigEnv, err := envelope.ParseSignatureEnvelope(sigEnvelopeJSON)
	if err != nil {
		return false, fmt.Errorf("keys: parse signature envelope: %w", errs.ErrInputInvalid)
	}
	if sigEnv.KeyType != envelope.SignerServerKey {
		return false, fmt.Errorf("keys: signature envelope keyType %q is not %q: %w", sigEnv.KeyType, envelope.SignerServerKey, errs.ErrBindingFailure)
	}

	ok, err := primitives.VerifyDSA65(pub.KeyRaw, data, sigEnv.Signature)
	if err != nil {
		return false, fmt.Errorf("keys: server verify: %w", err)
	}
	return ok, nil
}

// ServerPublicKeyHash returns keyHash(serverPublicJSON).
func ServerPublicKeyHash(publicJSON string) string {
	return codec.KeyHash(publicJSON)
}

package envelope

import (
	"fmt"
)

// Signer roles that can appear as a signature envelope's keyType.
const (
	SignerMasterKey      = "masterKey"
	SignerIdentityKey    = "identityKey"
	SignerShareSignKey   = "shareSignKey"
	SignerMigrateSignKey = "migrateSignKey"
	SignerServerKey      = "serverKey"
)

var signerRoles = []string{SignerMasterKey, SignerIdentityKey, SignerShareSignKey, SignerMigrateSignKey, SignerServerKey}

// Signature algorithms, and the raw signature size each one produces.
const (
	AlgorithmMLDSA65 = "ML-DSA-65"
	AlgorithmMLDSA87 = "ML-DSA-87"
)

var signatureSizeByAlgorithm = map[string]int{
	AlgorithmMLDSA65: 3309,
	AlgorithmMLDSA87: 4627,
}

// SignatureEnvelope is the parsed form of a signature envelope JSON string.
type SignatureEnvelope struct {
	KeyType   string
	KeyHash   string
	Signature []byte
	Algorithm string
}

type signatureEnvelopeJSON struct {
	KeyType   string `json:"keyType"`
	KeyHash   string `json:"keyHash"`
	Signature string `json:"signature"`
	Algorithm string `json:"algorithm"`
}

func signatureEnvelopeShape() shape {
	return shape{fields: []fieldSpec{
		{name: "keyType", kind: fieldEnum, literals: signerRoles},
		{name: "keyHash", kind: fieldB64Sized, size: 32},
		{name: "signature", kind: fieldOpaque},
		{name: "algorithm", kind: fieldEnum, literals: []string{AlgorithmMLDSA65, AlgorithmMLDSA87}},
	}}
}

// EmitSignatureEnvelope renders a signature envelope JSON string.
func EmitSignatureEnvelope(keyType, keyHash, signatureB64, algorithm string) string {
	return mustMarshal(signatureEnvelopeJSON{keyType, keyHash, signatureB64, algorithm})
}

// ParseSignatureEnvelope validates and parses a signature envelope JSON
// string, including that the decoded signature length matches the size
// the stated algorithm produces.
func ParseSignatureEnvelope(jsonStr string) (*SignatureEnvelope, error) {
	p, err := parse(jsonStr, signatureEnvelopeShape())
	if err != nil {
		return nil, err
	}

	algorithm := p.strings["algorithm"]
	wantSize := signatureSizeByAlgorithm[algorithm]
	sigRaw := p.raw["signature"]
	if len(sigRaw) != wantSize {
		return nil, fmt.Errorf("%w: signature decodes to %d bytes, want %d for %s", ErrInputInvalid, len(sigRaw), wantSize, algorithm)
	}

	return &SignatureEnvelope{
		KeyType:   p.strings["keyType"],
		KeyHash:   p.strings["keyHash"],
		Signature: sigRaw,
		Algorithm: algorithm,
	}, nil
}

// IsValidSignatureEnvelope is the total boolean form of ParseSignatureEnvelope.
func IsValidSignatureEnvelope(jsonStr string) bool {
	_, err := ParseSignatureEnvelope(jsonStr)
	return err == nil
}

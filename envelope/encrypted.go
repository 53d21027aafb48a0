package envelope

// Key kinds that appear as an asymmetric (KEM+AEAD) envelope's keyType —
// the three kinds whose public key is a KEM key.
const (
	EncKeyAccount = "accountKey"
	EncKeyShare   = "shareKey"
	EncKeyMigrate = "migrateKey"
)

var asymEnvelopeKeyTypes = []string{EncKeyAccount, EncKeyShare, EncKeyMigrate}

// Key kinds that appear as a symmetric AEAD envelope's keyType.
const (
	EncKeyRoom   = "roomKey"
	EncKeyDevice = "deviceKey"
)

var symEnvelopeKeyTypes = []string{EncKeyRoom, EncKeyDevice}

const algorithmAESGCM = "AES-GCM"

// kemCiphertextSize is the ML-KEM-768 ciphertext size in bytes.
const kemCiphertextSize = 1088

// ivSize is the AES-GCM IV size.
const ivSize = 12

// AsymEnvelope is the parsed form of a KEM+AEAD encrypted envelope.
type AsymEnvelope struct {
	KeyType       string
	KeyHash       string
	EncryptedData []byte
	IV            []byte
	CipherText    []byte
}

type asymEnvelopeJSON struct {
	KeyType       string `json:"keyType"`
	KeyHash       string `json:"keyHash"`
	EncryptedData string `json:"encryptedData"`
	IV            string `json:"iv"`
	CipherText    string `json:"cipherText"`
	Algorithm     string `json:"algorithm"`
}

func asymEnvelopeShape() shape {
	return shape{fields: []fieldSpec{
		{name: "keyType", kind: fieldEnum, literals: asymEnvelopeKeyTypes},
		{name: "keyHash", kind: fieldB64Sized, size: 32},
		{name: "encryptedData", kind: fieldOpaque},
		{name: "iv", kind: fieldB64Sized, size: ivSize},
		{name: "cipherText", kind: fieldB64Sized, size: kemCiphertextSize},
		{name: "algorithm", kind: fieldLiteral, literal: algorithmAESGCM},
	}}
}

// EmitAsymEnvelope renders a KEM+AEAD encrypted envelope JSON string.
func EmitAsymEnvelope(keyType, keyHash, encryptedDataB64, ivB64, cipherTextB64 string) string {
	return mustMarshal(asymEnvelopeJSON{keyType, keyHash, encryptedDataB64, ivB64, cipherTextB64, algorithmAESGCM})
}

// ParseAsymEnvelope validates and parses a KEM+AEAD encrypted envelope.
func ParseAsymEnvelope(jsonStr string) (*AsymEnvelope, error) {
	p, err := parse(jsonStr, asymEnvelopeShape())
	if err != nil {
		return nil, err
	}
	return &AsymEnvelope{
		KeyType:       p.strings["keyType"],
		KeyHash:       p.strings["keyHash"],
		EncryptedData: p.raw["encryptedData"],
		IV:            p.raw["iv"],
		CipherText:    p.raw["cipherText"],
	}, nil
}

// IsValidAsymEnvelope is the total boolean form of ParseAsymEnvelope.
func IsValidAsymEnvelope(jsonStr string) bool {
	_, err := ParseAsymEnvelope(jsonStr)
	return err == nil
}

// SymEnvelope is the parsed form of a symmetric AEAD encrypted envelope.
type SymEnvelope struct {
	KeyType       string
	KeyHash       string
	EncryptedData []byte
	IV            []byte
}

type symEnvelopeJSON struct {
	KeyType       string `json:"keyType"`
	KeyHash       string `json:"keyHash"`
	EncryptedData string `json:"encryptedData"`
	IV            string `json:"iv"`
	Algorithm     string `json:"algorithm"`
}

func symEnvelopeShape() shape {
	return shape{fields: []fieldSpec{
		{name: "keyType", kind: fieldEnum, literals: symEnvelopeKeyTypes},
		{name: "keyHash", kind: fieldB64Sized, size: 32},
		{name: "encryptedData", kind: fieldOpaque},
		{name: "iv", kind: fieldB64Sized, size: ivSize},
		{name: "algorithm", kind: fieldLiteral, literal: algorithmAESGCM},
	}}
}

// EmitSymEnvelope renders a symmetric AEAD encrypted envelope JSON string.
func EmitSymEnvelope(keyType, keyHash, encryptedDataB64, ivB64 string) string {
	return mustMarshal(symEnvelopeJSON{keyType, keyHash, encryptedDataB64, ivB64, algorithmAESGCM})
}

// ParseSymEnvelope validates and parses a symmetric AEAD encrypted envelope.
func ParseSymEnvelope(jsonStr string) (*SymEnvelope, error) {
	p, err := parse(jsonStr, symEnvelopeShape())
	if err != nil {
		return nil, err
	}
	return &SymEnvelope{
		KeyType:       p.strings["keyType"],
		KeyHash:       p.strings["keyHash"],
		EncryptedData: p.raw["encryptedData"],
		IV:            p.raw["iv"],
	}, nil
}

// IsValidSymEnvelope is the total boolean form of ParseSymEnvelope.
func IsValidSymEnvelope(jsonStr string) bool {
	_, err := ParseSymEnvelope(jsonStr)
	return err == nil
}

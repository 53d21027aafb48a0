package envelope

import (
	"strings"
	"testing"

	"github.com/kindlyrobotics/pqe2e/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func b64of(n int) string {
	return codec.EncodeB64(make([]byte, n))
}

func TestMasterKeyRoundTrip(t *testing.T) {
	pub := EmitMasterPublicKey(b64of(2592))
	assert.True(t, IsValidMasterPublicKey(pub))

	parsed, err := ParseMasterPublicKey(pub)
	require.NoError(t, err)
	assert.Equal(t, MasterPublicKeyType, parsed.KeyType)
	assert.Len(t, parsed.KeyRaw, 2592)

	priv := EmitMasterPrivateKey(b64of(4896))
	assert.True(t, IsValidMasterPrivateKey(priv))
}

func TestMasterKeyRejectsWrongSize(t *testing.T) {
	bad := EmitMasterPublicKey(b64of(2591))
	assert.False(t, IsValidMasterPublicKey(bad))
}

func TestMasterKeyRejectsUnknownField(t *testing.T) {
	bad := strings.Replace(EmitMasterPublicKey(b64of(2592)), "}", `,"extra":"x"}`, 1)
	assert.False(t, IsValidMasterPublicKey(bad))
}

func TestMasterKeyRejectsCrossKind(t *testing.T) {
	// A valid identity key must not validate as a master key.
	identity := EmitIdentityPublicKey(b64of(1952), 1000, "018fdb31-0798-78a2-b4c9-e145d5b5b88e")
	assert.False(t, IsValidMasterPublicKey(identity))
}

func TestIdentityKeyRoundTrip(t *testing.T) {
	uuid := "018fdb31-0798-78a2-b4c9-e145d5b5b88e"
	pub := EmitIdentityPublicKey(b64of(1952), 1700000000000, uuid)
	parsed, err := ParseIdentityPublicKey(pub)
	require.NoError(t, err)
	assert.Equal(t, IdentityAlgorithm, parsed.Algorithm)
	assert.True(t, parsed.HasSessionUUID)
	assert.Equal(t, uuid, parsed.SessionUUID)
	assert.True(t, parsed.HasTimestamp)
}

func TestIdentityKeyRejectsBadUUID(t *testing.T) {
	bad := EmitIdentityPublicKey(b64of(1952), 1000, "not-a-uuid")
	assert.False(t, IsValidIdentityPublicKey(bad))
}

func TestIdentityKeyRejectsWrongAlgorithm(t *testing.T) {
	bad := strings.Replace(
		EmitIdentityPublicKey(b64of(1952), 1000, "018fdb31-0798-78a2-b4c9-e145d5b5b88e"),
		"ML-DSA-65", "ML-DSA-87", 1)
	assert.False(t, IsValidIdentityPublicKey(bad))
}

func TestMigrateKeyOptionalTimestamp(t *testing.T) {
	withTS := int64(1000)
	pub := EmitMigratePublicKey(b64of(1184), &withTS)
	assert.True(t, IsValidMigratePublicKey(pub))

	pubNoTS := EmitMigratePublicKey(b64of(1184), nil)
	assert.True(t, IsValidMigratePublicKey(pubNoTS))
	assert.NotContains(t, pubNoTS, "timestamp")
}

func TestDeviceKeyShape(t *testing.T) {
	dk := EmitDeviceKey(b64of(32))
	assert.True(t, IsValidDeviceKey(dk))
	assert.False(t, IsValidDeviceKey(EmitDeviceKey(b64of(31))))
}

func TestAsymEnvelopeCipherTextBoundary(t *testing.T) {
	mk := func(ctLen int) string {
		return EmitAsymEnvelope(EncKeyAccount, b64of(32), codec.EncodeB64([]byte("ciphertext-blob")), b64of(12), b64of(ctLen))
	}
	assert.True(t, IsValidAsymEnvelope(mk(1088)))
	assert.False(t, IsValidAsymEnvelope(mk(1087)))
	assert.False(t, IsValidAsymEnvelope(mk(1089)))
}

func TestAsymEnvelopeRejectsUnknownKeyType(t *testing.T) {
	bad := EmitAsymEnvelope("bogusKey", b64of(32), codec.EncodeB64([]byte("x")), b64of(12), b64of(1088))
	assert.False(t, IsValidAsymEnvelope(bad))
}

func TestSymEnvelopeRoundTrip(t *testing.T) {
	env := EmitSymEnvelope(EncKeyRoom, b64of(32), codec.EncodeB64([]byte("data")), b64of(12))
	parsed, err := ParseSymEnvelope(env)
	require.NoError(t, err)
	assert.Equal(t, EncKeyRoom, parsed.KeyType)
	assert.Len(t, parsed.IV, 12)
}

func TestSignatureEnvelopeSizeMustMatchAlgorithm(t *testing.T) {
	good := EmitSignatureEnvelope(SignerMasterKey, b64of(32), codec.EncodeB64(make([]byte, 4627)), AlgorithmMLDSA87)
	assert.True(t, IsValidSignatureEnvelope(good))

	mismatched := EmitSignatureEnvelope(SignerMasterKey, b64of(32), codec.EncodeB64(make([]byte, 3309)), AlgorithmMLDSA87)
	assert.False(t, IsValidSignatureEnvelope(mismatched))
}

func TestSignatureEnvelopeRejectsUnknownSignerRole(t *testing.T) {
	bad := EmitSignatureEnvelope("notARole", b64of(32), codec.EncodeB64(make([]byte, 3309)), AlgorithmMLDSA65)
	assert.False(t, IsValidSignatureEnvelope(bad))
}

func TestKeyHashLengthInvariant(t *testing.T) {
	bad := EmitSignatureEnvelope(SignerMasterKey, "tooshort", codec.EncodeB64(make([]byte, 3309)), AlgorithmMLDSA65)
	assert.False(t, IsValidSignatureEnvelope(bad))
}

func TestValidatorsAreTotalOnGarbage(t *testing.T) {
	garbage := []string{"", "{", "not json at all", "null", "[]", `{"keyType":1}`}
	for _, g := range garbage {
		assert.NotPanics(t, func() {
			IsValidMasterPublicKey(g)
			IsValidIdentityPublicKey(g)
			IsValidAccountPublicKey(g)
			IsValidRoomKey(g)
			IsValidDeviceKey(g)
			IsValidSignatureEnvelope(g)
			IsValidAsymEnvelope(g)
			IsValidSymEnvelope(g)
		})
	}
}

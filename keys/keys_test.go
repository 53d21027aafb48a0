package keys

import (
	"testing"
	"time"

	"github.com/kindlyrobotics/pqe2e/codec"
	"github.com/kindlyrobotics/pqe2e/envelope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionUUID = "018fdb31-0798-78a2-b4c9-e145d5b5b88e"

func nowMillis() int64 {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
}

func TestMasterSignVerifyRoundTrip(t *testing.T) {
	master, err := GenerateMasterKeyPair()
	require.NoError(t, err)

	sign, err := SignWithMasterKey(master.PrivateJSON, []byte("Hello, World!"), MasterPublicKeyHash(master.PublicJSON))
	require.NoError(t, err)

	ok, err := VerifyMasterKey(master.PublicJSON, sign, []byte("Hello, World!"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMasterSignRejectsMutatedData(t *testing.T) {
	master, err := GenerateMasterKeyPair()
	require.NoError(t, err)

	sign, err := SignWithMasterKey(master.PrivateJSON, []byte("Hello, World!"), MasterPublicKeyHash(master.PublicJSON))
	require.NoError(t, err)

	ok, err := VerifyMasterKey(master.PublicJSON, sign, []byte("Hello, World?"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIdentityMasterBinding(t *testing.T) {
	master, err := GenerateMasterKeyPair()
	require.NoError(t, err)

	identity, err := GenerateIdentityKeyPair(sessionUUID, nowMillis(), master.PublicJSON, master.PrivateJSON)
	require.NoError(t, err)

	assert.True(t, ValidateIdentityPublicKey(identity.PublicJSON))
	assert.True(t, ValidateIdentityPrivateKey(identity.PrivateJSON))

	ok, err := VerifyMasterKey(master.PublicJSON, identity.MasterSign, []byte(identity.PublicJSON))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIdentitySignVerifyRoundTrip(t *testing.T) {
	master, err := GenerateMasterKeyPair()
	require.NoError(t, err)
	identity, err := GenerateIdentityKeyPair(sessionUUID, nowMillis(), master.PublicJSON, master.PrivateJSON)
	require.NoError(t, err)

	msg := []byte("a message body")
	sign, err := SignWithIdentityKey(identity.PrivateJSON, msg, IdentityPublicKeyHash(identity.PublicJSON))
	require.NoError(t, err)

	ok, err := VerifyIdentityKey(identity.PublicJSON, sign, msg)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyIdentityKey(identity.PublicJSON, sign, []byte("a tampered body"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAccountEncryptDecryptRoundTripCompatibilityVector(t *testing.T) {
	master, err := GenerateMasterKeyPair()
	require.NoError(t, err)
	account, err := GenerateAccountKeyPair(nowMillis(), master.PublicJSON, master.PrivateJSON)
	require.NoError(t, err)

	ok, err := VerifyMasterKey(master.PublicJSON, account.MasterSign, []byte(account.PublicJSON))
	require.NoError(t, err)
	assert.True(t, ok)

	env, err := EncryptDataAccountKey(account.PublicJSON, []byte("compatibility-test"))
	require.NoError(t, err)

	plaintext, err := DecryptDataAccountKey(account.PrivateJSON, env)
	require.NoError(t, err)
	assert.Equal(t, "compatibility-test", string(plaintext))
}

func TestAccountDecryptRejectsWrongKeyType(t *testing.T) {
	master, err := GenerateMasterKeyPair()
	require.NoError(t, err)
	account, err := GenerateAccountKeyPair(nowMillis(), master.PublicJSON, master.PrivateJSON)
	require.NoError(t, err)
	share, err := GenerateShareKeyPair(sessionUUID, nowMillis(), master.PublicJSON, master.PrivateJSON)
	require.NoError(t, err)

	env, err := EncryptDataShareKey(share.PublicJSON, []byte("x"))
	require.NoError(t, err)

	_, err = DecryptDataAccountKey(account.PrivateJSON, env)
	assert.Error(t, err)
}

func TestRoomKeyRoundTripAndTwoRecipients(t *testing.T) {
	roomKeyJSON, err := GenerateRoomKey(sessionUUID, nowMillis())
	require.NoError(t, err)
	assert.True(t, ValidateRoomKey(roomKeyJSON))

	env, err := EncryptDataRoomKey(roomKeyJSON, []byte("compatibility-test"))
	require.NoError(t, err)

	plaintext, err := DecryptDataRoomKey(roomKeyJSON, env)
	require.NoError(t, err)
	assert.Equal(t, "compatibility-test", string(plaintext))

	master, err := GenerateMasterKeyPair()
	require.NoError(t, err)
	recipient1, err := GenerateAccountKeyPair(nowMillis(), master.PublicJSON, master.PrivateJSON)
	require.NoError(t, err)
	recipient2, err := GenerateAccountKeyPair(nowMillis(), master.PublicJSON, master.PrivateJSON)
	require.NoError(t, err)

	envelopes := make([]string, 0, 2)
	for _, recipient := range []*AccountKeyPair{recipient1, recipient2} {
		e, err := EncryptDataAccountKey(recipient.PublicJSON, []byte(roomKeyJSON))
		require.NoError(t, err)
		envelopes = append(envelopes, e)
	}
	assert.Len(t, envelopes, 2)
	for _, e := range envelopes {
		assert.True(t, envelope.IsValidAsymEnvelope(e))
	}
}

func TestDeviceKeyRoundTrip(t *testing.T) {
	deviceKeyJSON, err := GenerateDeviceKey()
	require.NoError(t, err)
	assert.True(t, ValidateDeviceKey(deviceKeyJSON))

	env, err := EncryptDataDeviceKey(deviceKeyJSON, []byte("device-payload"))
	require.NoError(t, err)

	plaintext, err := DecryptDataDeviceKey(deviceKeyJSON, env)
	require.NoError(t, err)
	assert.Equal(t, "device-payload", string(plaintext))
}

func TestShareAndShareSignMasterBinding(t *testing.T) {
	master, err := GenerateMasterKeyPair()
	require.NoError(t, err)

	share, err := GenerateShareKeyPair(sessionUUID, nowMillis(), master.PublicJSON, master.PrivateJSON)
	require.NoError(t, err)
	ok, err := VerifyMasterKey(master.PublicJSON, share.MasterSign, []byte(share.PublicJSON))
	require.NoError(t, err)
	assert.True(t, ok)

	shareSign, err := GenerateShareSignKeyPair(sessionUUID, nowMillis(), master.PublicJSON, master.PrivateJSON)
	require.NoError(t, err)
	ok, err = VerifyMasterKey(master.PublicJSON, shareSign.MasterSign, []byte(shareSign.PublicJSON))
	require.NoError(t, err)
	assert.True(t, ok)

	msg := []byte("share-sign payload")
	sign, err := SignWithShareSignKey(shareSign.PrivateJSON, msg, ShareSignPublicKeyHash(shareSign.PublicJSON))
	require.NoError(t, err)
	ok, err = VerifyShareSignKey(shareSign.PublicJSON, sign, msg)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMigrateAndMigrateSignHaveNoMasterSignature(t *testing.T) {
	migrate, err := GenerateMigrateKeyPair(nil)
	require.NoError(t, err)
	assert.True(t, ValidateMigratePublicKey(migrate.PublicJSON))
	assert.NotContains(t, migrate.PublicJSON, "timestamp")

	ts := nowMillis()
	migrateTS, err := GenerateMigrateKeyPair(&ts)
	require.NoError(t, err)
	assert.True(t, ValidateMigratePublicKey(migrateTS.PublicJSON))
	assert.Contains(t, migrateTS.PublicJSON, "timestamp")

	env, err := EncryptDataMigrateKey(migrate.PublicJSON, []byte("migration-blob"))
	require.NoError(t, err)
	plaintext, err := DecryptDataMigrateKey(migrate.PrivateJSON, env)
	require.NoError(t, err)
	assert.Equal(t, "migration-blob", string(plaintext))

	migrateSign, err := GenerateMigrateSignKeyPair(nil)
	require.NoError(t, err)
	sign, err := SignWithMigrateSignKey(migrateSign.PrivateJSON, []byte("assertion"), codec.KeyHash(migrateSign.PublicJSON))
	require.NoError(t, err)
	ok, err := VerifyMigrateSignKey(migrateSign.PublicJSON, sign, []byte("assertion"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestServerKeySignVerify(t *testing.T) {
	server, err := GenerateServerKeyPair(nowMillis())
	require.NoError(t, err)
	assert.True(t, ValidateServerPublicKey(server.PublicJSON))

	sign, err := SignWithServerKey(server.PrivateJSON, []byte("server-assertion"), ServerPublicKeyHash(server.PublicJSON))
	require.NoError(t, err)

	ok, err := VerifyServerKey(server.PublicJSON, sign, []byte("server-assertion"))
	require.NoError(t, err)
	assert.True(t, ok)
}

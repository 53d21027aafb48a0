package crosssign

import (
	"errors"
	"testing"
	"time"

	"github.com/kindlyrobotics/pqe2e/errs"
	"github.com/kindlyrobotics/pqe2e/keys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionUUID = "018fdb31-0798-78a2-b4c9-e145d5b5b88e"

func nowMillis() int64 {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
}

func TestVerifySubkeyAcceptsEachCrossSignedKind(t *testing.T) {
	master, err := keys.GenerateMasterKeyPair()
	require.NoError(t, err)

	identity, err := keys.GenerateIdentityKeyPair(sessionUUID, nowMillis(), master.PublicJSON, master.PrivateJSON)
	require.NoError(t, err)
	assert.NoError(t, VerifySubkey(master.PublicJSON, identity.PublicJSON, identity.MasterSign))

	account, err := keys.GenerateAccountKeyPair(nowMillis(), master.PublicJSON, master.PrivateJSON)
	require.NoError(t, err)
	assert.NoError(t, VerifySubkey(master.PublicJSON, account.PublicJSON, account.MasterSign))

	share, err := keys.GenerateShareKeyPair(sessionUUID, nowMillis(), master.PublicJSON, master.PrivateJSON)
	require.NoError(t, err)
	assert.NoError(t, VerifySubkey(master.PublicJSON, share.PublicJSON, share.MasterSign))

	shareSign, err := keys.GenerateShareSignKeyPair(sessionUUID, nowMillis(), master.PublicJSON, master.PrivateJSON)
	require.NoError(t, err)
	assert.NoError(t, VerifySubkey(master.PublicJSON, shareSign.PublicJSON, shareSign.MasterSign))
}

func TestVerifySubkeyRejectsWrongMaster(t *testing.T) {
	master, err := keys.GenerateMasterKeyPair()
	require.NoError(t, err)
	otherMaster, err := keys.GenerateMasterKeyPair()
	require.NoError(t, err)

	identity, err := keys.GenerateIdentityKeyPair(sessionUUID, nowMillis(), master.PublicJSON, master.PrivateJSON)
	require.NoError(t, err)

	err = VerifySubkey(otherMaster.PublicJSON, identity.PublicJSON, identity.MasterSign)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrBindingFailure))
}

func TestVerifySubkeyRejectsTamperedSubkeyJSON(t *testing.T) {
	master, err := keys.GenerateMasterKeyPair()
	require.NoError(t, err)

	account, err := keys.GenerateAccountKeyPair(nowMillis(), master.PublicJSON, master.PrivateJSON)
	require.NoError(t, err)

	err = VerifySubkey(master.PublicJSON, account.PublicJSON+" ", account.MasterSign)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrPrerequisiteFailure))
}

// Package crosssign implements the master-signs-subkey pattern: every
// subkey whose JSON carries a timestamp/sessionUuid (identity, account,
// share, shareSign) is issued with a master signature over the subkey's
// public-key JSON, and the signature envelope's keyHash locates the master
// key that issued it.
//
// keys.Generate*KeyPair already performs the signing half of this pattern
// inline (each generator calls keys.SignWithMasterKey); this package is the
// single place verifiers go through, so a caller checking "is this subkey
// properly cross-signed" never needs to know which of the four subkinds
// it's holding.
package crosssign

import (
	"fmt"

	"github.com/kindlyrobotics/pqe2e/envelope"
	"github.com/kindlyrobotics/pqe2e/errs"
	"github.com/kindlyrobotics/pqe2e/keys"
)

// VerifySubkey checks that subkeyPublicJSON carries a valid master
// signature: masterSignEnvelope must parse as a masterKey signature
// envelope, its keyHash must equal keyHash(masterPublicJSON), and the
// signature must verify over subkeyPublicJSON's exact bytes.
//
// Every cross-signed subkey must pass this before a caller trusts it,
// independent of the subkey's own structural validity (callers should run
// the subkey's own Validate* first).
func VerifySubkey(masterPublicJSON, subkeyPublicJSON, masterSignEnvelope string) error {
	sigEnv, err := envelope.ParseSignatureEnvelope(masterSignEnvelope)
	if err != nil {
		return fmt.Errorf("crosssign: parse master signature envelope: %w", errs.ErrInputInvalid)
	}
	if sigEnv.KeyType != envelope.SignerMasterKey {
		return fmt.Errorf("crosssign: signature envelope keyType %q is not %q: %w", sigEnv.KeyType, envelope.SignerMasterKey, errs.ErrBindingFailure)
	}

	wantHash := keys.MasterPublicKeyHash(masterPublicJSON)
	if sigEnv.KeyHash != wantHash {
		return fmt.Errorf("crosssign: signature keyHash does not match master public key: %w", errs.ErrBindingFailure)
	}

	ok, err := keys.VerifyMasterKey(masterPublicJSON, masterSignEnvelope, []byte(subkeyPublicJSON))
	if err != nil {
		return fmt.Errorf("crosssign: verify master signature: %w", err)
	}
	if !ok {
		return fmt.Errorf("crosssign: master signature does not verify over subkey public key: %w", errs.ErrPrerequisiteFailure)
	}
	return nil
}

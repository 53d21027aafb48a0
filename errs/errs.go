// Package errs defines the sentinel error taxonomy shared by every package
// above envelope. Operations wrap one of these with fmt.Errorf("...: %w",
// err) so callers can test with errors.Is rather than matching strings.
package errs

import "errors"

var (
	// ErrInputInvalid covers JSON parse failure, unknown keyType, wrong
	// algorithm literal, wrong raw size, malformed base64, bad UUIDv7.
	// envelope.ErrInputInvalid is a distinct sentinel with matching text,
	// not the same value — errors.Is across the two packages will not
	// match. Callers above envelope should use this one directly.
	ErrInputInvalid = errors.New("pqe2e: invalid input")

	// ErrAuthFailure covers signature verification failure, AEAD tag
	// failure, or KEM decapsulation not yielding the expected shared secret.
	ErrAuthFailure = errors.New("pqe2e: authentication failed")

	// ErrFreshnessFailure covers a message timestamp outside the freshness
	// window of serverData.timestamp.
	ErrFreshnessFailure = errors.New("pqe2e: message outside freshness window")

	// ErrBindingFailure covers a roomid mismatch or a keyHash that does not
	// match its claimed signer.
	ErrBindingFailure = errors.New("pqe2e: binding mismatch")

	// ErrPrerequisiteFailure covers a master signature over an issued
	// subkey that does not verify.
	ErrPrerequisiteFailure = errors.New("pqe2e: master signature did not verify")
)

// Command pqe2e-bench exercises the master, identity, account and room key
// kinds, room-key distribution and the message envelope end to end, and
// prints how long each step took. Share, share-sign, migrate, migrate-sign,
// device and server keys are not exercised. It is a self-check, not an
// end-user key-management tool.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/kindlyrobotics/pqe2e/crosssign"
	"github.com/kindlyrobotics/pqe2e/keys"
	"github.com/kindlyrobotics/pqe2e/message"
	"github.com/kindlyrobotics/pqe2e/roomkey"
)

func main() {
	iterations := flag.Int("iterations", 1, "number of times to repeat the full round trip")
	verbose := flag.Bool("v", false, "print each step's timing")
	flag.Parse()

	for i := 0; i < *iterations; i++ {
		if err := runOnce(*verbose); err != nil {
			log.Fatalf("pqe2e-bench: round %d failed: %v", i, err)
		}
	}
	log.Printf("pqe2e-bench: %d round(s) completed successfully", *iterations)
}

func runOnce(verbose bool) error {
	step := func(name string, fn func() error) error {
		start := time.Now()
		err := fn()
		if verbose {
			log.Printf("%-32s %v", name, time.Since(start))
		}
		return err
	}

	sessionUUID := uuid.Must(uuid.NewV7()).String()
	now := time.Now().UnixMilli()

	var master *keys.MasterKeyPair
	if err := step("master.generate", func() error {
		var err error
		master, err = keys.GenerateMasterKeyPair()
		return err
	}); err != nil {
		return err
	}

	var identity *keys.IdentityKeyPair
	if err := step("identity.generate+sign", func() error {
		var err error
		identity, err = keys.GenerateIdentityKeyPair(sessionUUID, now, master.PublicJSON, master.PrivateJSON)
		return err
	}); err != nil {
		return err
	}
	if err := step("identity.crosssign-verify", func() error {
		return crosssign.VerifySubkey(master.PublicJSON, identity.PublicJSON, identity.MasterSign)
	}); err != nil {
		return err
	}

	var account *keys.AccountKeyPair
	if err := step("account.generate+sign", func() error {
		var err error
		account, err = keys.GenerateAccountKeyPair(now, master.PublicJSON, master.PrivateJSON)
		return err
	}); err != nil {
		return err
	}

	var accountEnvelope string
	if err := step("account.encrypt", func() error {
		var err error
		accountEnvelope, err = keys.EncryptDataAccountKey(account.PublicJSON, []byte("compatibility-test"))
		return err
	}); err != nil {
		return err
	}
	if err := step("account.decrypt", func() error {
		plaintext, err := keys.DecryptDataAccountKey(account.PrivateJSON, accountEnvelope)
		if err != nil {
			return err
		}
		if string(plaintext) != "compatibility-test" {
			return errMismatch("account round trip")
		}
		return nil
	}); err != nil {
		return err
	}

	var roomKeyJSON string
	if err := step("room.generate", func() error {
		var err error
		roomKeyJSON, err = keys.GenerateRoomKey(sessionUUID, now)
		return err
	}); err != nil {
		return err
	}

	var dist *roomkey.Distribution
	if err := step("roomkey.distribute", func() error {
		var err error
		dist, err = roomkey.EncryptRoomKeyWithAccountKeys(
			[]roomkey.Recipient{{UserID: "bench-user", MasterPublicKey: master.PublicJSON, AccountKeyPub: account.PublicJSON, AccountKeySign: account.MasterSign, Verify: true}},
			roomKeyJSON, identity.PrivateJSON, identity.PublicJSON,
		)
		return err
	}); err != nil {
		return err
	}
	if len(dist.EncryptedData) != 1 {
		return errMismatch("roomkey distribution recipient count")
	}

	value := message.Value{Type: message.ContentText, Content: `"hello from pqe2e-bench"`}
	metadata := message.Metadata{Channel: "bench", Timestamp: now}
	var signed *message.Signed
	if err := step("message.encrypt", func() error {
		var err error
		signed, err = message.EncryptMessage(value, metadata, roomKeyJSON, identity.PrivateJSON, identity.PublicJSON, sessionUUID)
		return err
	}); err != nil {
		return err
	}

	return step("message.decrypt", func() error {
		_, err := message.DecryptMessage(*signed, message.ServerData{Timestamp: now}, roomKeyJSON, identity.PublicJSON, sessionUUID)
		return err
	})
}

type mismatchError string

func (e mismatchError) Error() string { return string(e) }

func errMismatch(what string) error {
	return mismatchError(what + ": result did not match the expected value")
}

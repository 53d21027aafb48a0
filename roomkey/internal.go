package roomkey

import (
	"encoding/json"
	"fmt"

	"github.com/kindlyrobotics/pqe2e/envelope"
	"github.com/kindlyrobotics/pqe2e/errs"
)

func accountKeyTimestamp(accountPublicJSON string) (int64, error) {
	parsed, err := envelope.ParseAccountPublicKey(accountPublicJSON)
	if err != nil {
		return 0, fmt.Errorf("read account key timestamp: %w", errs.ErrInputInvalid)
	}
	return parsed.Timestamp, nil
}

func marshalMetadata(m Metadata) ([]byte, error) {
	return json.Marshal(m)
}

// Package envelope defines the exact JSON wire shapes for every key kind,
// the signature envelope, and the two encrypted envelopes (KEM+AEAD and
// symmetric AEAD), plus the structural validators that parse and check
// them. No package outside envelope should encode/decode these shapes by
// hand — every key kind in package keys builds on the generic shape engine
// here instead of hand-rolling its own marshal/validate pair.
package envelope

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kindlyrobotics/pqe2e/codec"
	"github.com/kindlyrobotics/pqe2e/uuidgate"
)

// ErrInputInvalid is the sentinel for every structural-validation failure:
// parse failure, unknown keyType, wrong algorithm literal, wrong raw size,
// malformed base64, or bad UUIDv7.
var ErrInputInvalid = errors.New("pqe2e: invalid input")

// fieldKind enumerates the handful of field shapes used across every key
// and envelope JSON in this protocol.
type fieldKind int

const (
	fieldLiteral  fieldKind = iota // string that must equal a fixed value
	fieldEnum                      // string that must be one of a fixed set of values
	fieldB64Sized                  // base64 string decoding to an exact byte length
	fieldInt64                     // JSON number, used as a millisecond timestamp
	fieldUUIDv7                    // string matching the UUIDv7 regex
	fieldOpaque                    // base64 string of any decoded length (encryptedData, signature)
)

// fieldSpec describes one field of a shape.
type fieldSpec struct {
	name     string
	kind     fieldKind
	literal  string
	literals []string
	size     int
	optional bool
}

// shape is an ordered field set. Field order here is also the canonical
// marshal order used by every Emit* function in this package.
type shape struct {
	fields []fieldSpec
}

// parsed holds a shape's fields after successful validation, with base64
// fields already decoded and timestamps converted to int64.
type parsed struct {
	strings map[string]string
	raw     map[string][]byte
	ints    map[string]int64
	present map[string]bool
}

// parse validates jsonStr against s: unknown fields, missing required
// fields, literal mismatches, malformed base64, wrong decoded sizes, and
// non-UUIDv7 sessionUuid values are all rejected. It never panics.
func parse(jsonStr string, s shape) (*parsed, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrInputInvalid, err)
	}

	allowed := make(map[string]fieldSpec, len(s.fields))
	for _, f := range s.fields {
		allowed[f.name] = f
	}
	for name := range raw {
		if _, ok := allowed[name]; !ok {
			return nil, fmt.Errorf("%w: unexpected field %q", ErrInputInvalid, name)
		}
	}

	out := &parsed{
		strings: map[string]string{},
		raw:     map[string][]byte{},
		ints:    map[string]int64{},
		present: map[string]bool{},
	}

	for _, f := range s.fields {
		val, ok := raw[f.name]
		if !ok {
			if f.optional {
				continue
			}
			return nil, fmt.Errorf("%w: missing field %q", ErrInputInvalid, f.name)
		}
		out.present[f.name] = true

		switch f.kind {
		case fieldLiteral:
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return nil, fmt.Errorf("%w: field %q is not a string", ErrInputInvalid, f.name)
			}
			if s != f.literal {
				return nil, fmt.Errorf("%w: field %q = %q, want %q", ErrInputInvalid, f.name, s, f.literal)
			}
			out.strings[f.name] = s

		case fieldEnum:
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return nil, fmt.Errorf("%w: field %q is not a string", ErrInputInvalid, f.name)
			}
			if !contains(f.literals, s) {
				return nil, fmt.Errorf("%w: field %q = %q, not one of %v", ErrInputInvalid, f.name, s, f.literals)
			}
			out.strings[f.name] = s

		case fieldOpaque:
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return nil, fmt.Errorf("%w: field %q is not a string", ErrInputInvalid, f.name)
			}
			out.strings[f.name] = s
			decoded, err := codec.DecodeB64(s)
			if err != nil {
				return nil, fmt.Errorf("%w: field %q is not valid base64: %v", ErrInputInvalid, f.name, err)
			}
			out.raw[f.name] = decoded

		case fieldB64Sized:
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return nil, fmt.Errorf("%w: field %q is not a string", ErrInputInvalid, f.name)
			}
			decoded, err := codec.DecodeB64(s)
			if err != nil {
				return nil, fmt.Errorf("%w: field %q is not valid base64: %v", ErrInputInvalid, f.name, err)
			}
			if len(decoded) != f.size {
				return nil, fmt.Errorf("%w: field %q decodes to %d bytes, want %d", ErrInputInvalid, f.name, len(decoded), f.size)
			}
			out.strings[f.name] = s
			out.raw[f.name] = decoded

		case fieldInt64:
			var n float64
			if err := json.Unmarshal(val, &n); err != nil {
				return nil, fmt.Errorf("%w: field %q is not a number", ErrInputInvalid, f.name)
			}
			out.ints[f.name] = int64(n)

		case fieldUUIDv7:
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return nil, fmt.Errorf("%w: field %q is not a string", ErrInputInvalid, f.name)
			}
			if !uuidgate.IsValidUUIDv7(s) {
				return nil, fmt.Errorf("%w: field %q is not a valid UUIDv7", ErrInputInvalid, f.name)
			}
			out.strings[f.name] = s
		}
	}

	return out, nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

package envelope

import "encoding/json"

// ParsedKey is the uniform result of validating any key-kind JSON shape.
// Fields that a given kind's shape doesn't carry are left at their zero
// value; check HasTimestamp/HasSessionUUID before relying on them.
type ParsedKey struct {
	KeyType        string
	KeyRaw         []byte
	Algorithm      string
	Timestamp      int64
	HasTimestamp   bool
	SessionUUID    string
	HasSessionUUID bool
}

func toParsedKey(p *parsed) *ParsedKey {
	pk := &ParsedKey{
		KeyType: p.strings["keyType"],
		KeyRaw:  p.raw["key"],
	}
	if alg, ok := p.strings["algorithm"]; ok {
		pk.Algorithm = alg
	}
	if ts, ok := p.ints["timestamp"]; ok {
		pk.Timestamp = ts
		pk.HasTimestamp = true
	}
	if su, ok := p.strings["sessionUuid"]; ok {
		pk.SessionUUID = su
		pk.HasSessionUUID = true
	}
	return pk
}

// Generic marshal shapes, reused across key kinds with identical field
// sets. The canonical wire field order is the struct declaration order
// below — it is fixed once and is part of the wire format.

type bareKeyJSON struct {
	KeyType string `json:"keyType"`
	Key     string `json:"key"`
}

type timestampKeyJSON struct {
	KeyType   string `json:"keyType"`
	Key       string `json:"key"`
	Timestamp int64  `json:"timestamp"`
}

type optionalTimestampKeyJSON struct {
	KeyType   string `json:"keyType"`
	Key       string `json:"key"`
	Timestamp *int64 `json:"timestamp,omitempty"`
}

type algoTimestampKeyJSON struct {
	KeyType   string `json:"keyType"`
	Key       string `json:"key"`
	Algorithm string `json:"algorithm"`
	Timestamp int64  `json:"timestamp"`
}

type algoTimestampSessionKeyJSON struct {
	KeyType     string `json:"keyType"`
	Key         string `json:"key"`
	Algorithm   string `json:"algorithm"`
	Timestamp   int64  `json:"timestamp"`
	SessionUUID string `json:"sessionUuid"`
}

func mustMarshal(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		// Every value passed here is a plain struct of strings and an
		// int64; json.Marshal cannot fail on that shape.
		panic("envelope: unreachable marshal failure: " + err.Error())
	}
	return string(b)
}

// ---- Master ----

const (
	MasterPublicKeyType  = "masterKeyPublic"
	MasterPrivateKeyType = "masterKeyPrivate"
)

func masterPublicShape() shape {
	return shape{fields: []fieldSpec{
		{name: "keyType", kind: fieldLiteral, literal: MasterPublicKeyType},
		{name: "key", kind: fieldB64Sized, size: 2592},
	}}
}

func masterPrivateShape() shape {
	return shape{fields: []fieldSpec{
		{name: "keyType", kind: fieldLiteral, literal: MasterPrivateKeyType},
		{name: "key", kind: fieldB64Sized, size: 4896},
	}}
}

// EmitMasterPublicKey renders a master public key JSON string.
func EmitMasterPublicKey(keyB64 string) string {
	return mustMarshal(bareKeyJSON{KeyType: MasterPublicKeyType, Key: keyB64})
}

// EmitMasterPrivateKey renders a master private key JSON string.
func EmitMasterPrivateKey(keyB64 string) string {
	return mustMarshal(bareKeyJSON{KeyType: MasterPrivateKeyType, Key: keyB64})
}

// ParseMasterPublicKey validates and parses a master public key JSON string.
func ParseMasterPublicKey(jsonStr string) (*ParsedKey, error) {
	p, err := parse(jsonStr, masterPublicShape())
	if err != nil {
		return nil, err
	}
	return toParsedKey(p), nil
}

// ParseMasterPrivateKey validates and parses a master private key JSON string.
func ParseMasterPrivateKey(jsonStr string) (*ParsedKey, error) {
	p, err := parse(jsonStr, masterPrivateShape())
	if err != nil {
		return nil, err
	}
	return toParsedKey(p), nil
}

// IsValidMasterPublicKey is the total boolean form of ParseMasterPublicKey.
func IsValidMasterPublicKey(jsonStr string) bool {
	_, err := ParseMasterPublicKey(jsonStr)
	return err == nil
}

// IsValidMasterPrivateKey is the total boolean form of ParseMasterPrivateKey.
func IsValidMasterPrivateKey(jsonStr string) bool {
	_, err := ParseMasterPrivateKey(jsonStr)
	return err == nil
}

// ---- Identity ----

const (
	IdentityPublicKeyType  = "identityKeyPublic"
	IdentityPrivateKeyType = "identityKeyPrivate"
	IdentityAlgorithm      = "ML-DSA-65"
)

func identityShape(keyType string, size int) shape {
	return shape{fields: []fieldSpec{
		{name: "keyType", kind: fieldLiteral, literal: keyType},
		{name: "key", kind: fieldB64Sized, size: size},
		{name: "algorithm", kind: fieldLiteral, literal: IdentityAlgorithm},
		{name: "timestamp", kind: fieldInt64},
		{name: "sessionUuid", kind: fieldUUIDv7},
	}}
}

func EmitIdentityPublicKey(keyB64 string, timestamp int64, sessionUUID string) string {
	return mustMarshal(algoTimestampSessionKeyJSON{IdentityPublicKeyType, keyB64, IdentityAlgorithm, timestamp, sessionUUID})
}

func EmitIdentityPrivateKey(keyB64 string, timestamp int64, sessionUUID string) string {
	return mustMarshal(algoTimestampSessionKeyJSON{IdentityPrivateKeyType, keyB64, IdentityAlgorithm, timestamp, sessionUUID})
}

func ParseIdentityPublicKey(jsonStr string) (*ParsedKey, error) {
	p, err := parse(jsonStr, identityShape(IdentityPublicKeyType, 1952))
	if err != nil {
		return nil, err
	}
	return toParsedKey(p), nil
}

func ParseIdentityPrivateKey(jsonStr string) (*ParsedKey, error) {
	p, err := parse(jsonStr, identityShape(IdentityPrivateKeyType, 4032))
	if err != nil {
		return nil, err
	}
	return toParsedKey(p), nil
}

func IsValidIdentityPublicKey(jsonStr string) bool {
	_, err := ParseIdentityPublicKey(jsonStr)
	return err == nil
}

func IsValidIdentityPrivateKey(jsonStr string) bool {
	_, err := ParseIdentityPrivateKey(jsonStr)
	return err == nil
}

// ---- Account ----

const (
	AccountPublicKeyType  = "accountKeyPublic"
	AccountPrivateKeyType = "accountKeyPrivate"
	AccountAlgorithm      = "ML-KEM-768"
)

func accountShape(keyType string, size int) shape {
	return shape{fields: []fieldSpec{
		{name: "keyType", kind: fieldLiteral, literal: keyType},
		{name: "key", kind: fieldB64Sized, size: size},
		{name: "algorithm", kind: fieldLiteral, literal: AccountAlgorithm},
		{name: "timestamp", kind: fieldInt64},
	}}
}

func EmitAccountPublicKey(keyB64 string, timestamp int64) string {
	return mustMarshal(algoTimestampKeyJSON{AccountPublicKeyType, keyB64, AccountAlgorithm, timestamp})
}

func EmitAccountPrivateKey(keyB64 string, timestamp int64) string {
	return mustMarshal(algoTimestampKeyJSON{AccountPrivateKeyType, keyB64, AccountAlgorithm, timestamp})
}

func ParseAccountPublicKey(jsonStr string) (*ParsedKey, error) {
	p, err := parse(jsonStr, accountShape(AccountPublicKeyType, 1184))
	if err != nil {
		return nil, err
	}
	return toParsedKey(p), nil
}

func ParseAccountPrivateKey(jsonStr string) (*ParsedKey, error) {
	p, err := parse(jsonStr, accountShape(AccountPrivateKeyType, 2400))
	if err != nil {
		return nil, err
	}
	return toParsedKey(p), nil
}

func IsValidAccountPublicKey(jsonStr string) bool {
	_, err := ParseAccountPublicKey(jsonStr)
	return err == nil
}

func IsValidAccountPrivateKey(jsonStr string) bool {
	_, err := ParseAccountPrivateKey(jsonStr)
	return err == nil
}

// ---- Room ----

const (
	RoomKeyType      = "roomKey"
	RoomAlgorithm    = "AES-GCM"
	RoomKeyRawSize   = 32
)

func roomShape() shape {
	return shape{fields: []fieldSpec{
		{name: "keyType", kind: fieldLiteral, literal: RoomKeyType},
		{name: "key", kind: fieldB64Sized, size: RoomKeyRawSize},
		{name: "algorithm", kind: fieldLiteral, literal: RoomAlgorithm},
		{name: "timestamp", kind: fieldInt64},
		{name: "sessionUuid", kind: fieldUUIDv7},
	}}
}

func EmitRoomKey(keyB64 string, timestamp int64, sessionUUID string) string {
	return mustMarshal(algoTimestampSessionKeyJSON{RoomKeyType, keyB64, RoomAlgorithm, timestamp, sessionUUID})
}

func ParseRoomKey(jsonStr string) (*ParsedKey, error) {
	p, err := parse(jsonStr, roomShape())
	if err != nil {
		return nil, err
	}
	return toParsedKey(p), nil
}

func IsValidRoomKey(jsonStr string) bool {
	_, err := ParseRoomKey(jsonStr)
	return err == nil
}

// ---- Share ----

const (
	SharePublicKeyType  = "shareKeyPublic"
	SharePrivateKeyType = "shareKeyPrivate"
	ShareAlgorithm      = "ML-KEM-768"
)

func shareShape(keyType string, size int) shape {
	return shape{fields: []fieldSpec{
		{name: "keyType", kind: fieldLiteral, literal: keyType},
		{name: "key", kind: fieldB64Sized, size: size},
		{name: "algorithm", kind: fieldLiteral, literal: ShareAlgorithm},
		{name: "timestamp", kind: fieldInt64},
		{name: "sessionUuid", kind: fieldUUIDv7},
	}}
}

func EmitSharePublicKey(keyB64 string, timestamp int64, sessionUUID string) string {
	return mustMarshal(algoTimestampSessionKeyJSON{SharePublicKeyType, keyB64, ShareAlgorithm, timestamp, sessionUUID})
}

func EmitSharePrivateKey(keyB64 string, timestamp int64, sessionUUID string) string {
	return mustMarshal(algoTimestampSessionKeyJSON{SharePrivateKeyType, keyB64, ShareAlgorithm, timestamp, sessionUUID})
}

func ParseSharePublicKey(jsonStr string) (*ParsedKey, error) {
	p, err := parse(jsonStr, shareShape(SharePublicKeyType, 1184))
	if err != nil {
		return nil, err
	}
	return toParsedKey(p), nil
}

func ParseSharePrivateKey(jsonStr string) (*ParsedKey, error) {
	p, err := parse(jsonStr, shareShape(SharePrivateKeyType, 2400))
	if err != nil {
		return nil, err
	}
	return toParsedKey(p), nil
}

func IsValidSharePublicKey(jsonStr string) bool {
	_, err := ParseSharePublicKey(jsonStr)
	return err == nil
}

func IsValidSharePrivateKey(jsonStr string) bool {
	_, err := ParseSharePrivateKey(jsonStr)
	return err == nil
}

// ---- ShareSign ----

const (
	ShareSignPublicKeyType  = "shareSignKeyPublic"
	ShareSignPrivateKeyType = "shareSignKeyPrivate"
	ShareSignAlgorithm      = "ML-DSA-65"
)

func shareSignShape(keyType string, size int) shape {
	return shape{fields: []fieldSpec{
		{name: "keyType", kind: fieldLiteral, literal: keyType},
		{name: "key", kind: fieldB64Sized, size: size},
		{name: "algorithm", kind: fieldLiteral, literal: ShareSignAlgorithm},
		{name: "timestamp", kind: fieldInt64},
		{name: "sessionUuid", kind: fieldUUIDv7},
	}}
}

func EmitShareSignPublicKey(keyB64 string, timestamp int64, sessionUUID string) string {
	return mustMarshal(algoTimestampSessionKeyJSON{ShareSignPublicKeyType, keyB64, ShareSignAlgorithm, timestamp, sessionUUID})
}

func EmitShareSignPrivateKey(keyB64 string, timestamp int64, sessionUUID string) string {
	return mustMarshal(algoTimestampSessionKeyJSON{ShareSignPrivateKeyType, keyB64, ShareSignAlgorithm, timestamp, sessionUUID})
}

func ParseShareSignPublicKey(jsonStr string) (*ParsedKey, error) {
	p, err := parse(jsonStr, shareSignShape(ShareSignPublicKeyType, 1952))
	if err != nil {
		return nil, err
	}
	return toParsedKey(p), nil
}

func ParseShareSignPrivateKey(jsonStr string) (*ParsedKey, error) {
	p, err := parse(jsonStr, shareSignShape(ShareSignPrivateKeyType, 4032))
	if err != nil {
		return nil, err
	}
	return toParsedKey(p), nil
}

func IsValidShareSignPublicKey(jsonStr string) bool {
	_, err := ParseShareSignPublicKey(jsonStr)
	return err == nil
}

func IsValidShareSignPrivateKey(jsonStr string) bool {
	_, err := ParseShareSignPrivateKey(jsonStr)
	return err == nil
}

// ---- Migrate ----
//
// Migrate keys carry no master signature and no algorithm field — the key
// kind alone implies ML-KEM-768, since migrate keys exist only to KEM-wrap
// data during account migration.

const (
	MigratePublicKeyType  = "migrateKeyPublic"
	MigratePrivateKeyType = "migrateKeyPrivate"
)

func migrateShape(keyType string, size int) shape {
	return shape{fields: []fieldSpec{
		{name: "keyType", kind: fieldLiteral, literal: keyType},
		{name: "key", kind: fieldB64Sized, size: size},
		{name: "timestamp", kind: fieldInt64, optional: true},
	}}
}

func EmitMigratePublicKey(keyB64 string, timestamp *int64) string {
	return mustMarshal(optionalTimestampKeyJSON{MigratePublicKeyType, keyB64, timestamp})
}

func EmitMigratePrivateKey(keyB64 string, timestamp *int64) string {
	return mustMarshal(optionalTimestampKeyJSON{MigratePrivateKeyType, keyB64, timestamp})
}

func ParseMigratePublicKey(jsonStr string) (*ParsedKey, error) {
	p, err := parse(jsonStr, migrateShape(MigratePublicKeyType, 1184))
	if err != nil {
		return nil, err
	}
	return toParsedKey(p), nil
}

func ParseMigratePrivateKey(jsonStr string) (*ParsedKey, error) {
	p, err := parse(jsonStr, migrateShape(MigratePrivateKeyType, 2400))
	if err != nil {
		return nil, err
	}
	return toParsedKey(p), nil
}

func IsValidMigratePublicKey(jsonStr string) bool {
	_, err := ParseMigratePublicKey(jsonStr)
	return err == nil
}

func IsValidMigratePrivateKey(jsonStr string) bool {
	_, err := ParseMigratePrivateKey(jsonStr)
	return err == nil
}

// ---- MigrateSign ----

const (
	MigrateSignPublicKeyType  = "migrateSignKeyPublic"
	MigrateSignPrivateKeyType = "migrateSignKeyPrivate"
)

func migrateSignShape(keyType string, size int) shape {
	return shape{fields: []fieldSpec{
		{name: "keyType", kind: fieldLiteral, literal: keyType},
		{name: "key", kind: fieldB64Sized, size: size},
		{name: "timestamp", kind: fieldInt64, optional: true},
	}}
}

func EmitMigrateSignPublicKey(keyB64 string, timestamp *int64) string {
	return mustMarshal(optionalTimestampKeyJSON{MigrateSignPublicKeyType, keyB64, timestamp})
}

func EmitMigrateSignPrivateKey(keyB64 string, timestamp *int64) string {
	return mustMarshal(optionalTimestampKeyJSON{MigrateSignPrivateKeyType, keyB64, timestamp})
}

func ParseMigrateSignPublicKey(jsonStr string) (*ParsedKey, error) {
	p, err := parse(jsonStr, migrateSignShape(MigrateSignPublicKeyType, 1952))
	if err != nil {
		return nil, err
	}
	return toParsedKey(p), nil
}

func ParseMigrateSignPrivateKey(jsonStr string) (*ParsedKey, error) {
	p, err := parse(jsonStr, migrateSignShape(MigrateSignPrivateKeyType, 4032))
	if err != nil {
		return nil, err
	}
	return toParsedKey(p), nil
}

func IsValidMigrateSignPublicKey(jsonStr string) bool {
	_, err := ParseMigrateSignPublicKey(jsonStr)
	return err == nil
}

func IsValidMigrateSignPrivateKey(jsonStr string) bool {
	_, err := ParseMigrateSignPrivateKey(jsonStr)
	return err == nil
}

// ---- Device ----

const (
	DeviceKeyType    = "deviceKey"
	DeviceKeyRawSize = 32
)

func deviceShape() shape {
	return shape{fields: []fieldSpec{
		{name: "keyType", kind: fieldLiteral, literal: DeviceKeyType},
		{name: "key", kind: fieldB64Sized, size: DeviceKeyRawSize},
	}}
}

func EmitDeviceKey(keyB64 string) string {
	return mustMarshal(bareKeyJSON{KeyType: DeviceKeyType, Key: keyB64})
}

func ParseDeviceKey(jsonStr string) (*ParsedKey, error) {
	p, err := parse(jsonStr, deviceShape())
	if err != nil {
		return nil, err
	}
	return toParsedKey(p), nil
}

func IsValidDeviceKey(jsonStr string) bool {
	_, err := ParseDeviceKey(jsonStr)
	return err == nil
}

// ---- Server ----
//
// Server keys carry a required timestamp but no algorithm field — the
// kind alone implies ML-DSA-65 — and no sessionUuid, since a server key is
// not scoped to a client session.

const (
	ServerPublicKeyType  = "serverKeyPublic"
	ServerPrivateKeyType = "serverKeyPrivate"
)

func serverShape(keyType string, size int) shape {
	return shape{fields: []fieldSpec{
		{name: "keyType", kind: fieldLiteral, literal: keyType},
		{name: "key", kind: fieldB64Sized, size: size},
		{name: "timestamp", kind: fieldInt64},
	}}
}

func EmitServerPublicKey(keyB64 string, timestamp int64) string {
	return mustMarshal(timestampKeyJSON{ServerPublicKeyType, keyB64, timestamp})
}

func EmitServerPrivateKey(keyB64 string, timestamp int64) string {
	return mustMarshal(timestampKeyJSON{ServerPrivateKeyType, keyB64, timestamp})
}

func ParseServerPublicKey(jsonStr string) (*ParsedKey, error) {
	p, err := parse(jsonStr, serverShape(ServerPublicKeyType, 1952))
	if err != nil {
		return nil, err
	}
	return toParsedKey(p), nil
}

func ParseServerPrivateKey(jsonStr string) (*ParsedKey, error) {
	p, err := parse(jsonStr, serverShape(ServerPrivateKeyType, 4032))
	if err != nil {
		return nil, err
	}
	return toParsedKey(p), nil
}

func IsValidServerPublicKey(jsonStr string) bool {
	_, err := ParseServerPublicKey(jsonStr)
	return err == nil
}

func IsValidServerPrivateKey(jsonStr string) bool {
	_, err := ParseServerPrivateKey(jsonStr)
	return err == nil
}

package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyHashKnownVector(t *testing.T) {
	// known base64(SHA-256("hello world")) vector.
	got := KeyHash("hello world")
	assert.Equal(t, "uU0nuZNNPgilLlLX2n2r+sSE7+N6U4DukIj3rOLvzek=", got)
	assert.Len(t, got, 44)
}

func TestKeyHashDecodedLength(t *testing.T) {
	h := KeyHash("anything")
	raw, err := DecodeB64(h)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
}

func TestDecodedLenEquals(t *testing.T) {
	b64 := EncodeB64(make([]byte, 12))
	assert.True(t, DecodedLenEquals(b64, 12))
	assert.False(t, DecodedLenEquals(b64, 13))
	assert.False(t, DecodedLenEquals("not base64!!", 12))
}

func TestEncodeHexLowercase(t *testing.T) {
	got := EncodeHex([]byte{0xAB, 0xCD, 0x01})
	assert.Equal(t, "abcd01", got)
}

func TestB64Len(t *testing.T) {
	assert.Equal(t, 44, B64Len(32))
	assert.Equal(t, 16, B64Len(12))
}
